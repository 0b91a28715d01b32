package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where the viewer looks for font files, relative to the working directory.
const DefaultDir = "assets/fonts"

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

var ErrNotFound = errors.New("fonts: no matching font")

// ScanDir returns the paths of all font files under dir, relative to dir with forward slashes.
// A missing dir yields an empty list.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and drops spaces, dashes and underscores for loose matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find returns the full path of a font under dir whose relative path contains name
// (loosely matched, so "Open Sans" finds "OpenSans/OpenSans-Bold.ttf"). When several match,
// a path containing one of prefer (tried in order, e.g. "bold", "regular") wins.
func Find(dir, name string, prefer ...string) (string, error) {
	if st, err := os.Stat(name); err == nil && !st.IsDir() && isFont(name) {
		return name, nil
	}
	norm := normalize(name)
	if norm == "" {
		return "", ErrNotFound
	}
	list, err := ScanDir(dir)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, rel := range list {
		if strings.Contains(normalize(rel), norm) {
			matches = append(matches, rel)
		}
	}
	if len(matches) == 0 {
		return "", ErrNotFound
	}
	best := matches[0]
pick:
	for _, p := range prefer {
		for _, rel := range matches {
			if strings.Contains(strings.ToLower(rel), strings.ToLower(p)) {
				best = rel
				break pick
			}
		}
	}
	return filepath.Join(dir, filepath.FromSlash(best)), nil
}
