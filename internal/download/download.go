// Package download fetches cubemap faces over HTTP into a skybox directory, either as six
// images under a base URL or as one zip archive containing them.
package download

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"teapot-viewer/internal/scene"
)

const userAgent = "teapot-viewer/1.0"

var ErrIncomplete = errors.New("download: skybox is missing faces")

// Client is the HTTP client used by Skybox. Tests swap it out.
var Client = &http.Client{Timeout: 60 * time.Second}

// Skybox stores the six faces from src in dir and returns their paths in scene.FaceNames
// order. A src ending in .zip is downloaded and its face images extracted, wherever they sit
// in the archive; any other src is a base URL that the face files are appended to, trying
// .png then .jpg.
func Skybox(ctx context.Context, src, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if strings.EqualFold(path.Ext(stripQuery(src)), ".zip") {
		return skyboxZip(ctx, src, dir)
	}
	base := strings.TrimSuffix(src, "/") + "/"
	var saved []string
	for _, name := range scene.FaceNames {
		p, err := firstFace(ctx, base, name, dir)
		if err != nil {
			return saved, err
		}
		saved = append(saved, p)
	}
	return saved, nil
}

func firstFace(ctx context.Context, base, name, dir string) (string, error) {
	var last error
	for _, ext := range []string{".png", ".jpg"} {
		dest := filepath.Join(dir, name+ext)
		if err := fetch(ctx, base+name+ext, dest); err != nil {
			last = err
			continue
		}
		return dest, nil
	}
	return "", fmt.Errorf("%w: %s: %v", ErrIncomplete, name, last)
}

func skyboxZip(ctx context.Context, src, dir string) ([]string, error) {
	tmp, err := os.CreateTemp("", "skybox-*.zip")
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())
	if err := fetch(ctx, src, tmp.Name()); err != nil {
		return nil, err
	}
	return unzipFaces(tmp.Name(), dir)
}

// fetch GETs url into dest. A failed transfer leaves no file behind.
func fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := Client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: %s: HTTP %d", url, resp.StatusCode)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	_, err = io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("download: %w", err)
	}
	return nil
}

// unzipFaces extracts the entries named like a cube face (px.png, sky/nz.jpg, ...) into dir,
// flattening directories. Other entries are skipped.
func unzipFaces(zipPath, dir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()
	found := map[string]string{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := path.Base(f.Name)
		ext := strings.ToLower(path.Ext(base))
		name := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
		if !isFace(name) || (ext != ".png" && ext != ".jpg" && ext != ".jpeg") {
			continue
		}
		if _, dup := found[name]; dup {
			continue
		}
		dest := filepath.Join(dir, name+ext)
		if err := extract(f, dest); err != nil {
			return nil, err
		}
		found[name] = dest
	}
	var saved []string
	var missing []string
	for _, name := range scene.FaceNames {
		if p, ok := found[name]; ok {
			saved = append(saved, p)
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return saved, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return saved, nil
}

func extract(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("unzip: %w", err)
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unzip: %w", err)
	}
	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("unzip: %w", err)
	}
	return nil
}

func isFace(name string) bool {
	for _, n := range scene.FaceNames {
		if n == name {
			return true
		}
	}
	return false
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
