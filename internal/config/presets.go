package config

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/jinzhu/copier"

	"teapot-viewer/internal/ui"
	"teapot-viewer/internal/viewer"
)

// Presets are the named variants of the viewer page. GetPreset hands out copies; the map
// entries themselves are never modified.
var Presets = map[string]*Config{
	// classic: canvas at 0.75 of the window with the floating label.
	"classic": Default(),
	// studio: canvas at window/1.25, close three-quarter camera, explanation panel, no label.
	"studio": func() *Config {
		c := Default()
		c.Preset = "studio"
		c.Canvas = CanvasConfig{Scale: 1.25, Mode: string(viewer.Divide)}
		c.Camera.Position = Vec3{-600, 550, 1300}
		c.Label.Enabled = false
		c.UI.Explanation = true
		c.UI.Pages = nil
		return c
	}(),
	// gallery: canvas at window/1.5, label, explanation and a full set of pages.
	"gallery": func() *Config {
		c := Default()
		c.Preset = "gallery"
		c.Canvas = CanvasConfig{Scale: 1.5, Mode: string(viewer.Divide)}
		c.UI.Explanation = true
		c.UI.Pages = []ui.PageSpec{
			{Title: "teapot", Viewer: true},
			{Title: "history", Body: "Drawn by Martin Newell at the University of Utah in 1975.\nJim Blinn later squashed it to the proportions used here."},
			{Title: "geometry", Body: "32 bicubic Bezier patches: rim, body, handle, spout, lid and bottom.\nEach patch is tessellated into a grid of quads."},
			{Title: "controls", Body: "Drag to orbit, scroll to zoom.\nE toggles explore, 1-9 switch pages, F1 shows debug info."},
		}
		return c
	}(),
}

// ListPresets returns the preset names in order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a deep copy of the named preset. An unknown name suggests the closest one.
func GetPreset(name string) (*Config, error) {
	preset, ok := Presets[name]
	if !ok {
		if s := suggest(name, ListPresets()); s != "" {
			return nil, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownPreset, name, s)
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	out := &Config{}
	if err := copier.CopyWithOption(out, preset, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("config: copy preset %s: %w", name, err)
	}
	return out, nil
}

// suggest returns the candidate closest to name, or "" when none is within a third of its length.
func suggest(name string, candidates []string) string {
	best, bestDist := "", len(name)/3+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
