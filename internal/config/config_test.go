package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teapot-viewer/internal/label"
	"teapot-viewer/internal/teapot"
	"teapot-viewer/internal/viewer"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts := cfg.ViewerOptions()
	assert.Equal(t, viewer.DefaultOptions(), opts)
	assert.Equal(t, teapot.DefaultOptions(), cfg.Teapot)
	assert.True(t, cfg.Label.Enabled)
	assert.Equal(t, "The Utah Teapot", cfg.Label.Text)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "classic", cfg.Preset)
	assert.Equal(t, float32(0.75), cfg.Canvas.Scale)
	assert.Equal(t, Vec3{0, 500, 3000}, cfg.Camera.Position)
	assert.Len(t, cfg.UI.Pages, 2)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
canvas:
  scale: 2
  mode: divide
label:
  text: Hello
teapot:
  segments: 8
ui:
  pages:
    - title: only
      viewer: true
`)
	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, float32(2), cfg.Canvas.Scale)
	assert.Equal(t, "divide", cfg.Canvas.Mode)
	assert.Equal(t, "Hello", cfg.Label.Text)
	assert.Equal(t, 1240, cfg.Label.Width, "untouched keys keep their defaults")
	assert.Equal(t, 8, cfg.Teapot.Segments)
	assert.True(t, cfg.Teapot.Blinn)
	require.Len(t, cfg.UI.Pages, 1)
	assert.True(t, cfg.UI.Pages[0].Viewer)
}

func TestLoadPresetFromFileThenOverride(t *testing.T) {
	path := writeFile(t, `
preset: studio
camera:
  min_distance: 500
`)
	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "studio", cfg.Preset)
	assert.Equal(t, float32(1.25), cfg.Canvas.Scale)
	assert.Equal(t, Vec3{-600, 550, 1300}, cfg.Camera.Position)
	assert.Equal(t, float32(500), cfg.Camera.MinDistance)
	assert.False(t, cfg.Label.Enabled)
	assert.True(t, cfg.UI.Explanation)
}

func TestPresetOptionWinsOverFile(t *testing.T) {
	path := writeFile(t, "preset: studio\n")
	cfg, err := Load(LoadOptions{Path: path, Preset: "gallery"})
	require.NoError(t, err)
	assert.Equal(t, "gallery", cfg.Preset)
	assert.Equal(t, float32(1.5), cfg.Canvas.Scale)
	assert.Len(t, cfg.UI.Pages, 4)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TEAPOT_CANVAS_SCALE", "1.5")
	t.Setenv("TEAPOT_CANVAS_MODE", "divide")
	t.Setenv("TEAPOT_LABEL_TEXT", "From env")
	t.Setenv("TEAPOT_TEAPOT_FIT_LID", "true")

	cfg, err := Load(LoadOptions{Path: writeFile(t, "canvas:\n  scale: 3\n")})
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), cfg.Canvas.Scale)
	assert.Equal(t, "divide", cfg.Canvas.Mode)
	assert.Equal(t, "From env", cfg.Label.Text)
	assert.True(t, cfg.Teapot.FitLid)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, err = Load(LoadOptions{Preset: "studi"})
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), `did you mean "studio"`)

	_, err = Load(LoadOptions{Path: writeFile(t, "canvas:\n  scale: 0\nteapot:\n  segments: 0\n")})
	assert.ErrorIs(t, err, viewer.ErrInvalidScale)
	assert.ErrorIs(t, err, teapot.ErrInvalidSegments)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Camera.MinDistance = 6000
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = Default()
	cfg.Label.Text = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
	cfg.Label.Enabled = false
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Label.FontSize = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, label.ErrInvalidText)

	cfg = Default()
	cfg.Label.TextWidth = -5
	assert.ErrorIs(t, cfg.Validate(), label.ErrInvalidText)
	cfg.Label.Enabled = false
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Canvas.Mode = "stretch"
	assert.ErrorIs(t, cfg.Validate(), viewer.ErrInvalidMode)
}

func TestDefaultLightsFromAbove(t *testing.T) {
	assert.Equal(t, Vec3{0, -1, 0}, Default().Scene.LightDir)
}

func TestGetPresetReturnsCopies(t *testing.T) {
	assert.Equal(t, []string{"classic", "gallery", "studio"}, ListPresets())

	a, err := GetPreset("gallery")
	require.NoError(t, err)
	a.UI.Pages[0].Title = "changed"
	a.Camera.Position.X = 1

	b, err := GetPreset("gallery")
	require.NoError(t, err)
	assert.Equal(t, "teapot", b.UI.Pages[0].Title)
	assert.Equal(t, float32(0), b.Camera.Position.X)

	for _, name := range ListPresets() {
		p, err := GetPreset(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate(), name)
		assert.Equal(t, name, p.Preset)
	}
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "classic", suggest("clasic", ListPresets()))
	assert.Equal(t, "", suggest("zzzzzzzz", ListPresets()))
}

func TestSaveAndLoad(t *testing.T) {
	cfg, err := GetPreset("gallery")
	require.NoError(t, err)
	cfg.Orbit.Radius = 2500
	path := filepath.Join(t.TempDir(), "nested", "viewer.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
