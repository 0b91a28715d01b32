package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teapot-viewer/internal/config"
	"teapot-viewer/internal/teapot"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestPresetsCommand(t *testing.T) {
	out := run(t, presetsCmd())
	for _, name := range config.ListPresets() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "divide 1.50")
}

func TestExportOBJCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teapot.obj")
	out := run(t, exportOBJCmd(), "--segments", "2", path)
	assert.Contains(t, out, "vertices")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# teapot: "))
	assert.Contains(t, string(data), "\nf ")
}

type closeFailer struct {
	bytes.Buffer
	closed bool
}

var errDiskFull = errors.New("disk full")

func (c *closeFailer) Close() error {
	c.closed = true
	return errDiskFull
}

func TestWriteOBJReportsCloseError(t *testing.T) {
	opts := teapot.DefaultOptions()
	opts.Segments = 2
	g, err := teapot.Generate(opts)
	require.NoError(t, err)

	w := &closeFailer{}
	err = writeOBJ(w, g)
	assert.ErrorIs(t, err, errDiskFull)
	assert.True(t, w.closed)
	assert.Contains(t, w.String(), "\nf ")
}

func TestLabelCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.png")
	out := run(t, labelCmd(), "--text", "Hi", path)
	assert.Contains(t, out, "1240x240")

	img, err := imgio.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1240, img.Bounds().Dx())
}

func TestInitConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "viewer.yaml")
	run(t, initConfigCmd(), path)

	cfg, err := config.Load(config.LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "classic", cfg.Preset)
}
