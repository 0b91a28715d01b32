package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "# overrides\nTEAPOT_CANVAS_SCALE=1.5\nexport TEAPOT_LABEL_TEXT=\"Hello teapot\"\nTEAPOT_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("TEAPOT_LOG_LEVEL", "warn")
	t.Setenv("TEAPOT_CANVAS_SCALE", "")
	os.Unsetenv("TEAPOT_CANVAS_SCALE")
	t.Setenv("TEAPOT_LABEL_TEXT", "")
	os.Unsetenv("TEAPOT_LABEL_TEXT")

	require.NoError(t, Load(path))
	assert.Equal(t, "1.5", os.Getenv("TEAPOT_CANVAS_SCALE"))
	assert.Equal(t, "Hello teapot", os.Getenv("TEAPOT_LABEL_TEXT"))
	assert.Equal(t, "warn", os.Getenv("TEAPOT_LOG_LEVEL"), "existing values win")
}

func TestLoadMissingFile(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "nope.env")))
}
