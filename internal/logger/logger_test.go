package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesEverywhere(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "viewer.log")
	l, err := New(Options{File: path, Console: &console, NoColor: true})
	require.NoError(t, err)

	l.Info().Str("session", "abc").Msg("scene ready")
	l.Debug().Msg("hidden at info level")
	require.NoError(t, l.Close())

	assert.Contains(t, console.String(), "scene ready")
	assert.NotContains(t, console.String(), "hidden")

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "scene ready")
	assert.Contains(t, lines[0], "session=abc")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "scene ready", rec["message"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "abc", rec["session"])
}

func TestLoggerLevel(t *testing.T) {
	var console bytes.Buffer
	l, err := New(Options{Level: "DEBUG", Console: &console, NoColor: true})
	require.NoError(t, err)
	l.Debug().Msg("visible")
	assert.Contains(t, console.String(), "visible")

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestLinesKeepsMostRecent(t *testing.T) {
	var console bytes.Buffer
	l, err := New(Options{Console: &console, NoColor: true})
	require.NoError(t, err)
	for i := 0; i < recentLines+25; i++ {
		l.Info().Msg(fmt.Sprintf("line %03d", i))
	}
	lines := l.Lines()
	require.Len(t, lines, recentLines)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[0]), "line 025"), lines[0])
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[len(lines)-1]), fmt.Sprintf("line %03d", recentLines+24)))
}

func TestRingJoinsPartialWrites(t *testing.T) {
	r := &ring{max: 10}
	_, _ = r.Write([]byte("hel"))
	_, _ = r.Write([]byte("lo\nwor"))
	assert.Equal(t, []string{"hello"}, r.lines())
	_, _ = r.Write([]byte("ld\n"))
	assert.Equal(t, []string{"hello", "world"}, r.lines())
}
