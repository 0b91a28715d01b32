package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFilePath is the JSON log file, relative to the working directory.
const LogFilePath = "logs/viewer.log"

// recentLines is how many formatted lines Lines keeps.
const recentLines = 200

// Options configure New. Console defaults to stderr; an empty File disables the JSON file.
type Options struct {
	Level   string
	File    string
	Console io.Writer
	NoColor bool
}

// Logger is a zerolog logger that writes human-readable lines to the console, JSON records to
// a file, and keeps the most recent lines in memory for the on-screen overlay.
type Logger struct {
	zerolog.Logger
	recent *ring
	file   *os.File
}

// New builds the logger. An unknown level is an error; the file directory is created.
func New(o Options) (*Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if o.Level != "" {
		lv, err := zerolog.ParseLevel(strings.ToLower(o.Level))
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		level = lv
	}
	console := o.Console
	if console == nil {
		console = os.Stderr
	}
	l := &Logger{recent: &ring{max: recentLines}}
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen, NoColor: o.NoColor},
		zerolog.ConsoleWriter{Out: l.recent, TimeFormat: "15:04:05", NoColor: true},
	}
	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(o.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}
	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Lines returns a copy of the most recent formatted lines, oldest first.
func (l *Logger) Lines() []string { return l.recent.lines() }

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ring collects written text as lines and keeps the last max of them.
type ring struct {
	mu      sync.Mutex
	max     int
	buf     []string
	partial []byte
}

func (r *ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := append(r.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		r.buf = append(r.buf, string(data[:i]))
		data = data[i+1:]
	}
	r.partial = append([]byte(nil), data...)
	if over := len(r.buf) - r.max; over > 0 {
		r.buf = append(r.buf[:0], r.buf[over:]...)
	}
	return len(p), nil
}

func (r *ring) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.buf))
	copy(out, r.buf)
	return out
}
