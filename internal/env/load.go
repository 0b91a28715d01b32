// Package env loads a dotenv file so TEAPOT_* overrides can live next to the binary.
package env

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/subosito/gotenv"
)

// DefaultPath is read by the CLI before the configuration.
const DefaultPath = ".env"

// Load sets the variables in the dotenv file at path. Variables already present in the
// environment keep their value. A missing file is not an error.
func Load(path string) error {
	err := gotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("env: %s: %w", path, err)
	}
	return nil
}
