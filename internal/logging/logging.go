package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Reporter surfaces a caught failure to the user. Services take one as a
// dependency instead of reaching for global state; the App implementation
// shows a modal dialog and writes to the error log.
type Reporter interface {
	ReportError(msg string, err error)
}

// New returns a logger that appends timestamped lines to error.log in dir,
// mirrored to stderr.
func New(dir string) (zerolog.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to open error log: %w", err)
	}

	w := io.MultiWriter(zerolog.ConsoleWriter{Out: os.Stderr}, f)
	return zerolog.New(w).With().Timestamp().Logger(), nil
}
