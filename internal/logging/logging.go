// Package logging builds the leveled loggers used by the commands.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to stderr with the given prefix.
func New(prefix, level string) (*log.Logger, error) {
	return NewWithWriter(os.Stderr, prefix, level)
}

// NewWithWriter is New for an arbitrary writer.
func NewWithWriter(w io.Writer, prefix, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
	}), nil
}
