package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const logFileMode = 0o600

type Options struct {
	Level string
	// File is appended to when set. Otherwise logs go to Fallback.
	File     string
	Fallback io.Writer
}

// New builds a logger and returns a close func for the underlying file.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := zerolog.WarnLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return zerolog.Nop(), noopClose, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	output := opts.Fallback
	closeFn := noopClose
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return zerolog.Nop(), noopClose, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode)
		if err != nil {
			return zerolog.Nop(), noopClose, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closeFn = file.Close
	}
	if output == nil {
		output = io.Discard
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", "ta").
		Logger()

	return logger, closeFn, nil
}

func noopClose() error {
	return nil
}
