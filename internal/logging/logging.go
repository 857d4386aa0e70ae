package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
	file   *os.File
)

// Setup configures the process-wide diagnostic logger. Records go to the
// log file at path and, when toStderr is set, to stderr as well. Only the
// first call has an effect.
func Setup(path string, toStderr bool) *slog.Logger {
	once.Do(func() {
		var writers []io.Writer
		if toStderr {
			writers = append(writers, os.Stderr)
		}
		if f, err := openLogFile(path); err == nil {
			file = f
			writers = append(writers, f)
		}
		if len(writers) == 0 {
			writers = append(writers, io.Discard)
		}

		handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: slog.LevelInfo})
		logger = slog.New(handler)
	})
	return logger
}

// Close flushes the log file, if any.
func Close() error {
	if file == nil {
		return nil
	}
	return file.Close()
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(cwd, "inventory.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
