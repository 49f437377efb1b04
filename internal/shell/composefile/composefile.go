// Package composefile reads and writes compose files on disk.
package composefile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/olegjo/docker-utils/internal/core/compose"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrReadFailed is returned when a compose file cannot be read.
	ErrReadFailed = errors.New("failed to read compose file")

	// ErrWriteFailed is returned when a compose file cannot be written.
	ErrWriteFailed = errors.New("failed to write compose file")
)

// FileError wraps errors with the operation and path that failed.
type FileError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// =============================================================================
// Files
// =============================================================================

// Files loads and saves compose files.
type Files struct {
	logger *slog.Logger
	indent int
}

// New creates a Files using the given YAML indentation.
// A nil logger uses slog.Default.
func New(indent int, logger *slog.Logger) *Files {
	if logger == nil {
		logger = slog.Default()
	}
	return &Files{logger: logger, indent: indent}
}

// Save writes f to path, replacing any existing file.
func (fs *Files) Save(path string, f *compose.ComposeFile) error {
	data, err := compose.Marshal(f, fs.indent)
	if err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FileError{Op: "save", Path: path, Err: fmt.Errorf("%w: %w", ErrWriteFailed, err)}
	}

	fs.logger.Info("saved compose file",
		"path", path,
		"version", f.Version().String(),
		"services", len(f.Services()),
		"bytes", len(data),
	)
	return nil
}

// Load reads and parses the compose file at path.
func (fs *Files) Load(path string) (*compose.ComposeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "load", Path: path, Err: fmt.Errorf("%w: %w", ErrReadFailed, err)}
	}

	f, err := compose.Unmarshal(data)
	if err != nil {
		fs.logger.Warn("invalid compose file", "path", path, "error", err)
		return nil, &FileError{Op: "load", Path: path, Err: err}
	}

	fs.logger.Debug("loaded compose file",
		"path", path,
		"version", f.Version().String(),
		"services", len(f.Services()),
	)
	return f, nil
}
