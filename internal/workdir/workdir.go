// Package workdir owns the temporary directory that holds captured images
// for the lifetime of one capture widget.
package workdir

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultPrefix names directories created by New when no prefix is given.
const DefaultPrefix = "WebcamCapture-"

// Dir is a uniquely named temporary directory.
type Dir struct {
	path string
	once sync.Once
}

// New creates a fresh directory under the system temp dir.
func New(prefix string) (*Dir, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	path, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("workdir: create: %w", err)
	}
	slog.Debug("work dir created", "component", "workdir", "path", path)
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// Join returns name inside the directory.
func (d *Dir) Join(name string) string {
	return filepath.Join(d.path, name)
}

// Remove deletes the directory and everything in it. Errors are ignored and
// repeated calls are no-ops.
func (d *Dir) Remove() {
	d.once.Do(func() {
		if err := os.RemoveAll(d.path); err != nil {
			slog.Debug("work dir removal failed", "component", "workdir", "path", d.path, "err", err)
		}
	})
}
