package prefs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// FSBackend stores preference documents in a directory of an afero filesystem.
type FSBackend struct {
	fs  afero.Fs
	dir string
}

// NewFSBackend returns a backend that keeps its documents in dir.
func NewFSBackend(fs afero.Fs, dir string) *FSBackend {
	return &FSBackend{fs: fs, dir: dir}
}

// NewLocalBackend returns a backend on the local filesystem.
func NewLocalBackend(dir string) *FSBackend {
	return NewFSBackend(afero.NewOsFs(), dir)
}

// ReadFile implements Backend.
func (b *FSBackend) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return afero.ReadFile(b.fs, filepath.Join(b.dir, name))
}

// WriteFile implements Backend. The document is written to a temporary file
// first and renamed into place.
func (b *FSBackend) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Ensure directory exists
	err := b.fs.MkdirAll(b.dir, 0o700)
	if err != nil {
		return fmt.Errorf("ensure directory exists: %w", err)
	}

	// Write temporary file
	tmp := filepath.Join(b.dir, "."+name+"."+uuid.NewString()+".tmp")

	err = afero.WriteFile(b.fs, tmp, data, 0o600)
	if err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}

	// Move into place
	err = b.fs.Rename(tmp, filepath.Join(b.dir, name))
	if err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("rename temporary file: %w", err)
	}

	return nil
}
