package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local is a backend over the local filesystem.
// Paths are used as given; callers pass absolute paths.
type Local struct{}

// NewLocal creates a new local filesystem backend
func NewLocal() *Local {
	return &Local{}
}

// Stat returns file metadata following symlinks
func (l *Local) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return info, nil
}

// Lstat returns file metadata without following symlinks
func (l *Local) Lstat(ctx context.Context, path string) (fs.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat file: %w", err)
	}
	return info, nil
}

// ReadDir returns the entry names of a directory
func (l *Local) ReadDir(ctx context.Context, path string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dir, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	return names, nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// RealPath resolves all symlinks of path
func (l *Local) RealPath(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}
	return real, nil
}

// ReadLink returns the raw target of a symlink
func (l *Local) ReadLink(ctx context.Context, path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("failed to read link: %w", err)
	}
	return target, nil
}

// Access checks that the path is readable
func (l *Local) Access(ctx context.Context, path string) error {
	if err := checkReadable(path); err != nil {
		return fmt.Errorf("access check failed: %w", err)
	}
	return nil
}
