package storage

import (
	"context"
	"io"
	"io/fs"
)

// File is an open file handle used by content comparators
type File interface {
	io.Reader
	io.Closer
}

// Backend defines the read-only filesystem operations consumed by the comparison engine.
// Every call is fallible; errors are returned unwrapped enough for errors.Is checks
// against fs.ErrNotExist and fs.ErrPermission.
type Backend interface {
	// Stat returns metadata following symlinks
	Stat(ctx context.Context, path string) (fs.FileInfo, error)

	// Lstat returns metadata of the path itself
	Lstat(ctx context.Context, path string) (fs.FileInfo, error)

	// ReadDir returns the names of the entries of a directory, in no particular order
	ReadDir(ctx context.Context, path string) ([]string, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (File, error)

	// RealPath returns the canonical absolute path with all symlinks resolved
	RealPath(ctx context.Context, path string) (string, error)

	// ReadLink returns the raw target of a symlink
	ReadLink(ctx context.Context, path string) (string, error)

	// Access reports an error if the path cannot be read by the current process
	Access(ctx context.Context, path string) error
}
