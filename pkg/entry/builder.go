// Package entry builds immutable Entry snapshots from directory listings.
package entry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Config controls which entries a Builder produces
type Config struct {
	// HandlePermissionDenied flags unreadable entries instead of failing on them
	HandlePermissionDenied bool
	// CompareContent makes files subject to the permission check (they will be read)
	CompareContent bool
	SkipSymlinks   bool
	SkipEmptyDirs  bool
	Filter         filter.Filter
	Names          NameComparator
}

// Builder creates entries from a storage backend
type Builder struct {
	backend storage.Backend
	config  Config
}

// NewBuilder creates a new entry builder
func NewBuilder(backend storage.Backend, config Config) *Builder {
	if config.Filter == nil {
		config.Filter = filter.Everything{}
	}
	if config.Names == nil {
		config.Names = Strcmp{}
	}
	return &Builder{
		backend: backend,
		config:  config,
	}
}

// Build snapshots a single filesystem object
func (b *Builder) Build(ctx context.Context, absolutePath, path, name string, origin models.Origin) (*models.Entry, error) {
	lstat, err := b.backend.Lstat(ctx, absolutePath)
	if err != nil {
		return nil, err
	}

	stat := lstat
	isSymlink := lstat.Mode()&fs.ModeSymlink != 0
	isBrokenLink := false
	if isSymlink {
		stat, err = b.backend.Stat(ctx, absolutePath)
		if err != nil {
			if !isUnresolvable(err) {
				return nil, err
			}
			stat = lstat
			isBrokenLink = true
		}
	}

	e := &models.Entry{
		Name:         name,
		AbsolutePath: absolutePath,
		Path:         path,
		Origin:       origin,
		Stat:         stat,
		Lstat:        lstat,
		IsDirectory:  !isBrokenLink && stat.IsDir(),
		IsSymlink:    isSymlink,
		IsBrokenLink: isBrokenLink,
	}
	e.IsPermissionDenied = b.permissionDenied(ctx, e)
	return e, nil
}

// List builds the sorted, filtered children of a directory entry.
// relativePath is the path of root relative to the compared roots.
func (b *Builder) List(ctx context.Context, root *models.Entry, relativePath string) ([]*models.Entry, error) {
	names, err := b.backend.ReadDir(ctx, root.AbsolutePath)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.Entry, 0, len(names))
	for _, name := range names {
		e, err := b.Build(ctx, filepath.Join(root.AbsolutePath, name), filepath.Join(root.Path, name), name, root.Origin)
		if err != nil {
			return nil, err
		}
		if b.config.SkipSymlinks && e.IsSymlink {
			continue
		}
		if b.config.SkipEmptyDirs && e.IsDirectory && b.isEmptyDir(ctx, e) {
			continue
		}
		if !b.config.Filter.Include(e, relativePath) {
			continue
		}
		entries = append(entries, e)
	}

	b.Sort(entries)
	return entries, nil
}

// Sort orders entries by name only. Raw names break ties left by case-insensitive ordering.
func (b *Builder) Sort(entries []*models.Entry) {
	slices.SortStableFunc(entries, func(a, c *models.Entry) int {
		if n := b.config.Names.Compare(a.Name, c.Name); n != 0 {
			return n
		}
		return strings.Compare(a.Name, c.Name)
	})
}

// CompareNames exposes the configured name ordering to the merge-join
func (b *Builder) CompareNames(name1, name2 string) int {
	return b.config.Names.Compare(name1, name2)
}

func (b *Builder) permissionDenied(ctx context.Context, e *models.Entry) bool {
	if !b.config.HandlePermissionDenied || e.IsBrokenLink {
		return false
	}
	if !e.IsDirectory && !b.config.CompareContent {
		return false
	}
	return b.backend.Access(ctx, e.AbsolutePath) != nil
}

func (b *Builder) isEmptyDir(ctx context.Context, e *models.Entry) bool {
	if e.IsPermissionDenied {
		return false
	}
	names, err := b.backend.ReadDir(ctx, e.AbsolutePath)
	return err == nil && len(names) == 0
}

// isUnresolvable reports whether a stat failure means the link target is missing
func isUnresolvable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ELOOP)
}

// Root builds the entry for a user supplied root path.
// The absolute path is canonicalized so that loop detection starts from real paths.
func (b *Builder) Root(ctx context.Context, path string, origin models.Origin) (*models.Entry, error) {
	realPath, err := b.backend.RealPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s root %s: %w", origin, path, err)
	}
	e, err := b.Build(ctx, realPath, path, filepath.Base(realPath), origin)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s root %s: %w", origin, path, err)
	}
	return e, nil
}
