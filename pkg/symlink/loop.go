// Package symlink detects symlink cycles while two trees are walked in parallel.
//
// Each side keeps its own set of visited real paths. A traversal branch owns
// its Cache and hands a clone to every recursive call, so sibling subtrees
// never see each other's entries while the ancestor chain is carried down.
package symlink

import (
	"context"
	"fmt"
	"maps"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Cache holds the visited real paths of the left and right trees
type Cache struct {
	Left  map[string]bool
	Right map[string]bool
}

// NewCache returns an empty cache
func NewCache() *Cache {
	return &Cache{
		Left:  make(map[string]bool),
		Right: make(map[string]bool),
	}
}

// Clone returns an independent copy of both sides
func (c *Cache) Clone() *Cache {
	return &Cache{
		Left:  maps.Clone(c.Left),
		Right: maps.Clone(c.Right),
	}
}

// Detector answers loop queries using a storage backend to resolve real paths
type Detector struct {
	backend storage.Backend
}

// NewDetector creates a detector backed by backend
func NewDetector(backend storage.Backend) *Detector {
	return &Detector{backend: backend}
}

// DetectLoop reports whether entry is a symlink whose real path was already visited on that side
func (d *Detector) DetectLoop(ctx context.Context, entry *models.Entry, visited map[string]bool) (bool, error) {
	if entry == nil || !entry.IsSymlink {
		return false, nil
	}
	realPath, err := d.backend.RealPath(ctx, entry.AbsolutePath)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", entry.AbsolutePath, err)
	}
	return visited[realPath], nil
}

// Update marks the given directories as visited.
// Sides that are absent or where a loop was detected are left untouched.
func (d *Detector) Update(ctx context.Context, cache *Cache, entry1, entry2 *models.Entry, loop1, loop2 bool) error {
	if entry1 != nil && !loop1 {
		p, err := d.cachePath(ctx, entry1)
		if err != nil {
			return err
		}
		cache.Left[p] = true
	}
	if entry2 != nil && !loop2 {
		p, err := d.cachePath(ctx, entry2)
		if err != nil {
			return err
		}
		cache.Right[p] = true
	}
	return nil
}

func (d *Detector) cachePath(ctx context.Context, entry *models.Entry) (string, error) {
	if !entry.IsSymlink {
		return entry.AbsolutePath, nil
	}
	p, err := d.backend.RealPath(ctx, entry.AbsolutePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", entry.AbsolutePath, err)
	}
	return p, nil
}
