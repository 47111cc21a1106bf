package symlink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestCacheClone(t *testing.T) {
	c := NewCache()
	c.Left["/a"] = true
	c.Right["/b"] = true

	clone := c.Clone()
	clone.Left["/c"] = true
	clone.Right["/d"] = true

	assert.True(t, clone.Left["/a"], "clone should carry ancestors")
	assert.True(t, clone.Right["/b"], "clone should carry ancestors")
	assert.False(t, c.Left["/c"], "clone mutation must not leak to the original")
	assert.False(t, c.Right["/d"], "clone mutation must not leak to the original")
}

func TestDetectLoop(t *testing.T) {
	ctx := context.Background()
	root := realTempDir(t)
	d := NewDetector(storage.NewLocal())

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	link := filepath.Join(sub, "up")
	if err := os.Symlink("..", link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rootEntry := &models.Entry{AbsolutePath: root, IsDirectory: true}
	subEntry := &models.Entry{AbsolutePath: sub, IsDirectory: true}
	linkEntry := &models.Entry{AbsolutePath: link, IsDirectory: true, IsSymlink: true}

	cache := NewCache()
	require.NoError(t, d.Update(ctx, cache, rootEntry, nil, false, false))
	require.NoError(t, d.Update(ctx, cache, subEntry, nil, false, false))

	t.Run("SymlinkToAncestor", func(t *testing.T) {
		loop, err := d.DetectLoop(ctx, linkEntry, cache.Left)
		require.NoError(t, err)
		assert.True(t, loop)
	})

	t.Run("OtherSideIsIndependent", func(t *testing.T) {
		loop, err := d.DetectLoop(ctx, linkEntry, cache.Right)
		require.NoError(t, err)
		assert.False(t, loop)
	})

	t.Run("NonSymlinkNeverLoops", func(t *testing.T) {
		loop, err := d.DetectLoop(ctx, subEntry, cache.Left)
		require.NoError(t, err)
		assert.False(t, loop)
	})

	t.Run("NilEntry", func(t *testing.T) {
		loop, err := d.DetectLoop(ctx, nil, cache.Left)
		require.NoError(t, err)
		assert.False(t, loop)
	})
}

func TestUpdateResolvesSymlinks(t *testing.T) {
	ctx := context.Background()
	root := realTempDir(t)
	d := NewDetector(storage.NewLocal())

	target := filepath.Join(root, "target")
	require.NoError(t, os.Mkdir(target, 0755))
	link := filepath.Join(root, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	cache := NewCache()
	linkEntry := &models.Entry{AbsolutePath: link, IsDirectory: true, IsSymlink: true}
	require.NoError(t, d.Update(ctx, cache, nil, linkEntry, false, false))

	assert.Empty(t, cache.Left)
	assert.True(t, cache.Right[target])
	assert.False(t, cache.Right[link])

	t.Run("SkipsDetectedLoop", func(t *testing.T) {
		fresh := NewCache()
		require.NoError(t, d.Update(ctx, fresh, nil, linkEntry, false, true))
		assert.Empty(t, fresh.Right)
	})
}
