package entry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// TestHelper builds a directory fixture for builder tests
type TestHelper struct {
	t    *testing.T
	root string
}

func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return &TestHelper{t: t, root: root}
}

func (h *TestHelper) File(name, content string) {
	h.t.Helper()
	path := filepath.Join(h.root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
}

func (h *TestHelper) Dir(name string) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Join(h.root, name), 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
}

func (h *TestHelper) Symlink(target, name string) {
	h.t.Helper()
	if err := os.Symlink(target, filepath.Join(h.root, name)); err != nil {
		h.t.Skipf("symlinks not supported: %v", err)
	}
}

func names(entries []*models.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equalNames(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}
}

func TestBuilderBuild(t *testing.T) {
	h := NewTestHelper(t)
	h.File("file.txt", "hello")
	h.Dir("dir")
	h.Symlink("dir", "dirlink")
	h.Symlink("missing", "broken")

	b := NewBuilder(storage.NewLocal(), Config{})
	ctx := context.Background()

	build := func(name string) *models.Entry {
		t.Helper()
		e, err := b.Build(ctx, filepath.Join(h.root, name), name, name, models.OriginLeft)
		if err != nil {
			t.Fatalf("Build(%s) error = %v", name, err)
		}
		return e
	}

	t.Run("File", func(t *testing.T) {
		e := build("file.txt")
		if e.IsDirectory || e.IsSymlink || e.IsBrokenLink {
			t.Errorf("unexpected flags: %+v", e)
		}
		if e.Size() != 5 {
			t.Errorf("Size() = %d, want 5", e.Size())
		}
		if e.Type() != models.TypeFile {
			t.Errorf("Type() = %s, want file", e.Type())
		}
	})

	t.Run("SymlinkToDirectory", func(t *testing.T) {
		e := build("dirlink")
		if !e.IsDirectory || !e.IsSymlink {
			t.Errorf("expected symlinked directory, got %+v", e)
		}
	})

	t.Run("BrokenLink", func(t *testing.T) {
		e := build("broken")
		if !e.IsBrokenLink || !e.IsSymlink || e.IsDirectory {
			t.Errorf("expected broken link, got %+v", e)
		}
		if e.Stat != e.Lstat {
			t.Error("broken link stat should fall back to lstat")
		}
		if e.Type() != models.TypeBrokenLink {
			t.Errorf("Type() = %s, want broken-link", e.Type())
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := b.Build(ctx, filepath.Join(h.root, "nope"), "nope", "nope", models.OriginLeft); err == nil {
			t.Error("Build() should fail for a missing path")
		}
	})
}

func TestBuilderListSortsByNameOnly(t *testing.T) {
	h := NewTestHelper(t)
	h.File("b", "")
	h.Dir("a")
	h.File("C", "")
	h.Dir("d")
	h.Symlink("missing", "0broken")

	ctx := context.Background()
	root := &models.Entry{AbsolutePath: h.root, Path: h.root, IsDirectory: true, Origin: models.OriginLeft}

	t.Run("CaseSensitive", func(t *testing.T) {
		b := NewBuilder(storage.NewLocal(), Config{})
		entries, err := b.List(ctx, root, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		equalNames(t, names(entries), []string{"0broken", "C", "a", "b", "d"})
	})

	t.Run("IgnoreCase", func(t *testing.T) {
		b := NewBuilder(storage.NewLocal(), Config{Names: Strcmp{IgnoreCase: true}})
		entries, err := b.List(ctx, root, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		equalNames(t, names(entries), []string{"0broken", "a", "b", "C", "d"})
	})
}

func TestBuilderListPolicies(t *testing.T) {
	h := NewTestHelper(t)
	h.File("keep.txt", "")
	h.File("skip.tmp", "")
	h.Dir("empty")
	h.File("full/x", "")
	h.Symlink("keep.txt", "link")

	ctx := context.Background()
	root := &models.Entry{AbsolutePath: h.root, Path: h.root, IsDirectory: true, Origin: models.OriginRight}

	glob, err := filter.NewGlob("", "*.tmp")
	if err != nil {
		t.Fatalf("NewGlob() error = %v", err)
	}

	b := NewBuilder(storage.NewLocal(), Config{
		SkipSymlinks:  true,
		SkipEmptyDirs: true,
		Filter:        glob,
	})
	entries, err := b.List(ctx, root, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	equalNames(t, names(entries), []string{"full", "keep.txt"})

	for _, e := range entries {
		if e.Origin != models.OriginRight {
			t.Errorf("Origin = %s, want right", e.Origin)
		}
		if e.Path != filepath.Join(h.root, e.Name) {
			t.Errorf("Path = %s, want %s", e.Path, filepath.Join(h.root, e.Name))
		}
	}
}

func TestBuilderPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
	h := NewTestHelper(t)
	h.File("locked.txt", "secret")
	path := filepath.Join(h.root, "locked.txt")
	if err := os.Chmod(path, 0000); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	defer os.Chmod(path, 0644)

	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
		want   bool
	}{
		{"Disabled", Config{CompareContent: true}, false},
		{"FileWithoutContentComparison", Config{HandlePermissionDenied: true}, false},
		{"FileWithContentComparison", Config{HandlePermissionDenied: true, CompareContent: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(storage.NewLocal(), tt.config)
			e, err := b.Build(ctx, path, "locked.txt", "locked.txt", models.OriginLeft)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if e.IsPermissionDenied != tt.want {
				t.Errorf("IsPermissionDenied = %v, want %v", e.IsPermissionDenied, tt.want)
			}
		})
	}
}

func TestStrcmp(t *testing.T) {
	tests := []struct {
		a, b       string
		ignoreCase bool
		want       int
	}{
		{"a", "b", false, -1},
		{"b", "a", false, 1},
		{"a", "a", false, 0},
		{"B", "a", false, -1},
		{"B", "a", true, 1},
		{"A", "a", true, 0},
	}

	for _, tt := range tests {
		if got := (Strcmp{IgnoreCase: tt.ignoreCase}).Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q, ignoreCase=%v) = %d, want %d", tt.a, tt.b, tt.ignoreCase, got, tt.want)
		}
	}
}
