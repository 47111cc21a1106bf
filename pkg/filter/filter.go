// Package filter decides which listed entries take part in a comparison.
package filter

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Filter is the inclusion policy applied to every listed entry
type Filter interface {
	// Include reports whether entry, found under relativePath, takes part in the comparison
	Include(entry *models.Entry, relativePath string) bool
}

// Glob filters entries with comma separated glob patterns.
// Include patterns apply to files only, exclude patterns to every entry.
//
// Patterns support:
//   - Base name globs matched at any depth: *.tmp, .DS_Store
//   - Path globs matched from the root: src/**/*.go, /build/*
//   - Directory-only patterns: .git/, node_modules/
type Glob struct {
	include []string
	exclude []string
}

// NewGlob parses the include and exclude pattern lists
func NewGlob(include, exclude string) (*Glob, error) {
	g := &Glob{
		include: splitPatterns(include),
		exclude: splitPatterns(exclude),
	}
	for _, p := range append(append([]string{}, g.include...), g.exclude...) {
		if !doublestar.ValidatePattern(patternBody(p)) {
			return nil, fmt.Errorf("invalid glob pattern: %q", p)
		}
	}
	return g, nil
}

// Include implements Filter
func (g *Glob) Include(entry *models.Entry, relativePath string) bool {
	p := entryPath(relativePath, entry.Name)

	if len(g.include) > 0 && entry.Type() == models.TypeFile && !matchAny(p, entry, g.include) {
		return false
	}
	if len(g.exclude) > 0 && matchAny(p, entry, g.exclude) {
		return false
	}
	return true
}

// Everything includes every entry
type Everything struct{}

// Include implements Filter
func (Everything) Include(*models.Entry, string) bool { return true }

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, filepath.ToSlash(p))
		}
	}
	return out
}

func patternBody(p string) string {
	return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
}

func entryPath(relativePath, name string) string {
	return strings.TrimPrefix(path.Join(filepath.ToSlash(relativePath), name), "/")
}

func matchAny(p string, entry *models.Entry, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") && !entry.IsDirectory {
			continue
		}
		body := patternBody(pattern)
		target := p
		if !strings.Contains(strings.TrimSuffix(pattern, "/"), "/") {
			target = path.Base(p)
		}
		if ok, _ := doublestar.Match(body, target); ok {
			return true
		}
	}
	return false
}
