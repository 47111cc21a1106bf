// Package dircompare compares two directory trees.
//
// A comparison walks both trees in sorted name order, pairs entries with equal
// names and reports one outcome per pair or unmatched entry, together with
// statistics. CompareSync walks depth-first on the calling goroutine; Compare
// lists, recurses and compares content concurrently and reports the same
// outcomes in the same order.
package dircompare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/entry"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/pool"
	"github.com/sdejongh/dircompare/pkg/ratelimit"
	"github.com/sdejongh/dircompare/pkg/stats"
	"github.com/sdejongh/dircompare/pkg/symlink"
)

// Session owns the resources shared by comparisons: the buffer pool,
// the file descriptor queue and the read limiter.
// A session may run several comparisons, also concurrently.
type Session struct {
	ID string

	opts      Options
	logger    logging.Logger
	builder   *entry.Builder
	detector  *symlink.Detector
	resources *compare.Resources
	// content admits at most one content comparison per buffer pair
	content *semaphore.Weighted
}

// NewSession validates opts and allocates the shared resources
func NewSession(opts Options) (*Session, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	backend := opts.Backend
	id := uuid.NewString()
	return &Session{
		ID:     id,
		opts:   opts,
		logger: opts.Logger.WithFields(logging.Fields{"session_id": id}),
		builder: entry.NewBuilder(backend, entry.Config{
			HandlePermissionDenied: opts.HandlePermissionDenied,
			CompareContent:         opts.CompareContent,
			SkipSymlinks:           opts.SkipSymlinks,
			SkipEmptyDirs:          opts.SkipEmptyDirs,
			Filter:                 opts.Filter,
			Names:                  opts.NameComparator,
		}),
		detector: symlink.NewDetector(backend),
		resources: &compare.Resources{
			Backend: backend,
			Buffers: pool.NewBufferPool(opts.BufferSize, opts.ContentConcurrency),
			Files:   pool.NewFileDescriptorQueue(opts.MaxOpenFiles, backend.Open),
			Limiter: ratelimit.NewLimiter(opts.ReadLimit),
		},
		content: semaphore.NewWeighted(int64(opts.ContentConcurrency)),
	}, nil
}

// Options returns the effective options of the session
func (s *Session) Options() Options {
	return s.opts
}

// Resources returns the shared content comparison resources
func (s *Session) Resources() *compare.Resources {
	return s.resources
}

// CompareSync compares two paths with the default session for opts
func CompareSync(ctx context.Context, path1, path2 string, opts Options) (*Result, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	return s.CompareSync(ctx, path1, path2)
}

// Compare compares two paths concurrently with the default session for opts
func Compare(ctx context.Context, path1, path2 string, opts Options) (*Result, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	return s.Compare(ctx, path1, path2)
}

// CompareSync walks both trees depth-first on the calling goroutine
func (s *Session) CompareSync(ctx context.Context, path1, path2 string) (*Result, error) {
	return s.run(ctx, models.ModeSync, path1, path2)
}

// Compare walks both trees concurrently.
// The first error cancels the remaining work and no partial result is returned.
func (s *Session) Compare(ctx context.Context, path1, path2 string) (*Result, error) {
	return s.run(ctx, models.ModeAsync, path1, path2)
}

// comparison is the state of one run
type comparison struct {
	*Session
	logger logging.Logger
	stats  *stats.Aggregator
	result *Result
}

func (s *Session) run(ctx context.Context, mode models.Mode, path1, path2 string) (*Result, error) {
	c := &comparison{
		Session: s,
		stats:   stats.New(s.opts.CompareSymlink),
		result:  &Result{ID: uuid.NewString()},
	}
	c.logger = s.logger.WithFields(logging.Fields{"comparison_id": c.result.ID})

	start := time.Now()
	c.logger.Info(ctx, "Starting comparison", logging.Fields{
		"left":       path1,
		"right":      path2,
		"mode":       mode,
		"comparator": s.opts.FileComparator.Name(),
	})

	root1, err := s.builder.Root(ctx, path1, models.OriginLeft)
	if err != nil {
		c.logger.Error(ctx, "Comparison failed", err, nil)
		return nil, err
	}
	root2, err := s.builder.Root(ctx, path2, models.OriginRight)
	if err != nil {
		c.logger.Error(ctx, "Comparison failed", err, nil)
		return nil, err
	}

	if mode == models.ModeAsync {
		err = c.runAsync(ctx, root1, root2)
	} else {
		err = c.runSync(ctx, root1, root2)
	}
	if err != nil {
		c.logger.Error(ctx, "Comparison failed", err, logging.Fields{
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	c.result.Statistics = c.stats.Finalize()
	c.logger.Info(ctx, "Comparison completed", logging.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"total":       c.result.Total,
		"differences": c.result.Differences,
		"same":        c.result.Same,
	})
	return c.result, nil
}

// record hands a resolved outcome to the statistics and the result builder
func (c *comparison) record(o *Outcome) {
	switch o.State {
	case models.StateEqual:
		c.stats.AddEqual(o.Entry1, o.Entry2)
	case models.StateDistinct:
		c.stats.AddDistinct(o.Entry1, o.Entry2, o.Reason, o.PermissionDeniedState)
	case models.StateLeft:
		c.stats.AddLeft(o.Entry1)
	case models.StateRight:
		c.stats.AddRight(o.Entry2)
	}
	c.opts.ResultBuilder.Add(o, c.result, &c.opts)
}

func (c *comparison) progress() {
	if c.opts.Progress != nil {
		c.opts.Progress.Increment()
	}
}

// level holds the listings of one directory pair
type level struct {
	entries1 []*models.Entry
	entries2 []*models.Entry
}

// prepare checks both roots for loops, marks them visited and returns which sides may be listed
func (c *comparison) prepare(ctx context.Context, root1, root2 *models.Entry, cache *symlink.Cache) (bool, bool, error) {
	loop1, err := c.detector.DetectLoop(ctx, root1, cache.Left)
	if err != nil {
		return false, false, err
	}
	loop2, err := c.detector.DetectLoop(ctx, root2, cache.Right)
	if err != nil {
		return false, false, err
	}
	if loop1 || loop2 {
		c.logger.Debug(ctx, "Symlink loop detected", logging.Fields{
			"left":  loop1,
			"right": loop2,
			"path":  rootPath(root1, root2),
		})
	}
	if err := c.detector.Update(ctx, cache, root1, root2, loop1, loop2); err != nil {
		return false, false, err
	}
	return listable(root1, loop1), listable(root2, loop2), nil
}

func listable(root *models.Entry, loop bool) bool {
	return root != nil && !loop && !root.IsPermissionDenied
}

func rootPath(root1, root2 *models.Entry) string {
	if root1 != nil {
		return root1.Path
	}
	return root2.Path
}

// list returns the children of root, or nothing when the side is not listed
func (c *comparison) list(ctx context.Context, root *models.Entry, ok bool, relativePath string) ([]*models.Entry, error) {
	if !ok {
		return nil, nil
	}
	entries, err := c.builder.List(ctx, root, relativePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root.Path, err)
	}
	return entries, nil
}

// mergeJoin walks two sorted listings and calls fn once per matched pair or unmatched entry
func (c *comparison) mergeJoin(lv level, fn func(i int, e1, e2 *models.Entry) error) error {
	i1, i2 := 0, 0
	for step := 0; i1 < len(lv.entries1) || i2 < len(lv.entries2); step++ {
		var e1, e2 *models.Entry
		switch {
		case i1 >= len(lv.entries1):
			e2 = lv.entries2[i2]
			i2++
		case i2 >= len(lv.entries2):
			e1 = lv.entries1[i1]
			i1++
		default:
			n := c.builder.CompareNames(lv.entries1[i1].Name, lv.entries2[i2].Name)
			if n <= 0 {
				e1 = lv.entries1[i1]
				i1++
			}
			if n >= 0 {
				e2 = lv.entries2[i2]
				i2++
			}
		}
		if err := fn(step, e1, e2); err != nil {
			return err
		}
	}
	return nil
}

// descend reports whether the outcome leads into a subdirectory pair
func (c *comparison) descend(o *Outcome) bool {
	if c.opts.SkipSubdirs {
		return false
	}
	switch o.State {
	case models.StateLeft:
		return o.Entry1.IsDirectory
	case models.StateRight:
		return o.Entry2.IsDirectory
	default:
		return o.Entry1.Type() == models.TypeDirectory && o.Entry2.Type() == models.TypeDirectory
	}
}

// childPath returns the relative path of the directory reached through o
func childPath(o *Outcome) string {
	name := ""
	if o.Entry1 != nil {
		name = o.Entry1.Name
	} else {
		name = o.Entry2.Name
	}
	if o.RelativePath == "" {
		return name
	}
	return o.RelativePath + "/" + name
}

// singleRoot reports whether the roots are compared as one pair instead of walked
func singleRoot(root1, root2 *models.Entry) bool {
	return !root1.IsDirectory || !root2.IsDirectory
}
