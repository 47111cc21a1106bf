package dircompare

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/symlink"
)

// asyncRun collects outcomes of a concurrent walk.
// Each outcome is stored under its position in the tree (the merge-join
// step indexes from the roots down) so that replaying them in key order
// yields exactly the order of a depth-first walk.
type asyncRun struct {
	*comparison
	group   *errgroup.Group
	subdirs *semaphore.Weighted

	mu      sync.Mutex
	records []positioned
}

type positioned struct {
	key     []int
	outcome *Outcome
}

func (c *comparison) runAsync(ctx context.Context, root1, root2 *models.Entry) error {
	g, gctx := errgroup.WithContext(ctx)
	r := &asyncRun{
		comparison: c,
		group:      g,
		subdirs:    semaphore.NewWeighted(int64(c.opts.Concurrency)),
	}

	g.Go(func() error {
		if singleRoot(root1, root2) {
			return r.step(gctx, []int{0}, root1, root2, 0, "", nil)
		}
		return r.walk(gctx, nil, root1, root2, 0, "", symlink.NewCache())
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slices.SortFunc(r.records, func(a, b positioned) int {
		return slices.Compare(a.key, b.key)
	})
	for _, rec := range r.records {
		c.record(rec.outcome)
	}
	return nil
}

// walk compares one directory pair. Subdirectories run on their own goroutine
// while the limiter has room and inline otherwise.
func (r *asyncRun) walk(ctx context.Context, key []int, root1, root2 *models.Entry, depth int, relativePath string, cache *symlink.Cache) error {
	ok1, ok2, err := r.prepare(ctx, root1, root2, cache)
	if err != nil {
		return err
	}

	var lv level
	lg, lctx := errgroup.WithContext(ctx)
	lg.Go(func() error {
		var err error
		lv.entries1, err = r.list(lctx, root1, ok1, relativePath)
		return err
	})
	lg.Go(func() error {
		var err error
		lv.entries2, err = r.list(lctx, root2, ok2, relativePath)
		return err
	})
	if err := lg.Wait(); err != nil {
		return err
	}

	return r.mergeJoin(lv, func(i int, e1, e2 *models.Entry) error {
		return r.step(ctx, append(slices.Clip(key), i), e1, e2, depth, relativePath, cache)
	})
}

// step handles one merge-join step: content comparison is deferred to the
// group, recursion goes through the subdirectory limiter
func (r *asyncRun) step(ctx context.Context, key []int, e1, e2 *models.Entry, depth int, relativePath string, cache *symlink.Cache) error {
	o, pending, err := r.assess(ctx, e1, e2, depth, relativePath)
	if err != nil {
		return err
	}

	if pending {
		// the walker waits here so at most ContentConcurrency comparisons are alive
		if err := r.content.Acquire(ctx, 1); err != nil {
			return err
		}
		r.group.Go(func() error {
			defer r.content.Release(1)
			if err := r.compareContent(ctx, o, true); err != nil {
				return err
			}
			r.add(key, o)
			return nil
		})
		return nil
	}
	r.add(key, o)

	if cache == nil || !r.descend(o) {
		return nil
	}

	child := cache.Clone()
	if r.subdirs.TryAcquire(1) {
		r.group.Go(func() error {
			defer r.subdirs.Release(1)
			return r.walk(ctx, key, o.Entry1, o.Entry2, depth+1, childPath(o), child)
		})
		return nil
	}
	return r.walk(ctx, key, o.Entry1, o.Entry2, depth+1, childPath(o), child)
}

func (r *asyncRun) add(key []int, o *Outcome) {
	r.mu.Lock()
	r.records = append(r.records, positioned{key: key, outcome: o})
	r.mu.Unlock()
	r.progress()
}
