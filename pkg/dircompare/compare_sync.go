package dircompare

import (
	"context"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/symlink"
)

func (c *comparison) runSync(ctx context.Context, root1, root2 *models.Entry) error {
	if singleRoot(root1, root2) {
		_, err := c.emitSync(ctx, root1, root2, 0, "")
		return err
	}
	return c.walkSync(ctx, root1, root2, 0, "", symlink.NewCache())
}

// walkSync compares one directory pair and recurses depth-first.
// Either root may be nil when the directory exists on one side only.
func (c *comparison) walkSync(ctx context.Context, root1, root2 *models.Entry, depth int, relativePath string, cache *symlink.Cache) error {
	ok1, ok2, err := c.prepare(ctx, root1, root2, cache)
	if err != nil {
		return err
	}

	var lv level
	if lv.entries1, err = c.list(ctx, root1, ok1, relativePath); err != nil {
		return err
	}
	if lv.entries2, err = c.list(ctx, root2, ok2, relativePath); err != nil {
		return err
	}

	return c.mergeJoin(lv, func(_ int, e1, e2 *models.Entry) error {
		o, err := c.emitSync(ctx, e1, e2, depth, relativePath)
		if err != nil {
			return err
		}
		if !c.descend(o) {
			return nil
		}
		return c.walkSync(ctx, o.Entry1, o.Entry2, depth+1, childPath(o), cache.Clone())
	})
}

func (c *comparison) resolveSync(ctx context.Context, e1, e2 *models.Entry, depth int, relativePath string) (*Outcome, error) {
	o, pending, err := c.assess(ctx, e1, e2, depth, relativePath)
	if err != nil {
		return nil, err
	}
	if pending {
		// concurrent sessions share the pool, so sync runs take a slot too
		if err := c.content.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		err := c.compareContent(ctx, o, false)
		c.content.Release(1)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

// emitSync resolves one step, content included, and records it immediately
func (c *comparison) emitSync(ctx context.Context, e1, e2 *models.Entry, depth int, relativePath string) (*Outcome, error) {
	o, err := c.resolveSync(ctx, e1, e2, depth, relativePath)
	if err != nil {
		return nil, err
	}
	c.record(o)
	c.progress()
	return o, nil
}
