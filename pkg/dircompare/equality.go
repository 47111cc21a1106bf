package dircompare

import (
	"context"
	"fmt"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
)

// assess builds the outcome of one merge-join step from metadata alone.
// It returns true when the verdict still depends on a content comparison.
func (c *comparison) assess(ctx context.Context, e1, e2 *models.Entry, level int, relativePath string) (*Outcome, bool, error) {
	o := &Outcome{
		Entry1:       e1,
		Entry2:       e2,
		Level:        level,
		RelativePath: relativePath,
	}

	switch {
	case e2 == nil:
		o.State = models.StateLeft
		o.PermissionDeniedState = accessState(e1.IsPermissionDenied, false)
		c.logDenied(ctx, o)
		return o, false, nil
	case e1 == nil:
		o.State = models.StateRight
		o.PermissionDeniedState = accessState(false, e2.IsPermissionDenied)
		c.logDenied(ctx, o)
		return o, false, nil
	}

	o.PermissionDeniedState = accessState(e1.IsPermissionDenied, e2.IsPermissionDenied)
	if e1.Type() != e2.Type() {
		o.State = models.StateDistinct
		return o, false, nil
	}
	if o.PermissionDeniedState != models.AccessOK {
		o.State = models.StateDistinct
		o.Reason = models.ReasonPermissionDenied
		c.logDenied(ctx, o)
		return o, false, nil
	}

	reason, pending, err := c.compareEntries(ctx, e1, e2)
	if err != nil {
		return nil, false, err
	}
	if pending {
		return o, true, nil
	}
	if reason == models.ReasonNone {
		o.State = models.StateEqual
	} else {
		o.State = models.StateDistinct
		o.Reason = reason
	}
	return o, false, nil
}

// compareEntries applies the metadata checks to a pair of same-typed entries
func (c *comparison) compareEntries(ctx context.Context, e1, e2 *models.Entry) (models.Reason, bool, error) {
	switch e1.Type() {
	case models.TypeBrokenLink:
		return models.ReasonBrokenLink, false, nil
	case models.TypeDirectory:
		if c.opts.CompareSymlink {
			same, err := c.sameSymlink(ctx, e1, e2)
			if err != nil {
				return models.ReasonNone, false, err
			}
			if !same {
				return models.ReasonDifferentSymlink, false, nil
			}
		}
		return models.ReasonNone, false, nil
	}

	if c.opts.CompareSymlink {
		same, err := c.sameSymlink(ctx, e1, e2)
		if err != nil {
			return models.ReasonNone, false, err
		}
		if !same {
			return models.ReasonDifferentSymlink, false, nil
		}
	}
	if c.opts.CompareSize && e1.Size() != e2.Size() {
		return models.ReasonDifferentSize, false, nil
	}
	if c.opts.CompareDate && !sameDate(e1, e2, c.opts) {
		return models.ReasonDifferentDate, false, nil
	}
	return models.ReasonNone, c.opts.CompareContent, nil
}

// sameSymlink compares symlink identities: raw link targets, without normalization
func (c *comparison) sameSymlink(ctx context.Context, e1, e2 *models.Entry) (bool, error) {
	switch {
	case !e1.IsSymlink && !e2.IsSymlink:
		return true, nil
	case e1.IsSymlink != e2.IsSymlink:
		return false, nil
	}
	target1, err := c.resources.Backend.ReadLink(ctx, e1.AbsolutePath)
	if err != nil {
		return false, err
	}
	target2, err := c.resources.Backend.ReadLink(ctx, e2.AbsolutePath)
	if err != nil {
		return false, err
	}
	return target1 == target2, nil
}

func sameDate(e1, e2 *models.Entry, opts Options) bool {
	d := e1.ModTime().Sub(e2.ModTime())
	if d < 0 {
		d = -d
	}
	return d <= max(opts.DateTolerance, 0)
}

// compareContent runs the file comparator and resolves a pending outcome.
// The caller holds one unit of the content semaphore.
func (c *comparison) compareContent(ctx context.Context, o *Outcome, async bool) error {
	f1 := compare.FileRef{Path: o.Entry1.AbsolutePath, Size: o.Entry1.Size()}
	f2 := compare.FileRef{Path: o.Entry2.AbsolutePath, Size: o.Entry2.Size()}

	var same bool
	var err error
	if async {
		same, err = c.opts.FileComparator.CompareAsync(ctx, f1, f2, c.resources)
	} else {
		same, err = c.opts.FileComparator.CompareSync(ctx, f1, f2, c.resources)
	}
	if err != nil {
		return fmt.Errorf("failed to compare %s and %s: %w", o.Entry1.Path, o.Entry2.Path, err)
	}

	if same {
		o.State = models.StateEqual
	} else {
		o.State = models.StateDistinct
		o.Reason = models.ReasonDifferentContent
	}
	return nil
}

func accessState(denied1, denied2 bool) models.PermissionDeniedState {
	switch {
	case denied1 && denied2:
		return models.AccessErrorBoth
	case denied1:
		return models.AccessErrorLeft
	case denied2:
		return models.AccessErrorRight
	default:
		return models.AccessOK
	}
}

func (c *comparison) logDenied(ctx context.Context, o *Outcome) {
	if o.PermissionDeniedState == models.AccessOK {
		return
	}
	c.logger.Debug(ctx, "Permission denied", logging.Fields{
		"relative_path": o.RelativePath,
		"state":         o.PermissionDeniedState,
	})
}
