package dircompare

import (
	"path/filepath"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
)

// Result is the outcome of one comparison
type Result struct {
	models.Statistics
	// ID identifies the comparison in logs
	ID string `json:"id"`
	// DiffSet lists every outcome in traversal order, nil when NoDiffSet is set
	DiffSet []models.Difference `json:"diffSet,omitempty"`
}

// Status maps the result onto a process status
func (r *Result) Status() models.Status {
	if r.Same {
		return models.StatusSame
	}
	return models.StatusDifferent
}

// Outcome is one processed merge-join step, handed to the ResultBuilder
type Outcome struct {
	// Entry1 is nil for right-only outcomes, Entry2 for left-only ones
	Entry1 *models.Entry
	Entry2 *models.Entry

	State                 models.State
	Reason                models.Reason
	PermissionDeniedState models.PermissionDeniedState

	Level        int
	RelativePath string
}

// Difference converts the outcome into a report record
func (o *Outcome) Difference() models.Difference {
	d := models.Difference{
		RelativePath:          o.RelativePath,
		State:                 o.State,
		Type1:                 o.Entry1.Type(),
		Type2:                 o.Entry2.Type(),
		PermissionDeniedState: o.PermissionDeniedState,
		Level:                 o.Level,
	}
	if o.State == models.StateDistinct {
		d.Reason = o.Reason
	}
	if e := o.Entry1; e != nil {
		d.Path1 = filepath.Dir(e.Path)
		d.Name1 = e.Name
		d.Size1 = ptr(e.Size())
		d.Date1 = ptr(e.ModTime())
	}
	if e := o.Entry2; e != nil {
		d.Path2 = filepath.Dir(e.Path)
		d.Name2 = e.Name
		d.Size2 = ptr(e.Size())
		d.Date2 = ptr(e.ModTime())
	}
	return d
}

func ptr[T int64 | time.Time](v T) *T {
	return &v
}

// ResultBuilder receives every outcome in traversal order.
// Statistics are maintained by the engine; builders only shape the result.
// Add is never called concurrently.
type ResultBuilder interface {
	Add(o *Outcome, result *Result, opts *Options)
}

// DiffSetBuilder appends one Difference per outcome unless NoDiffSet is set
type DiffSetBuilder struct{}

// Add implements ResultBuilder
func (DiffSetBuilder) Add(o *Outcome, result *Result, opts *Options) {
	if opts.NoDiffSet {
		return
	}
	result.DiffSet = append(result.DiffSet, o.Difference())
}

// ResultBuilderFunc adapts a function to the ResultBuilder interface
type ResultBuilderFunc func(o *Outcome, result *Result, opts *Options)

// Add implements ResultBuilder
func (f ResultBuilderFunc) Add(o *Outcome, result *Result, opts *Options) {
	f(o, result, opts)
}
