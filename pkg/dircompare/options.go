package dircompare

import (
	"fmt"
	"time"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/entry"
	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Default resource limits
const (
	DefaultDateTolerance      = 1000 * time.Millisecond
	DefaultBufferSize         = 100000
	DefaultConcurrency        = 2
	DefaultContentConcurrency = 8
	DefaultMaxOpenFiles       = 16
)

// DateToleranceExact requires modification times to match exactly.
// A zero DateTolerance selects DefaultDateTolerance.
const DateToleranceExact time.Duration = -1

// Progress receives one increment per processed outcome.
// Implementations must be safe for concurrent use.
type Progress interface {
	Increment()
}

// Options configures a comparison.
// Zero values select the defaults, see DefaultOptions.
type Options struct {
	CompareSize    bool
	CompareDate    bool
	DateTolerance  time.Duration
	CompareContent bool
	CompareSymlink bool

	SkipSubdirs   bool
	SkipSymlinks  bool
	SkipEmptyDirs bool
	IgnoreCase    bool

	// NoDiffSet omits the Difference list from the result
	NoDiffSet bool
	// HandlePermissionDenied reports unreadable entries instead of failing
	HandlePermissionDenied bool

	// IncludeFilter and ExcludeFilter are comma separated glob patterns.
	// They are ignored when Filter is set.
	IncludeFilter string
	ExcludeFilter string

	// Pluggable strategies, nil selects the default
	ResultBuilder  ResultBuilder
	FileComparator compare.FileComparator
	NameComparator entry.NameComparator
	Filter         filter.Filter
	Backend        storage.Backend

	// BufferSize is the size of each content comparison buffer
	BufferSize int
	// Concurrency caps the subdirectories compared in parallel (async only)
	Concurrency int
	// ContentConcurrency caps the content comparisons in flight
	ContentConcurrency int
	// MaxOpenFiles caps the files held open by content comparisons (async only)
	MaxOpenFiles int
	// ReadLimit throttles content reads in bytes per second, 0 is unlimited
	ReadLimit int64

	Logger   logging.Logger
	Progress Progress

	// Extensions carries consumer data to custom result builders
	Extensions map[string]any
}

// DefaultOptions returns the default configuration
func DefaultOptions() Options {
	return Options{
		DateTolerance:      DefaultDateTolerance,
		BufferSize:         DefaultBufferSize,
		Concurrency:        DefaultConcurrency,
		ContentConcurrency: DefaultContentConcurrency,
		MaxOpenFiles:       DefaultMaxOpenFiles,
	}
}

// Validate checks the options before any traversal starts
func (o *Options) Validate() error {
	if o.DateTolerance < 0 && o.DateTolerance != DateToleranceExact {
		return &models.ValidationError{Field: "dateTolerance", Message: "must not be negative"}
	}
	if o.BufferSize < 1 {
		return &models.ValidationError{Field: "bufferSize", Message: "must be at least 1"}
	}
	if o.Concurrency < 1 {
		return &models.ValidationError{Field: "concurrency", Message: "must be at least 1"}
	}
	if o.ContentConcurrency < 1 {
		return &models.ValidationError{Field: "contentConcurrency", Message: "must be at least 1"}
	}
	if o.MaxOpenFiles < 2*o.ContentConcurrency {
		return &models.ValidationError{
			Field:   "maxOpenFiles",
			Message: fmt.Sprintf("must be at least twice contentConcurrency (%d)", 2*o.ContentConcurrency),
		}
	}
	if o.ReadLimit < 0 {
		return &models.ValidationError{Field: "readLimit", Message: "must not be negative"}
	}
	return nil
}

// withDefaults fills unset resource limits and strategies
func (o Options) withDefaults() (Options, error) {
	if o.DateTolerance == 0 {
		o.DateTolerance = DefaultDateTolerance
	}
	if o.BufferSize == 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.ContentConcurrency == 0 {
		o.ContentConcurrency = DefaultContentConcurrency
	}
	if o.MaxOpenFiles == 0 {
		o.MaxOpenFiles = max(DefaultMaxOpenFiles, 2*o.ContentConcurrency)
	}
	if err := o.Validate(); err != nil {
		return o, err
	}

	if o.ResultBuilder == nil {
		o.ResultBuilder = DiffSetBuilder{}
	}
	if o.FileComparator == nil {
		o.FileComparator = compare.NewBinaryComparator()
	}
	if o.NameComparator == nil {
		o.NameComparator = entry.Strcmp{IgnoreCase: o.IgnoreCase}
	}
	if o.Filter == nil {
		if o.IncludeFilter == "" && o.ExcludeFilter == "" {
			o.Filter = filter.Everything{}
		} else {
			g, err := filter.NewGlob(o.IncludeFilter, o.ExcludeFilter)
			if err != nil {
				return o, &models.ValidationError{Field: "filter", Message: err.Error()}
			}
			o.Filter = g
		}
	}
	if o.Backend == nil {
		o.Backend = storage.NewLocal()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNullLogger()
	}
	return o, nil
}
