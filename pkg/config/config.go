// Package config holds the YAML configuration of the dircompare CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/dircompare"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Filters     FiltersConfig     `yaml:"filters"`
	LineBased   LineBasedConfig   `yaml:"line_based"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompareConfig holds the comparison criteria and listing policy
type CompareConfig struct {
	Size    bool `yaml:"size"`
	Date    bool `yaml:"date"`
	Content bool `yaml:"content"`
	Symlink bool `yaml:"symlink"`
	// DateTolerance is in milliseconds, 0 requires exact modification times
	DateTolerance int `yaml:"date_tolerance"`

	SkipSubdirs            bool `yaml:"skip_subdirs"`
	SkipSymlinks           bool `yaml:"skip_symlinks"`
	SkipEmptyDirs          bool `yaml:"skip_empty_dirs"`
	IgnoreCase             bool `yaml:"ignore_case"`
	HandlePermissionDenied bool `yaml:"handle_permission_denied"`
	Async                  bool `yaml:"async"`
}

// FiltersConfig holds glob patterns
type FiltersConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// LineBasedConfig selects the line based content comparator
type LineBasedConfig struct {
	Enabled             bool `yaml:"enabled"`
	compare.LineOptions `yaml:",inline"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize         int `yaml:"buffer_size"`
	Concurrency        int `yaml:"concurrency"`
	ContentConcurrency int `yaml:"content_concurrency"`
	MaxOpenFiles       int `yaml:"max_open_files"`
	// ReadLimit is a human readable rate such as "10MB", empty is unlimited
	ReadLimit string `yaml:"read_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format    string `yaml:"format"`     // "human", "json" or "csv"
	Color     bool   `yaml:"color"`      // Colorize human output on terminals
	Progress  bool   `yaml:"progress"`   // Show a progress bar on terminals
	ShowEqual bool   `yaml:"show_equal"` // List equal entries too
	Quiet     bool   `yaml:"quiet"`      // Only set the exit code
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = default state dir)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Size:          true,
			DateTolerance: int(dircompare.DefaultDateTolerance / time.Millisecond),
		},
		Performance: PerformanceConfig{
			BufferSize:         dircompare.DefaultBufferSize,
			Concurrency:        dircompare.DefaultConcurrency,
			ContentConcurrency: dircompare.DefaultContentConcurrency,
			MaxOpenFiles:       dircompare.DefaultMaxOpenFiles,
		},
		Output: OutputConfig{
			Format:   "human",
			Color:    true,
			Progress: true,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "json",
			Level:   "info",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Compare.DateTolerance < 0 {
		return &models.ValidationError{
			Field:   "compare.date_tolerance",
			Message: "must not be negative",
		}
	}

	if c.Performance.BufferSize < 1 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1 byte",
		}
	}

	if c.Performance.Concurrency < 1 {
		return &models.ValidationError{
			Field:   "performance.concurrency",
			Message: "must be at least 1",
		}
	}

	if c.Performance.ContentConcurrency < 1 {
		return &models.ValidationError{
			Field:   "performance.content_concurrency",
			Message: "must be at least 1",
		}
	}

	if c.Performance.MaxOpenFiles < 2*c.Performance.ContentConcurrency {
		return &models.ValidationError{
			Field:   "performance.max_open_files",
			Message: fmt.Sprintf("must be at least twice content_concurrency (%d)", 2*c.Performance.ContentConcurrency),
		}
	}

	if _, err := c.readLimit(); err != nil {
		return &models.ValidationError{
			Field:   "performance.read_limit",
			Message: err.Error(),
		}
	}

	if c.LineBased.BufferSize < 0 {
		return &models.ValidationError{
			Field:   "line_based.buffer_size",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true, "csv": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human', 'json' or 'csv'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// readLimit parses Performance.ReadLimit into bytes per second
func (c *Config) readLimit() (int64, error) {
	s := strings.TrimSpace(c.Performance.ReadLimit)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	return int64(n), nil
}

// Options maps the configuration onto comparison options.
// Logger, Progress and the pluggable strategies other than the content comparator are left unset.
func (c *Config) Options() (dircompare.Options, error) {
	if err := c.Validate(); err != nil {
		return dircompare.Options{}, err
	}
	readLimit, _ := c.readLimit()

	opts := dircompare.DefaultOptions()
	opts.CompareSize = c.Compare.Size
	opts.CompareDate = c.Compare.Date
	opts.DateTolerance = time.Duration(c.Compare.DateTolerance) * time.Millisecond
	if opts.DateTolerance == 0 {
		opts.DateTolerance = dircompare.DateToleranceExact
	}
	opts.CompareContent = c.Compare.Content
	opts.CompareSymlink = c.Compare.Symlink
	opts.SkipSubdirs = c.Compare.SkipSubdirs
	opts.SkipSymlinks = c.Compare.SkipSymlinks
	opts.SkipEmptyDirs = c.Compare.SkipEmptyDirs
	opts.IgnoreCase = c.Compare.IgnoreCase
	opts.HandlePermissionDenied = c.Compare.HandlePermissionDenied
	opts.IncludeFilter = strings.Join(c.Filters.Include, ",")
	opts.ExcludeFilter = strings.Join(c.Filters.Exclude, ",")

	opts.BufferSize = c.Performance.BufferSize
	opts.Concurrency = c.Performance.Concurrency
	opts.ContentConcurrency = c.Performance.ContentConcurrency
	opts.MaxOpenFiles = c.Performance.MaxOpenFiles
	opts.ReadLimit = readLimit

	if c.LineBased.Enabled {
		opts.FileComparator = compare.NewLineComparator(c.LineBased.LineOptions)
	}
	return opts, nil
}

// Mode returns the execution mode selected by the configuration
func (c *Config) Mode() models.Mode {
	if c.Compare.Async {
		return models.ModeAsync
	}
	return models.ModeSync
}
