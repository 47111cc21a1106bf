package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/internal/platform"
	"github.com/sdejongh/dircompare/pkg/config"
	"github.com/sdejongh/dircompare/pkg/logging"
)

// validateCompareArgs checks that both paths exist and returns them normalized
func validateCompareArgs(left, right string) (string, string, error) {
	paths := []string{left, right}
	for i, p := range paths {
		if err := platform.ValidatePath(p); err != nil {
			return "", "", err
		}
		p = platform.NormalizePath(p)
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return "", "", fmt.Errorf("path does not exist: %s", p)
		} else if err != nil {
			return "", "", fmt.Errorf("failed to access path: %w", err)
		}
		paths[i] = p
	}
	return paths[0], paths[1], nil
}

func validateFormat(format string) error {
	switch format {
	case "human", "json", "csv":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid: human, json, csv)", format)
	}
}

// applyFlagsToConfig overrides config values with the flags set on the command line
func applyFlagsToConfig(cmd *cobra.Command, global *GlobalFlags, f *CompareFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	boolFlags := map[string]struct {
		dst *bool
		src bool
	}{
		"compare-size":             {&cfg.Compare.Size, f.CompareSize},
		"compare-date":             {&cfg.Compare.Date, f.CompareDate},
		"compare-content":          {&cfg.Compare.Content, f.CompareContent},
		"compare-symlink":          {&cfg.Compare.Symlink, f.CompareSymlink},
		"skip-subdirs":             {&cfg.Compare.SkipSubdirs, f.SkipSubdirs},
		"skip-symlinks":            {&cfg.Compare.SkipSymlinks, f.SkipSymlinks},
		"skip-empty-dirs":          {&cfg.Compare.SkipEmptyDirs, f.SkipEmptyDirs},
		"ignore-case":              {&cfg.Compare.IgnoreCase, f.IgnoreCase},
		"handle-permission-denied": {&cfg.Compare.HandlePermissionDenied, f.HandlePermissionDenied},
		"async":                    {&cfg.Compare.Async, f.Async},
		"line-based":               {&cfg.LineBased.Enabled, f.LineBased},
		"ignore-line-ending":       {&cfg.LineBased.IgnoreLineEnding, f.IgnoreLineEnding},
		"ignore-white-spaces":      {&cfg.LineBased.IgnoreWhiteSpaces, f.IgnoreWhiteSpaces},
		"ignore-all-white-spaces":  {&cfg.LineBased.IgnoreAllWhiteSpaces, f.IgnoreAllWhiteSpaces},
		"ignore-empty-lines":       {&cfg.LineBased.IgnoreEmptyLines, f.IgnoreEmptyLines},
		"show-equal":               {&cfg.Output.ShowEqual, f.ShowEqual},
	}
	for name, b := range boolFlags {
		if changed(name) {
			*b.dst = b.src
		}
	}

	intFlags := map[string]struct {
		dst *int
		src int
	}{
		"date-tolerance":      {&cfg.Compare.DateTolerance, f.DateTolerance},
		"line-buffer-size":    {&cfg.LineBased.BufferSize, f.LineBufferSize},
		"buffer-size":         {&cfg.Performance.BufferSize, f.BufferSize},
		"concurrency":         {&cfg.Performance.Concurrency, f.Concurrency},
		"content-concurrency": {&cfg.Performance.ContentConcurrency, f.ContentConcurrency},
		"max-open-files":      {&cfg.Performance.MaxOpenFiles, f.MaxOpenFiles},
	}
	for name, i := range intFlags {
		if changed(name) {
			*i.dst = i.src
		}
	}

	// Raising content concurrency alone keeps the file bound consistent
	if changed("content-concurrency") && !changed("max-open-files") {
		cfg.Performance.MaxOpenFiles = max(cfg.Performance.MaxOpenFiles, 2*cfg.Performance.ContentConcurrency)
	}

	if changed("include") {
		cfg.Filters.Include = f.Include
	}
	if changed("exclude") {
		cfg.Filters.Exclude = f.Exclude
	}
	if changed("bwlimit") {
		cfg.Performance.ReadLimit = f.BandwidthLimit
	}
	if changed("output") {
		cfg.Output.Format = f.Output
	}
	if f.NoColor {
		cfg.Output.Color = false
	}
	if f.NoProgress {
		cfg.Output.Progress = false
	}

	if changed("log-file") {
		cfg.Logging.Enabled = f.LogFile != ""
		cfg.Logging.File = f.LogFile
	}
	if changed("log-format") {
		cfg.Logging.Format = f.LogFormat
	}
	if changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}

	if global.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createLogger builds the file logger from the configuration and adds a
// console logger on stderr in verbose mode
func createLogger(cfg *config.Config, verbose bool) (logging.Logger, error) {
	var loggers logging.Multi

	if cfg.Logging.Enabled {
		path := cfg.Logging.File
		if path == "" {
			path = config.DefaultLogPath()
		}

		format := logging.FormatText
		if cfg.Logging.Format == "json" {
			format = logging.FormatJSON
		}

		fl, err := logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       path,
			Format:     format,
			Level:      logging.ParseLevel(cfg.Logging.Level),
			MaxSize:    10 * 1024 * 1024, // 10 MB
			MaxBackups: 5,
		})
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fl)
	}

	if verbose {
		loggers = append(loggers, logging.NewConsoleLogger(os.Stderr, logging.DebugLevel, cfg.Output.Color))
	}

	switch len(loggers) {
	case 0:
		return logging.NewNullLogger(), nil
	case 1:
		return loggers[0], nil
	default:
		return loggers, nil
	}
}
