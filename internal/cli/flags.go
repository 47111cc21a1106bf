package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/config"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

// CompareFlags holds the compare command flag values
type CompareFlags struct {
	CompareSize            bool
	CompareDate            bool
	DateTolerance          int
	CompareContent         bool
	CompareSymlink         bool
	SkipSubdirs            bool
	SkipSymlinks           bool
	SkipEmptyDirs          bool
	IgnoreCase             bool
	HandlePermissionDenied bool
	Include                []string
	Exclude                []string
	Async                  bool

	LineBased            bool
	IgnoreLineEnding     bool
	IgnoreWhiteSpaces    bool
	IgnoreAllWhiteSpaces bool
	IgnoreEmptyLines     bool
	LineBufferSize       int

	BufferSize         int
	Concurrency        int
	ContentConcurrency int
	MaxOpenFiles       int
	BandwidthLimit     string

	Output     string
	ShowEqual  bool
	NoColor    bool
	NoProgress bool
	DiffReport string
	DiffFormat string

	LogFile   string
	LogFormat string
	LogLevel  string
}

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(
		&flags.ConfigFile,
		"config",
		"",
		"config file (default is "+config.DefaultConfigPath()+")",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Verbose,
		"verbose",
		"v",
		false,
		"log comparison events to stderr",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output, only set the exit code",
	)
}

func addCompareFlags(cmd *cobra.Command, f *CompareFlags) {
	fs := cmd.Flags()
	def := config.Default()

	fs.BoolVar(&f.CompareSize, "compare-size", def.Compare.Size, "compare file sizes")
	fs.BoolVar(&f.CompareDate, "compare-date", def.Compare.Date, "compare modification dates")
	fs.IntVar(&f.DateTolerance, "date-tolerance", def.Compare.DateTolerance, "accepted date difference in milliseconds")
	fs.BoolVarP(&f.CompareContent, "compare-content", "c", def.Compare.Content, "compare file content")
	fs.BoolVar(&f.CompareSymlink, "compare-symlink", def.Compare.Symlink, "require both sides to be symlinks or both not")
	fs.BoolVar(&f.SkipSubdirs, "skip-subdirs", false, "do not descend into subdirectories")
	fs.BoolVar(&f.SkipSymlinks, "skip-symlinks", false, "ignore symlinks")
	fs.BoolVar(&f.SkipEmptyDirs, "skip-empty-dirs", false, "ignore empty directories")
	fs.BoolVar(&f.IgnoreCase, "ignore-case", false, "match names case insensitively")
	fs.BoolVar(&f.HandlePermissionDenied, "handle-permission-denied", false, "report unreadable entries instead of failing")
	fs.StringSliceVar(&f.Include, "include", nil, "glob patterns of files to include")
	fs.StringSliceVar(&f.Exclude, "exclude", nil, "glob patterns of files and directories to exclude")
	fs.BoolVar(&f.Async, "async", false, "list, descend and compare content concurrently")

	fs.BoolVar(&f.LineBased, "line-based", false, "compare content line by line")
	fs.BoolVar(&f.IgnoreLineEnding, "ignore-line-ending", false, "line based: treat \\n, \\r\\n and \\r as equal")
	fs.BoolVar(&f.IgnoreWhiteSpaces, "ignore-white-spaces", false, "line based: ignore leading and trailing white space")
	fs.BoolVar(&f.IgnoreAllWhiteSpaces, "ignore-all-white-spaces", false, "line based: ignore all white space")
	fs.BoolVar(&f.IgnoreEmptyLines, "ignore-empty-lines", false, "line based: ignore empty lines")
	fs.IntVar(&f.LineBufferSize, "line-buffer-size", 0, "line based: read size in bytes (0 = buffer size)")

	fs.IntVar(&f.BufferSize, "buffer-size", def.Performance.BufferSize, "content comparison buffer size in bytes")
	fs.IntVar(&f.Concurrency, "concurrency", def.Performance.Concurrency, "subdirectories compared in parallel (async)")
	fs.IntVar(&f.ContentConcurrency, "content-concurrency", def.Performance.ContentConcurrency, "content comparisons in flight")
	fs.IntVar(&f.MaxOpenFiles, "max-open-files", def.Performance.MaxOpenFiles, "files held open by content comparisons (async)")
	fs.StringVar(&f.BandwidthLimit, "bwlimit", "", "read bandwidth limit, e.g. 10M or 512KiB")

	fs.StringVarP(&f.Output, "output", "o", def.Output.Format, "output format: human, json, csv")
	fs.BoolVar(&f.ShowEqual, "show-equal", false, "list equal entries too")
	fs.BoolVar(&f.NoColor, "no-color", false, "disable colored output")
	fs.BoolVar(&f.NoProgress, "no-progress", false, "disable the progress bar")
	fs.StringVar(&f.DiffReport, "diff-report", "", "write the report to a file")
	fs.StringVar(&f.DiffFormat, "diff-format", "human", "report file format: human, json, csv")

	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
	fs.StringVar(&f.LogFormat, "log-format", def.Logging.Format, "log format: json, text")
	fs.StringVar(&f.LogLevel, "log-level", def.Logging.Level, "log level: debug, info, warn, error")
}
