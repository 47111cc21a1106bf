package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/config"
	"github.com/sdejongh/dircompare/pkg/dircompare"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/output"
)

// NewCompareCommand creates the compare command
func NewCompareCommand(global *GlobalFlags) *cobra.Command {
	var flags CompareFlags

	cmd := &cobra.Command{
		Use:   "compare LEFT RIGHT",
		Short: "Compare two directories or files",
		Long: `Compare two directory trees (or two files) and report the entries that
differ. The exit code is 0 when both sides are the same, 1 when differences
were found and 2 when the comparison failed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, global, &flags, args[0], args[1])
		},
	}

	addCompareFlags(cmd, &flags)

	return cmd
}

func runCompare(cmd *cobra.Command, global *GlobalFlags, flags *CompareFlags, left, right string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	left, right, err := validateCompareArgs(left, right)
	if err != nil {
		return err
	}

	cfg, err := config.Load(global.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cmd, global, flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flags.DiffReport != "" {
		if err := validateFormat(flags.DiffFormat); err != nil {
			return fmt.Errorf("--diff-format: %w", err)
		}
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.NoDiffSet = cfg.Output.Quiet && flags.DiffReport == ""

	logger, err := createLogger(cfg, global.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	opts.Logger = logger

	var bar *output.ProgressBar
	if cfg.Output.Progress && !cfg.Output.Quiet && output.IsTerminal(os.Stderr) {
		bar = output.NewProgressBar(cmd.ErrOrStderr())
		opts.Progress = bar
	}

	session, err := dircompare.NewSession(opts)
	if err != nil {
		return err
	}

	start := time.Now()
	var result *dircompare.Result
	if cfg.Mode() == models.ModeAsync {
		result, err = session.Compare(ctx, left, right)
	} else {
		result, err = session.CompareSync(ctx, left, right)
	}
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	report := &output.Report{
		Left:     left,
		Right:    right,
		Mode:     cfg.Mode(),
		Duration: time.Since(start),
		Result:   result,
	}

	if !cfg.Output.Quiet {
		printer, err := output.NewPrinter(cfg.Output.Format, output.PrinterOptions{
			ShowEqual: cfg.Output.ShowEqual,
			Color:     cfg.Output.Color && !color.NoColor,
		})
		if err != nil {
			return err
		}
		if err := printer.Print(cmd.OutOrStdout(), report); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
	}

	if flags.DiffReport != "" {
		if err := output.WriteReportFile(report, flags.DiffReport, flags.DiffFormat); err != nil {
			return fmt.Errorf("failed to write differences report: %w", err)
		}
	}

	if code := result.Status().ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
