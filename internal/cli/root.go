package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries a process exit code without a message
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCommand builds the dircompare command tree
func NewRootCommand() *cobra.Command {
	var global GlobalFlags

	rootCmd := &cobra.Command{
		Use:   "dircompare",
		Short: "Compare two directory trees",
		Long: `dircompare walks two directory trees side by side and reports every entry
that is equal, distinct, or present on one side only, together with statistics.
Entries can be compared by size, date, symlink identity and content.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd, &global)

	rootCmd.AddCommand(NewCompareCommand(&global))
	rootCmd.AddCommand(NewConfigCommand(&global))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
