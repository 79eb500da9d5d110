// Package commands wires the finrep CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "finrep",
		Short:   "Financial statements and ratios from ledger exports",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "finrep.toml", "path to the project configuration")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(&configPath))
	rootCmd.AddCommand(newReportCommand(&configPath))
	rootCmd.AddCommand(newRatiosCommand(&configPath))
	rootCmd.AddCommand(newRunCommand(&configPath))
	rootCmd.AddCommand(newEntriesCommand(&configPath))
	rootCmd.AddCommand(newDuplicatesCommand(&configPath))

	return rootCmd
}
