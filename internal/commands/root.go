package commands

import (
	"github.com/spf13/cobra"

	"github.com/cartola-dev/cartola/internal/buildinfo"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	repo    string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "cartola",
		Short:   "Bank statement import for small business finances",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand(opts))
	rootCmd.AddCommand(newParseCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newLogCommand(opts))

	return rootCmd
}
