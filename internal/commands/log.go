package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cartola-dev/cartola/internal/importlog"
)

func newLogCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the import history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(opts.repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			entries, err := importlog.Read(root)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No imports yet.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tFILE\tACCOUNT\tMOVEMENTS\tWARNINGS\tSTATUS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
					e.Timestamp.Local().Format(time.DateTime), e.File, e.AccountID, e.Transactions, e.Warnings, e.Status)
			}
			return tw.Flush()
		},
	}
}
