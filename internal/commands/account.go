package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cartola-dev/cartola/internal/model"
)

func newAccountCommand(opts *globalOptions) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the company's bank accounts",
	}
	accountCmd.AddCommand(newAccountAddCommand(opts))
	accountCmd.AddCommand(newAccountListCommand(opts))
	return accountCmd
}

func newAccountAddCommand(opts *globalOptions) *cobra.Command {
	var acct model.BankAccount

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a bank account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			acct.Company = p.cfg.Company.RUT
			added, err := p.accounts.Add(acct)
			if err != nil {
				return err
			}
			if err := p.accounts.Save(p.root); err != nil {
				return err
			}

			p.log.WithField("account", added.ID).Debug("account registered")
			fmt.Fprintf(cmd.OutOrStdout(), "Added account %d: %s %s (%s)\n", added.ID, added.Bank, added.Number, added.Name)
			return nil
		},
	}

	cmd.Flags().IntVar(&acct.ID, "id", 0, "account ID (default: next free)")
	cmd.Flags().StringVar(&acct.Bank, "bank", "", "bank name (required)")
	cmd.Flags().StringVar(&acct.Number, "number", "", "account number (required)")
	cmd.Flags().StringVar(&acct.Name, "name", "", "display name")
	cmd.Flags().StringVar(&acct.Currency, "currency", "", "currency code (default CLP)")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

func newAccountListCommand(opts *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the company's registered bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			accts := p.accounts.ByCompany(p.cfg.Company.RUT)
			if all {
				accts = p.accounts.All()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOMPANY\tBANK\tNUMBER\tNAME\tCURRENCY")
			for _, a := range accts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Company, a.Bank, a.Number, a.Name, a.Currency)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include accounts of other companies")

	return cmd
}
