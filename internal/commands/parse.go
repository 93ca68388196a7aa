package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cartola-dev/cartola/internal/config"
	"github.com/cartola-dev/cartola/internal/importer"
	"github.com/cartola-dev/cartola/internal/statement"
)

func newParseCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statement without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), opts, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// parseConfig returns the project's import settings, or defaults when run
// outside a project.
func parseConfig(opts *globalOptions) config.ImportConfig {
	cfg, err := config.Load(filepath.Join(opts.repo, config.FileName))
	if err != nil {
		return config.Default("", "").Import
	}
	return cfg.Import
}

func runParse(out io.Writer, opts *globalOptions, path string, asJSON bool) error {
	icfg := parseConfig(opts)
	data, err := importer.ReadUpload(path, icfg.MaxFileBytes, icfg.Extensions)
	if err != nil {
		return err
	}

	p, err := newStatementParser(icfg)
	if err != nil {
		return err
	}
	res, err := p.Parse(data, filepath.Base(path))

	if asJSON {
		return printJSON(out, res, err)
	}
	if err != nil {
		var pe *statement.ParseError
		if errors.As(err, &pe) {
			printWarnings(out, pe.Warnings)
		}
		return err
	}

	if err := printTransactions(out, res); err != nil {
		return err
	}
	printWarnings(out, res.Warnings)
	fmt.Fprintf(out, "%d transaction(s), %d warning(s)\n", len(res.Transactions), len(res.Warnings))
	return nil
}

type jsonError struct {
	Error    string              `json:"error"`
	Warnings []statement.Warning `json:"warnings,omitempty"`
}

func printJSON(out io.Writer, res *statement.Result, parseErr error) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if parseErr != nil {
		je := jsonError{Error: parseErr.Error()}
		var pe *statement.ParseError
		if errors.As(parseErr, &pe) {
			je.Warnings = pe.Warnings
		}
		if err := enc.Encode(je); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return parseErr
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

func printTransactions(out io.Writer, res *statement.Result) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tDATE\tTYPE\tAMOUNT\tDESCRIPTION")
	for _, txn := range res.Transactions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", txn.Row, txn.Date.Format("2006-01-02"), txn.Type, txn.Amount, txn.Description)
	}
	return tw.Flush()
}

func printWarnings(out io.Writer, warnings []statement.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}
