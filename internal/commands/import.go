package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cartola-dev/cartola/internal/gitops"
	"github.com/cartola-dev/cartola/internal/importer"
	"github.com/cartola-dev/cartola/internal/importlog"
	"github.com/cartola-dev/cartola/internal/model"
	"github.com/cartola-dev/cartola/internal/movements"
	"github.com/cartola-dev/cartola/internal/statement"
)

// parseWorkers bounds how many statements are parsed at once.
const parseWorkers = 4

type importOptions struct {
	accountID int
	file      string
	format    string
	dryRun    bool
	noCommit  bool
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var iopts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statements from import/ into an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runImport(cmd.OutOrStdout(), p, iopts)
		},
	}

	cmd.Flags().IntVar(&iopts.accountID, "account", 0, "account ID to import into (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&iopts.file, "file", "", "import a single file instead of scanning import/")
	cmd.Flags().StringVar(&iopts.format, "format", "", "statement format (default from config)")
	cmd.Flags().BoolVar(&iopts.dryRun, "dry-run", false, "parse and report without writing anything")
	cmd.Flags().BoolVar(&iopts.noCommit, "no-commit", false, "skip the git commit even if auto_commit is set")

	return cmd
}

// importRun holds the state shared by every file of one import.
type importRun struct {
	out      io.Writer
	p        *project
	acct     model.BankAccount
	parser   importer.Parser
	movs     *movements.Service
	dryRun   bool
	now      func() time.Time
	newBatch func() string
}

func runImport(out io.Writer, p *project, opts importOptions) error {
	acct, ok := p.accounts.Get(opts.accountID)
	if !ok {
		return fmt.Errorf("unknown account %d (see 'cartola account list')", opts.accountID)
	}

	sp, err := newStatementParser(p.cfg.Import)
	if err != nil {
		return err
	}
	registry := importer.DefaultRegistry(sp)

	format := opts.format
	if format == "" {
		format = p.cfg.Import.DefaultFormat
	}
	if format == "" {
		format = "cartola"
	}
	parser := registry.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q (available: %v)", format, registry.Formats())
	}

	files, err := collectFiles(p, opts.file)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.log.Info("no statements to import")
		return nil
	}

	run := &importRun{
		out:      out,
		p:        p,
		acct:     acct,
		parser:   parser,
		movs:     movements.NewService(p.root, p.accounts),
		dryRun:   opts.dryRun,
		now:      func() time.Time { return time.Now().UTC() },
		newBatch: uuid.NewString,
	}

	parsed := run.parseAll(files)

	var entries []importlog.Entry
	failed, recorded := 0, 0
	for i, f := range files {
		entry := run.importFile(f, parsed[i])
		if entry.Status == importlog.StatusFailed {
			failed++
		} else {
			recorded += entry.Transactions
		}
		entries = append(entries, entry)
	}

	if opts.dryRun {
		return failedError(failed, len(files))
	}

	if err := importlog.Append(p.root, entries); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}

	if recorded > 0 && p.cfg.Git.AutoCommit && !opts.noCommit && gitops.IsRepo(p.root) {
		if err := commitImport(p, recorded, acct.ID); err != nil {
			return err
		}
	}

	return failedError(failed, len(files))
}

// importPaths are the project paths an import touches.
var importPaths = []string{"movements", "logs", "import"}

func commitImport(p *project, recorded, accountID int) error {
	changed, err := gitops.HasChanges(p.root, importPaths...)
	if err != nil {
		return fmt.Errorf("checking for changes: %w", err)
	}
	if !changed {
		p.log.Debug("nothing to commit")
		return nil
	}

	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	msg := fmt.Sprintf("import: %d movement(s) into account %d", recorded, accountID)
	hash, err := gitops.Commit(p.root, msg, author, importPaths...)
	if err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	p.log.WithField("commit", hash).Info("import committed")
	return nil
}

func failedError(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d statement(s) failed to import", failed, total)
}

// collectFiles returns the single file named by --file or the inbox contents.
func collectFiles(p *project, file string) ([]importer.FileInfo, error) {
	if file == "" {
		return importer.Scan(p.root, p.cfg.Import.Extensions)
	}

	path := file
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			path = filepath.Join(p.root, "import", file)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w", file, err)
	}
	return []importer.FileInfo{{Name: filepath.Base(abs), Path: abs, Size: info.Size()}}, nil
}

// parseOutcome is the parse result for one statement file.
type parseOutcome struct {
	res *statement.Result
	err error
}

// parseAll parses files concurrently. Outcomes are returned in file order.
func (r *importRun) parseAll(files []importer.FileInfo) []parseOutcome {
	out := make([]parseOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(parseWorkers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			data, err := importer.ReadUpload(f.Path, r.p.cfg.Import.MaxFileBytes, r.p.cfg.Import.Extensions)
			if err != nil {
				out[i].err = err
				return nil
			}
			r.p.log.WithFields(logrus.Fields{"file": f.Name, "bytes": len(data)}).Debug("parsing statement")
			out[i].res, out[i].err = r.parser.Parse(data, f.Name)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// importFile records one parsed statement. Failures are logged and
// reported in the returned entry; they never stop the remaining files.
func (r *importRun) importFile(f importer.FileInfo, po parseOutcome) importlog.Entry {
	entry := importlog.Entry{
		Timestamp: r.now(),
		BatchID:   r.newBatch(),
		File:      f.Name,
		AccountID: r.acct.ID,
	}
	log := r.p.log.WithFields(logrus.Fields{
		"file":    f.Name,
		"account": r.acct.ID,
		"batch":   entry.BatchID,
	})

	fail := func(err error) importlog.Entry {
		log.WithError(err).Error("import failed")
		entry.Status = importlog.StatusFailed
		entry.Error = err.Error()
		return entry
	}

	res, err := po.res, po.err
	if err != nil {
		var pe *statement.ParseError
		if errors.As(err, &pe) {
			entry.Warnings = len(pe.Warnings)
			printWarnings(r.out, pe.Warnings)
		}
		return fail(err)
	}
	entry.Warnings = len(res.Warnings)
	printWarnings(r.out, res.Warnings)

	if r.dryRun {
		entry.Transactions = len(res.Transactions)
		entry.Status = importlog.StatusFor(nil, entry.Warnings)
		fmt.Fprintf(r.out, "%s: %d transaction(s), %d warning(s) (dry run)\n", f.Name, entry.Transactions, entry.Warnings)
		return entry
	}

	movs, err := r.movs.Record(movements.RecordParams{
		Company:      r.acct.Company,
		AccountID:    r.acct.ID,
		SourceFile:   f.Name,
		BatchID:      entry.BatchID,
		ImportedAt:   entry.Timestamp,
		Transactions: res.Transactions,
	})
	if err != nil {
		return fail(fmt.Errorf("recording movements: %w", err))
	}
	entry.Transactions = len(movs)
	entry.Status = importlog.StatusFor(nil, entry.Warnings)

	if r.inInbox(f.Path) {
		if err := importer.MarkProcessed(r.p.root, f.Name); err != nil {
			log.WithError(err).Warn("statement imported but could not be moved to processed")
		}
	}

	ingresos, egresos := movements.Totals(movs)
	log.WithFields(logrus.Fields{
		"transactions": len(movs),
		"warnings":     entry.Warnings,
	}).Info("statement imported")
	fmt.Fprintf(r.out, "%s: %d movement(s) (ingresos %s, egresos %s), %d warning(s)\n",
		f.Name, len(movs), ingresos, egresos, entry.Warnings)
	return entry
}

func (r *importRun) inInbox(path string) bool {
	return filepath.Dir(path) == filepath.Join(r.p.root, "import")
}
