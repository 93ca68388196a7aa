package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cartola-dev/cartola/internal/accounts"
	"github.com/cartola-dev/cartola/internal/config"
	"github.com/cartola-dev/cartola/internal/statement"
)

// project is an initialized cartola directory.
type project struct {
	root     string
	cfg      *config.Config
	accounts *accounts.Service
	log      *logrus.Logger
}

func loadProject(opts *globalOptions, logOut io.Writer) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading project at %s: %w", root, err)
	}

	accts, err := accounts.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	return &project{
		root:     root,
		cfg:      cfg,
		accounts: accts,
		log:      newLogger(cfg.Log, opts.verbose, logOut),
	}, nil
}

// newLogger builds the CLI logger from config. verbose forces debug level.
func newLogger(cfg config.LogConfig, verbose bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return log
}

// newStatementParser builds a parser for the configured timezone.
func newStatementParser(cfg config.ImportConfig) (*statement.Parser, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	return &statement.Parser{Now: time.Now, Location: loc}, nil
}
