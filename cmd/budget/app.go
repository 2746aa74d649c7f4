package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"budget/internal/backend"
	"budget/internal/cache"
	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/script"
	"budget/internal/services"
)

// app is the wiring for one command invocation.
type app struct {
	opts    *rootOptions
	logger  *log.Logger
	stack   *backend.Stack
	ledger  *services.LedgerService
	reports *services.ReportService
	out     io.Writer
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cli.LoadEnvFile()
	if opts.logLevel != "" {
		if err := os.Setenv("LOG_LEVEL", opts.logLevel); err != nil {
			return nil, fmt.Errorf("set log level: %w", err)
		}
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat, log.ComponentApp)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	stack, err := backend.NewFactory(logger).Build(cmd.Context(), bcfg)
	if err != nil {
		return nil, err
	}

	ledgerSvc := services.NewLedgerService(nil, stack.JournalWriter(), stack.Publisher(), logger)
	reportCache := cache.NewLRUCache[string](cfg.ReportCacheSize, cfg.ReportCacheTTL)

	return &app{
		opts:    opts,
		logger:  logger,
		stack:   stack,
		ledger:  ledgerSvc,
		reports: services.NewReportService(ledgerSvc.Registry(), reportCache, logger),
		out:     cmd.OutOrStdout(),
	}, nil
}

func (a *app) Close() {
	if a.stack.Journal != nil {
		if n, err := a.stack.Journal.Count(context.Background()); err == nil {
			a.logger.Debug("Closing journal", log.FieldCount, n)
		}
	}
	if err := a.stack.Close(); err != nil {
		a.logger.Warn("Cleanup failed", log.FieldError, err)
	}
}

// replay optionally opens the seeded categories, then runs the script.
// Refused operations are reported on stderr.
func (a *app) replay(ctx context.Context, cmd *cobra.Command, r io.Reader) error {
	if a.opts.seed && a.stack.Seeder != nil {
		if _, err := a.ledger.OpenSeeded(ctx, a.stack.Seeder); err != nil {
			return err
		}
	}
	res, err := script.Run(ctx, a.ledger, r, a.logger)
	if err != nil {
		return err
	}
	for _, ref := range res.Refused {
		fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", ref.Op.Line, ref.Err)
	}
	return nil
}

func (a *app) printStatements(ctx context.Context) error {
	statements, err := a.reports.Statements(ctx)
	if err != nil {
		return err
	}
	for _, s := range statements {
		fmt.Fprintln(a.out, s)
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *app) printChart(ctx context.Context, names ...string) error {
	var (
		text string
		err  error
	)
	if a.opts.color {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
		text, err = a.reports.ChartFunc(func(s string) string { return style.Render(s) }, names...)
	} else {
		text, err = a.reports.Chart(ctx, names...)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, text)
	return nil
}

// openInput returns stdin for "-" and the named file otherwise.
func openInput(cmd *cobra.Command, arg string) (io.ReadCloser, error) {
	if arg == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	return f, nil
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
