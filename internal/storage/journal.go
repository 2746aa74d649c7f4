// Package storage keeps the write-only audit journal of recorded ledger
// entries in sqlite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budget/internal/core"
	"budget/internal/log"

	_ "modernc.org/sqlite"
)

var ErrMissingID = errors.New("journal record has no id")

// Journal is the sqlite audit trail. Nothing is ever read back into an
// account.
type Journal struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewJournal(dsn string, logger *log.Logger) (*Journal, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if dir := fileDir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// An in-memory database lives only while a connection holds it.
	db.SetConnMaxLifetime(0)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Journal{
		db:      db,
		queries: NewQueries(db),
		logger:  logger.WithComponent(log.ComponentJournal),
	}, nil
}

func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record implements sheets.EntryWriter. Recording the same id twice keeps
// the first row and returns the id again.
func (j *Journal) Record(ctx context.Context, r core.Record) (string, error) {
	if r.ID == "" {
		return "", ErrMissingID
	}
	recordedAt := r.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	inserted, err := j.queries.InsertEntry(ctx, InsertEntryParams{
		ID:          r.ID,
		Category:    r.Category,
		Seq:         int64(r.Seq),
		AmountCents: r.Amount.Cents,
		Description: r.Description,
		RecordedAt:  recordedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}

	if inserted {
		j.logger.DebugContext(ctx, "Entry journaled",
			log.NewFields().WithEntry(r.ID, r.Category, r.Seq, r.Amount.Cents).ToSlice()...)
	} else {
		j.logger.DebugContext(ctx, "Entry already journaled", log.FieldEntryID, r.ID)
	}
	return r.ID, nil
}

// ListByCategory returns the journaled entries of one category in ledger order.
func (j *Journal) ListByCategory(ctx context.Context, category string) ([]core.Record, error) {
	rows, err := j.queries.EntriesByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list entries for %s: %w", category, err)
	}

	records := make([]core.Record, len(rows))
	for i, row := range rows {
		at, err := time.Parse(time.RFC3339Nano, row.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at of %s: %w", row.ID, err)
		}
		records[i] = core.Record{
			ID:          row.ID,
			Category:    row.Category,
			Seq:         int(row.Seq),
			Amount:      core.Cents(row.AmountCents),
			Description: row.Description,
			RecordedAt:  at,
		}
	}
	return records, nil
}

// Totals summarizes balance and spending per category, in the order the
// categories were first journaled.
func (j *Journal) Totals(ctx context.Context) (core.SpendingSummary, error) {
	var summary core.SpendingSummary

	rows, err := j.queries.CategoryTotals(ctx)
	if err != nil {
		return summary, fmt.Errorf("get category totals: %w", err)
	}

	for _, row := range rows {
		spent := core.Cents(row.SpentCents)
		summary.ByCategory = append(summary.ByCategory, core.CategoryAmount{
			Name:    row.Category,
			Balance: core.Cents(row.BalanceCents),
			Spent:   spent,
		})
		summary.TotalSpent = summary.TotalSpent.Add(spent)
	}
	return summary, nil
}

// Count returns the number of journaled entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	n, err := j.queries.CountEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return int(n), nil
}

// fileDir returns the directory to create for a file-backed DSN, or "" for
// in-memory and URI style DSNs.
func fileDir(dsn string) string {
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}
