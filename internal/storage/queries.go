package storage

import (
	"context"
	"database/sql"
)

const insertEntry = `
INSERT INTO entries (id, category, seq, amount_cents, description, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`

const entriesByCategory = `
SELECT id, category, seq, amount_cents, description, recorded_at
FROM entries
WHERE category = ?
ORDER BY seq`

const categoryTotals = `
SELECT category,
       SUM(amount_cents),
       SUM(CASE WHEN amount_cents < 0 THEN -amount_cents ELSE 0 END)
FROM entries
GROUP BY category
ORDER BY MIN(rowid)`

const countEntries = `SELECT COUNT(*) FROM entries`

// Queries holds the journal statements.
type Queries struct {
	db *sql.DB
}

func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type InsertEntryParams struct {
	ID          string
	Category    string
	Seq         int64
	AmountCents int64
	Description string
	RecordedAt  string
}

type EntryRow struct {
	ID          string
	Category    string
	Seq         int64
	AmountCents int64
	Description string
	RecordedAt  string
}

type CategoryTotalRow struct {
	Category     string
	BalanceCents int64
	SpentCents   int64
}

// InsertEntry reports whether a new row was written; false means the id was
// already present.
func (q *Queries) InsertEntry(ctx context.Context, arg InsertEntryParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, insertEntry,
		arg.ID, arg.Category, arg.Seq, arg.AmountCents, arg.Description, arg.RecordedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *Queries) EntriesByCategory(ctx context.Context, category string) ([]EntryRow, error) {
	rows, err := q.db.QueryContext(ctx, entriesByCategory, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []EntryRow
	for rows.Next() {
		var i EntryRow
		if err := rows.Scan(&i.ID, &i.Category, &i.Seq, &i.AmountCents, &i.Description, &i.RecordedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (q *Queries) CategoryTotals(ctx context.Context) ([]CategoryTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, categoryTotals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CategoryTotalRow
	for rows.Next() {
		var i CategoryTotalRow
		if err := rows.Scan(&i.Category, &i.BalanceCents, &i.SpentCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (q *Queries) CountEntries(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countEntries).Scan(&n)
	return n, err
}
