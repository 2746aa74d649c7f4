package sheets

import (
	"context"

	"budget/internal/core"
)

// Ports for outbound adapters.
type (
	// EntryWriter stores one recorded ledger entry and returns a sink
	// specific reference to it.
	EntryWriter interface {
		Record(ctx context.Context, r core.Record) (ref string, err error)
	}

	// CategorySeeder lists category names to open before a run.
	CategorySeeder interface {
		Categories(ctx context.Context) ([]string, error)
	}
)
