package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is a ledger entry as seen outside the account: the same amount and
// description plus the identity needed to store and correlate it.
type Record struct {
	ID          string
	Category    string
	Seq         int // 1-based position in the category's ledger
	Amount      Money
	Description string
	RecordedAt  time.Time
}

var ErrInvalidRecord = errors.New("invalid record")

// Validate checks the fields every sink relies on.
func (r Record) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	case strings.TrimSpace(r.Category) == "":
		return fmt.Errorf("%w: missing category", ErrInvalidRecord)
	case r.Seq < 1:
		return fmt.Errorf("%w: seq %d must be positive", ErrInvalidRecord, r.Seq)
	}
	return nil
}
