// Package script reads ledger operations from CSV and replays them.
//
// One operation per row:
//
//	open,<category>
//	deposit,<category>,<amount>[,<description>]
//	withdraw,<category>,<amount>[,<description>]
//	transfer,<from>,<amount>,<to>
//
// Blank lines and lines starting with # are ignored.
package script

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

type Kind string

const (
	KindOpen     Kind = "open"
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindTransfer Kind = "transfer"
)

var (
	ErrUnknownOp     = errors.New("unknown operation")
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrEmptyCategory = errors.New("empty category")
)

// Op is one parsed script row.
type Op struct {
	Line        int
	Kind        Kind
	Category    string
	Amount      core.Money
	Description string
	Destination string
}

// ParseError reports the script line a problem was found on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads every operation from r, stopping at the first bad row.
func Parse(r io.Reader) ([]Op, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var ops []Op
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return ops, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Line: perr.StartLine, Err: perr.Err}
			}
			return nil, fmt.Errorf("read script: %w", err)
		}
		line, _ := cr.FieldPos(0)
		op, err := parseRecord(rec)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		op.Line = line
		ops = append(ops, op)
	}
}

func parseRecord(rec []string) (Op, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	kind := Kind(strings.ToLower(rec[0]))
	op := Op{Kind: kind}

	switch kind {
	case KindOpen:
		if len(rec) != 2 {
			return op, fmt.Errorf("%s: %w: want 2, got %d", kind, ErrFieldCount, len(rec))
		}
	case KindDeposit, KindWithdraw:
		if len(rec) < 3 || len(rec) > 4 {
			return op, fmt.Errorf("%s: %w: want 3 or 4, got %d", kind, ErrFieldCount, len(rec))
		}
		if len(rec) == 4 {
			op.Description = rec[3]
		}
	case KindTransfer:
		if len(rec) != 4 {
			return op, fmt.Errorf("%s: %w: want 4, got %d", kind, ErrFieldCount, len(rec))
		}
		op.Destination = rec[3]
		if op.Destination == "" {
			return op, fmt.Errorf("transfer destination: %w", ErrEmptyCategory)
		}
	default:
		return op, fmt.Errorf("%w %q", ErrUnknownOp, rec[0])
	}

	op.Category = rec[1]
	if op.Category == "" {
		return op, ErrEmptyCategory
	}
	if kind != KindOpen {
		amount, err := core.ParseAmount(rec[2])
		if err != nil {
			return op, err
		}
		op.Amount = amount
	}
	return op, nil
}

// Target applies operations; services.LedgerService satisfies it.
type Target interface {
	Open(ctx context.Context, name string) *ledger.Account
	Deposit(ctx context.Context, category string, amount core.Money, description string) error
	Withdraw(ctx context.Context, category string, amount core.Money, description string) error
	Transfer(ctx context.Context, from string, amount core.Money, to string) error
}

// Refusal is an operation the ledger declined for lack of funds.
type Refusal struct {
	Op  Op
	Err error
}

// Result summarizes a replay.
type Result struct {
	Applied int
	Refused []Refusal
}

// Replay applies ops in order. Refused withdrawals and transfers are
// collected in the result; any other error stops the replay. A nil logger
// means the one carried by ctx.
func Replay(ctx context.Context, target Target, ops []Op, logger *log.Logger) (Result, error) {
	if logger == nil {
		logger = log.FromContext(ctx)
	}
	logger = logger.WithComponent(log.ComponentScript)

	var res Result
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var err error
		switch op.Kind {
		case KindOpen:
			target.Open(ctx, op.Category)
		case KindDeposit:
			err = target.Deposit(ctx, op.Category, op.Amount, op.Description)
		case KindWithdraw:
			err = target.Withdraw(ctx, op.Category, op.Amount, op.Description)
		case KindTransfer:
			err = target.Transfer(ctx, op.Category, op.Amount, op.Destination)
		default:
			err = fmt.Errorf("%w %q", ErrUnknownOp, op.Kind)
		}

		switch {
		case err == nil:
			res.Applied++
		case errors.Is(err, ledger.ErrInsufficientFunds):
			logger.WarnContext(ctx, "Operation refused", log.FieldLine, op.Line, log.FieldError, err)
			res.Refused = append(res.Refused, Refusal{Op: op, Err: err})
		default:
			return res, fmt.Errorf("line %d: %w", op.Line, err)
		}
	}

	logger.InfoContext(ctx, "Script replayed",
		log.FieldCount, res.Applied, "refused", len(res.Refused))
	return res, nil
}

// Run parses r and replays it against target.
func Run(ctx context.Context, target Target, r io.Reader, logger *log.Logger) (Result, error) {
	ops, err := Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse script: %w", err)
	}
	return Replay(ctx, target, ops, logger)
}
