package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/sheets"
)

// EventPublisher announces recorded entries.
type EventPublisher interface {
	PublishEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error
}

// LedgerService applies operations to the accounts of one registry and then
// hands every appended entry to the journal and the event publisher. Both
// are optional and never undo an applied operation.
type LedgerService struct {
	registry  *ledger.Registry
	journal   sheets.EntryWriter
	publisher EventPublisher
	logger    *log.Logger

	newID func() string
	now   func() time.Time
}

func NewLedgerService(registry *ledger.Registry, journal sheets.EntryWriter, publisher EventPublisher, logger *log.Logger) *LedgerService {
	if registry == nil {
		registry = ledger.NewRegistry()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		registry:  registry,
		journal:   journal,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func (s *LedgerService) Registry() *ledger.Registry { return s.registry }

// Open returns the account for name, registering it on first use.
func (s *LedgerService) Open(ctx context.Context, name string) *ledger.Account {
	known := s.registry.Len()
	acct := s.registry.Open(name)
	if s.registry.Len() > known {
		s.logger.DebugContext(ctx, "Category opened", log.FieldCategory, name)
	}
	return acct
}

// OpenSeeded opens every category the seeder lists and returns their names.
func (s *LedgerService) OpenSeeded(ctx context.Context, seeder sheets.CategorySeeder) ([]string, error) {
	names, err := seeder.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seed categories: %w", err)
	}
	for _, name := range names {
		s.Open(ctx, name)
	}
	return names, nil
}

func (s *LedgerService) Deposit(ctx context.Context, category string, amount core.Money, description string) error {
	acct := s.Open(ctx, category)
	before := acct.Len()
	acct.Deposit(amount, description)
	s.logger.DebugContext(ctx, "Deposit applied",
		log.FieldCategory, category, log.FieldAmountCents, amount.Cents)
	s.record(ctx, acct, before)
	return nil
}

// Withdraw returns ledger.ErrInsufficientFunds, leaving the account
// untouched, when the amount exceeds the balance.
func (s *LedgerService) Withdraw(ctx context.Context, category string, amount core.Money, description string) error {
	acct := s.Open(ctx, category)
	before := acct.Len()
	if !acct.Withdraw(amount, description) {
		s.logger.InfoContext(ctx, "Withdrawal refused",
			log.FieldCategory, category,
			log.FieldAmountCents, amount.Cents,
			log.FieldBalance, acct.Balance().String())
		return fmt.Errorf("withdraw %s from %s: %w", amount, category, ledger.ErrInsufficientFunds)
	}
	s.record(ctx, acct, before)
	return nil
}

// Transfer moves amount between categories, opening either as needed.
func (s *LedgerService) Transfer(ctx context.Context, from string, amount core.Money, to string) error {
	src := s.Open(ctx, from)
	dst := s.Open(ctx, to)
	srcBefore, dstBefore := src.Len(), dst.Len()
	if !src.Transfer(amount, dst) {
		s.logger.InfoContext(ctx, "Transfer refused",
			log.FieldCategory, from,
			log.FieldDestination, to,
			log.FieldAmountCents, amount.Cents)
		return fmt.Errorf("transfer %s from %s to %s: %w", amount, from, to, ledger.ErrInsufficientFunds)
	}
	s.record(ctx, src, srcBefore)
	if dst != src {
		s.record(ctx, dst, dstBefore)
	}
	return nil
}

// record forwards the entries appended to acct since index from.
func (s *LedgerService) record(ctx context.Context, acct *ledger.Account, from int) {
	entries := acct.Entries()
	for i := from; i < len(entries); i++ {
		r := core.Record{
			ID:          s.newID(),
			Category:    acct.Name(),
			Seq:         i + 1,
			Amount:      entries[i].Amount,
			Description: entries[i].Description,
			RecordedAt:  s.now(),
		}
		fields := log.NewFields().WithEntry(r.ID, r.Category, r.Seq, r.Amount.Cents)

		if s.journal != nil {
			if _, err := s.journal.Record(ctx, r); err != nil {
				s.logger.ErrorContext(ctx, "Failed to journal entry", fields.WithError(err).ToSlice()...)
			}
		}
		if s.publisher != nil {
			err := s.publisher.PublishEntryRecorded(ctx, amqp.NewEntryRecordedMessage(r))
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.ErrorContext(ctx, "Failed to publish entry", fields.WithError(err).ToSlice()...)
			}
		}
	}
}
