package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/log"
	"budget/internal/sheets"
)

// Sink is a named export destination.
type Sink struct {
	Name   string
	Writer sheets.EntryWriter
}

// JournalWorker consumes entry-recorded events, writes them to the journal
// and then copies them to every export sink concurrently.
type JournalWorker struct {
	journal sheets.EntryWriter
	sinks   []Sink
	logger  *log.Logger
}

// NewJournalWorker accepts a nil journal when only exporting.
func NewJournalWorker(journal sheets.EntryWriter, sinks []Sink, logger *log.Logger) *JournalWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &JournalWorker{
		journal: journal,
		sinks:   sinks,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEntryRecorded processes one message. Any error makes the consumer
// requeue it. The journal and the memory sink ignore ids they already hold;
// the Sheets sink appends on every call, so a redelivered message can leave
// a duplicate row there (at-least-once).
func (w *JournalWorker) HandleEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error {
	start := time.Now()
	r := msg.Record()
	if err := r.Validate(); err != nil {
		return fmt.Errorf("entry %s: %w", msg.ID, err)
	}
	fields := log.NewFields().WithEntry(r.ID, r.Category, r.Seq, r.Amount.Cents)

	if w.journal != nil {
		if _, err := w.journal.Record(ctx, r); err != nil {
			return fmt.Errorf("journal entry %s: %w", r.ID, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range w.sinks {
		g.Go(func() error {
			ref, err := sink.Writer.Record(gctx, r)
			if err != nil {
				return fmt.Errorf("export entry %s to %s: %w", r.ID, sink.Name, err)
			}
			w.logger.DebugContext(gctx, "Entry exported",
				log.FieldEntryID, r.ID, "sink", sink.Name, log.FieldSinkRef, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.logger.ErrorContext(ctx, "Export failed", fields.WithError(err).ToSlice()...)
		return err
	}

	w.logger.InfoContext(ctx, "Entry recorded",
		append(fields.ToSlice(), log.FieldDuration, time.Since(start).Milliseconds())...)
	return nil
}
