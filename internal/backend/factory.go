package backend

import (
	"context"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/log"
	gsheet "budget/internal/sheets/google"
	"budget/internal/sheets/memory"
	"budget/internal/storage"
	"budget/internal/worker"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Build opens the journal, the event client and the export sink described by
// config. On error everything opened so far is closed again.
func (f *DefaultFactory) Build(ctx context.Context, config Config) (*Stack, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stack := &Stack{}
	if err := f.build(ctx, config, stack); err != nil {
		_ = stack.Close()
		return nil, err
	}
	return stack, nil
}

func (f *DefaultFactory) build(ctx context.Context, config Config, stack *Stack) error {
	if config.JournalEnabled {
		journal, err := storage.NewJournal(config.JournalDSN, f.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize journal: %w", err)
		}
		stack.Journal = journal
		stack.onClose(journal.Close)
		f.logger.Info("Initialized journal", "dsn", config.JournalDSN)
	}

	if config.EventsEnabled() {
		client, err := amqp.NewClient(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		switch {
		case err == nil:
			stack.Events = client
			stack.onClose(client.Close)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		case config.RequireEvents:
			return fmt.Errorf("failed to initialize AMQP client: %w", err)
		default:
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		}
	}

	switch config.Type {
	case SheetsBackend:
		return f.addSheets(ctx, config, stack)
	case MemoryBackend:
		f.addMemory(config, stack)
	case NoneBackend:
		f.logger.Info("Export disabled")
	}
	return nil
}

func (f *DefaultFactory) addSheets(ctx context.Context, config Config, stack *Stack) error {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountFile: config.GoogleServiceAccountFile,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
	}, f.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	stack.Sinks = append(stack.Sinks, worker.Sink{Name: string(SheetsBackend), Writer: cli})
	stack.Seeder = cli
	f.logger.Info("Initialized Google Sheets backend", "sheet", cli.Sheet())
	return nil
}

func (f *DefaultFactory) addMemory(config Config, stack *Stack) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "."
	}
	store := memory.NewFromFiles(dataDir)

	stack.Sinks = append(stack.Sinks, worker.Sink{Name: string(MemoryBackend), Writer: store})
	stack.Seeder = store
	f.logger.Info("Initialized memory backend", "data_directory", dataDir)
}
