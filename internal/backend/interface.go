package backend

import (
	"context"
	"errors"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/services"
	"budget/internal/sheets"
	"budget/internal/storage"
	"budget/internal/worker"
)

// Stack is the infrastructure around the ledger core for one process.
// Every field is optional.
type Stack struct {
	Journal   *storage.Journal
	Events    *amqp.Client
	Sinks     []worker.Sink
	Seeder    sheets.CategorySeeder
	closeFunc []CleanupFunc
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// JournalWriter returns the journal as a port, or a nil interface when the
// journal is disabled.
func (s *Stack) JournalWriter() sheets.EntryWriter {
	if s.Journal == nil {
		return nil
	}
	return s.Journal
}

// Publisher returns the event client as a port, or a nil interface when
// events are disabled.
func (s *Stack) Publisher() services.EventPublisher {
	if s.Events == nil {
		return nil
	}
	return s.Events
}

// Close releases resources in reverse order of acquisition.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closeFunc) - 1; i >= 0; i-- {
		if err := s.closeFunc[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closeFunc = nil
	if len(errs) > 0 {
		return fmt.Errorf("close backend: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Stack) onClose(f CleanupFunc) {
	s.closeFunc = append(s.closeFunc, f)
}

// Factory creates stacks based on configuration
type Factory interface {
	Build(ctx context.Context, config Config) (*Stack, error)
}

// Config holds configuration for stack creation
type Config struct {
	// Export sink type
	Type BackendType

	JournalEnabled bool
	JournalDSN     string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	// RequireEvents turns an AMQP connection failure into an error instead
	// of a warning.
	RequireEvents bool

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Memory backend seed directory
	DataDirectory string
}

// BackendType names the export sink.
type BackendType string

const (
	NoneBackend   BackendType = "none"
	MemoryBackend BackendType = "memory"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case NoneBackend, MemoryBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
