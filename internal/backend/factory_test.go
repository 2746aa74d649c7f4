package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{ExportBackend: "postgres"})
	assert.EqualError(t, err, "invalid backend type in config: postgres (valid: none, memory, sheets)")

	cfg, err := FromAppConfig(&config.Config{
		ExportBackend:  "memory",
		JournalEnabled: true,
		JournalDSN:     config.DefaultJournalDSN,
		SeedDir:        "seeds",
	})
	require.NoError(t, err)
	assert.Equal(t, MemoryBackend, cfg.Type)
	assert.Equal(t, "seeds", cfg.DataDirectory)
	assert.True(t, cfg.JournalEnabled)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"none", Config{Type: NoneBackend}, false},
		{"invalid type", Config{Type: "csv"}, true},
		{"journal without dsn", Config{Type: NoneBackend, JournalEnabled: true}, true},
		{"required events without url", Config{Type: NoneBackend, RequireEvents: true}, true},
		{"sheets without id", Config{Type: SheetsBackend, GoogleServiceAccountJSON: "{}"}, true},
		{"sheets without credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"}, true},
		{"sheets", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id", GoogleServiceAccountJSON: "{}"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestBuildMemoryStack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed_categories.txt"), []byte("Rent\nFun\n"), 0o644))

	stack, err := NewFactory(nil).Build(context.Background(), Config{
		Type:           MemoryBackend,
		JournalEnabled: true,
		JournalDSN:     "file:backend_memory?mode=memory&cache=shared",
		DataDirectory:  dir,
	})
	require.NoError(t, err)
	defer stack.Close()

	assert.NotNil(t, stack.JournalWriter())
	assert.Nil(t, stack.Publisher(), "events disabled without AMQP URL")
	require.Len(t, stack.Sinks, 1)
	assert.Equal(t, "memory", stack.Sinks[0].Name)

	cats, err := stack.Seeder.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Rent", "Fun"}, cats)
}

func TestBuildNoneStack(t *testing.T) {
	stack, err := NewFactory(nil).Build(context.Background(), Config{Type: NoneBackend})
	require.NoError(t, err)

	assert.Nil(t, stack.JournalWriter())
	assert.Nil(t, stack.Publisher())
	assert.Empty(t, stack.Sinks)
	assert.Nil(t, stack.Seeder)
	assert.NoError(t, stack.Close())
}

func TestBuildSheetsStackBadCredentials(t *testing.T) {
	_, err := NewFactory(nil).Build(context.Background(), Config{
		Type:                     SheetsBackend,
		GoogleSpreadsheetID:      "id",
		GoogleServiceAccountFile: "/non/existent.json",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize Google Sheets client")
}

func TestStackCloseRunsInReverse(t *testing.T) {
	var order []string
	s := &Stack{}
	s.onClose(func() error { order = append(order, "first"); return nil })
	s.onClose(func() error { order = append(order, "second"); return nil })

	require.NoError(t, s.Close())
	assert.Equal(t, []string{"second", "first"}, order)
	require.NoError(t, s.Close(), "second close is a no-op")
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"none", "memory", "sheets"}, GetBackendTypeStrings())
}
