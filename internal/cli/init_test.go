package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/config"
	"budget/internal/log"
)

func TestSetupLoggerWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "warn", "text", log.ComponentApp)

	logger.Info("hidden")
	logger.Warn("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestInitJournalDisabled(t *testing.T) {
	cfg := &config.Config{JournalEnabled: false}
	journal, err := InitJournal(log.Discard(), cfg)
	require.NoError(t, err)
	assert.Nil(t, journal)
}

func TestInitJournalInMemory(t *testing.T) {
	cfg := &config.Config{
		JournalEnabled: true,
		JournalDSN:     "file:cli_init?mode=memory&cache=shared",
	}
	journal, err := InitJournal(log.Discard(), cfg)
	require.NoError(t, err)
	require.NotNil(t, journal)
	assert.NoError(t, journal.Close())
}

func TestLoadAndValidateConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("EXPORT_BACKEND", "postgres")
	_, err := LoadAndValidateConfig()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid export backend"))
}
