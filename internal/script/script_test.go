package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
)

func TestParse(t *testing.T) {
	input := `# comment
open,Food

deposit, Food, 900, initial deposit
withdraw,Food,"45,67","milk, cereal"
transfer,Food,20,Entertainment
`
	ops, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ops, 4)

	assert.Equal(t, Op{Line: 2, Kind: KindOpen, Category: "Food"}, ops[0])
	assert.Equal(t, Op{Line: 4, Kind: KindDeposit, Category: "Food", Amount: core.Cents(90000), Description: "initial deposit"}, ops[1])
	assert.Equal(t, "milk, cereal", ops[2].Description)
	assert.Equal(t, int64(4567), ops[2].Amount.Cents)
	assert.Equal(t, Op{Line: 6, Kind: KindTransfer, Category: "Food", Amount: core.Cents(2000), Destination: "Entertainment"}, ops[3])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantErr  error
	}{
		{"unknown op", "open,Food\nrefund,Food,5", 2, ErrUnknownOp},
		{"open with amount", "open,Food,5", 1, ErrFieldCount},
		{"deposit missing amount", "deposit,Food", 1, ErrFieldCount},
		{"transfer missing destination", "transfer,Food,5", 1, ErrFieldCount},
		{"transfer blank destination", "transfer,Food,5, ", 1, ErrEmptyCategory},
		{"blank category", "\n\ndeposit, ,5", 3, ErrEmptyCategory},
		{"bad amount", "withdraw,Food,lots", 1, core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantLine, perr.Line)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseMalformedCSV(t *testing.T) {
	_, err := Parse(strings.NewReader("deposit,Food,5\ndeposit,\"Food,5\n"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, 2, perr.Line)
}

func TestReplayExample(t *testing.T) {
	f, err := os.Open("testdata/example.csv")
	require.NoError(t, err)
	defer f.Close()

	svc := services.NewLedgerService(nil, nil, nil, nil)
	res, err := Run(context.Background(), svc, f, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Applied)
	require.Len(t, res.Refused, 1)
	assert.Equal(t, 10, res.Refused[0].Op.Line)

	food, _ := svc.Registry().Lookup("Food")
	clothing, _ := svc.Registry().Lookup("Clothing")
	auto, _ := svc.Registry().Lookup("Auto")
	assert.Equal(t, "923.96", food.Balance().String())
	assert.Equal(t, "24.45", clothing.Balance().String())
	assert.Equal(t, "985.00", auto.Balance().String())
	assert.Equal(t, []string{"Food", "Clothing", "Auto"}, svc.Registry().Names())
}

func TestReplayStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ops := []Op{{Line: 1, Kind: KindOpen, Category: "Food"}}

	res, err := Replay(ctx, services.NewLedgerService(nil, nil, nil, nil), ops, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Applied)
}

func TestRunWrapsParseErrors(t *testing.T) {
	_, err := Run(context.Background(), services.NewLedgerService(nil, nil, nil, nil), strings.NewReader("bogus,x"), nil)
	assert.ErrorContains(t, err, "parse script: line 1")
}

func TestReplayUsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: log.ParseLevel("debug"), Output: &buf})
	ctx := log.NewContext(context.Background(), logger)
	ops := []Op{
		{Line: 1, Kind: KindOpen, Category: "Food"},
		{Line: 2, Kind: KindWithdraw, Category: "Food", Amount: core.Cents(100)},
	}

	res, err := Replay(ctx, services.NewLedgerService(nil, nil, nil, nil), ops, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	require.Len(t, res.Refused, 1)
	assert.Contains(t, buf.String(), "Operation refused")
	assert.Contains(t, buf.String(), "component=script")
}
