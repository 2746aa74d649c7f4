package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleChart = `Percentage spent by category
100|        
 90|        
 80|        
 70|        
 60| o      
 50| o      
 40| o      
 30| o      
 20| o      
 10| o  o   
  0| o  o  o
    --------
     F  C  A
     o  l  u
     o  o  t
     d  t  o
        h   
        i   
        n   
        g   `

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EXPORT_BACKEND", "none")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("JOURNAL_ENABLED", "true")
	t.Setenv("JOURNAL_DSN", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestDemoPrintsStatementsAndChart(t *testing.T) {
	quietEnv(t)
	out, _, err := run(t, "", "demo")
	require.NoError(t, err)

	food := strings.Join([]string{
		"*************Food*************",
		"deposit                 900.00",
		"milk, cereal, eggs, bac -45.67",
		"restaurant              -39.88",
		"Transfer to Clothing    -20.00",
		"Total: 794.45",
	}, "\n")
	assert.True(t, strings.HasPrefix(out, food+"\n\n"), out)
	assert.Contains(t, out, "Transfer from Food       20.00\njacket                  -33.00\nTotal: 187.00")
	assert.True(t, strings.HasSuffix(out, exampleChart+"\n"), out)
}

func TestChartFromStdin(t *testing.T) {
	quietEnv(t)
	out, _, err := run(t, demoScript, "chart", "-")
	require.NoError(t, err)
	assert.Equal(t, exampleChart+"\n", out)
}

func TestChartSelectedCategories(t *testing.T) {
	quietEnv(t)
	out, _, err := run(t, demoScript, "chart", "--categories", "Auto, Food", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "\n    ------\n     A  F\n")
}

func TestReplayReportsRefusals(t *testing.T) {
	quietEnv(t)
	path := filepath.Join(t.TempDir(), "ops.csv")
	require.NoError(t, os.WriteFile(path, []byte("deposit,Food,10\nwithdraw,Food,11,too much\nwithdraw,Food,4\n"), 0o644))

	out, errOut, err := run(t, "", "replay", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "line 2: withdraw 11.00 from Food: insufficient funds")
	assert.Contains(t, out, "Total: 6.00")
	assert.True(t, strings.HasSuffix(out, "  0| o\n    ----\n     F\n     o\n     o\n     d\n"), out)
}

func TestSummaryFromJournal(t *testing.T) {
	quietEnv(t)
	out, _, err := run(t, demoScript, "summary", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"Food", "794.45", "105.55"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Clothing", "187.00", "33.00"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Total", "149.54"}, strings.Fields(lines[4]))
}

func TestSummaryWithoutJournal(t *testing.T) {
	quietEnv(t)
	t.Setenv("JOURNAL_ENABLED", "false")
	out, _, err := run(t, demoScript, "summary", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "149.54")
}

func TestSummaryTransferToSameCategory(t *testing.T) {
	const input = "deposit,Food,100,deposit\nwithdraw,Food,5,snack\ntransfer,Food,10,Food\n"
	for _, journal := range []string{"true", "false"} {
		t.Run("journal="+journal, func(t *testing.T) {
			quietEnv(t)
			t.Setenv("JOURNAL_ENABLED", journal)
			out, _, err := run(t, input, "summary", "-")
			require.NoError(t, err)

			lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
			require.Len(t, lines, 3)
			assert.Equal(t, []string{"Food", "95.00", "15.00"}, strings.Fields(lines[1]))
			assert.Equal(t, []string{"Total", "15.00"}, strings.Fields(lines[2]))
		})
	}
}

func TestSummaryListsOpenCategoriesWithoutEntries(t *testing.T) {
	quietEnv(t)
	out, _, err := run(t, "open,Rent\ndeposit,Food,10,deposit\nwithdraw,Food,4,lunch\n", "summary", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Food", "6.00", "4.00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Rent", "0.00", "0.00"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Total", "4.00"}, strings.Fields(lines[3]))
}

func TestHistory(t *testing.T) {
	quietEnv(t)
	out, _, err := run(t, demoScript, "history", "-", "Clothing")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Seq", "Description", "Amount"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "deposit", "200.00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "Transfer", "from", "Food", "20.00"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"3", "jacket", "-33.00"}, strings.Fields(lines[3]))

	t.Setenv("JOURNAL_ENABLED", "false")
	_, _, err = run(t, demoScript, "history", "-", "Clothing")
	assert.ErrorIs(t, err, errJournalDisabled)
}

func TestErrors(t *testing.T) {
	quietEnv(t)

	_, _, err := run(t, "", "replay", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "open script")

	_, _, err = run(t, "refund,Food,1\n", "chart", "-")
	assert.ErrorContains(t, err, "parse script: line 1")

	_, _, err = run(t, "deposit,Food,5\n", "chart", "-")
	assert.ErrorContains(t, err, "total spending is zero")

	t.Setenv("EXPORT_BACKEND", "postgres")
	_, _, err = run(t, "", "demo")
	assert.ErrorContains(t, err, "invalid export backend")
}

func TestColorHighlightsBars(t *testing.T) {
	quietEnv(t)
	out, _, err := run(t, demoScript, "--color", "chart", "-")
	require.NoError(t, err)
	// lipgloss drops styling when output is not a terminal, so the text
	// contract still holds.
	assert.Contains(t, out, "Percentage spent by category")
	assert.Contains(t, out, "--------")
}
