package chart

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
	"budget/internal/ledger"
)

func spend(name, deposit string, withdrawals ...string) *ledger.Account {
	a := ledger.NewAccount(name)
	a.Deposit(core.MustParseAmount(deposit), "deposit")
	for _, w := range withdrawals {
		if !a.Withdraw(core.MustParseAmount(w), "spend") {
			panic("test setup: withdrawal refused")
		}
	}
	return a
}

func exampleAccounts() []*ledger.Account {
	return []*ledger.Account{
		spend("Food", "900", "105.55"),
		spend("Clothing", "900", "33"),
		spend("Auto", "900", "10.99"),
	}
}

func TestRenderExample(t *testing.T) {
	want := strings.Join([]string{
		"Percentage spent by category",
		"100|        ",
		" 90|        ",
		" 80|        ",
		" 70|        ",
		" 60| o      ",
		" 50| o      ",
		" 40| o      ",
		" 30| o      ",
		" 20| o      ",
		" 10| o  o   ",
		"  0| o  o  o",
		"    --------",
		"     F  C  A",
		"     o  l  u",
		"     o  o  t",
		"     d  t  o",
		"        h   ",
		"        i   ",
		"        n   ",
		"        g   ",
	}, "\n")

	got, err := Render(exampleAccounts())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBarsForExample(t *testing.T) {
	bars, err := BarsFor(exampleAccounts())
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, Bar{Name: "Food", Spent: core.Cents(10555), Percent: 70, Height: 7}, bars[0])
	assert.Equal(t, Bar{Name: "Clothing", Spent: core.Cents(3300), Percent: 20, Height: 2}, bars[1])
	assert.Equal(t, Bar{Name: "Auto", Spent: core.Cents(1099), Percent: 10, Height: 1}, bars[2])
}

func TestShareRoundsToNearestTen(t *testing.T) {
	cases := []struct {
		spent int64
		total int64
		want  int
	}{
		{54, 100, 50},
		{55, 100, 60},
		{5, 100, 10},
		{4, 100, 0},
		{1099, 14954, 10},
		{10555, 14954, 70},
		{3300, 14954, 20},
		{100, 100, 100},
		{0, 100, 0},
		{1, 3, 30},
		{2, 3, 70},
	}
	for _, tc := range cases {
		got := Share(core.Cents(tc.spent), core.Cents(tc.total))
		assert.Equal(t, tc.want, got, "Share(%d, %d)", tc.spent, tc.total)
	}
}

func TestBarsIgnoreDeposits(t *testing.T) {
	rich := spend("Rich", "100000", "10")
	poor := spend("Poor", "10", "10")

	bars, err := BarsFor([]*ledger.Account{rich, poor})
	require.NoError(t, err)
	assert.Equal(t, 50, bars[0].Percent)
	assert.Equal(t, 50, bars[1].Percent)
}

func TestBarsCountTransfersAsSpending(t *testing.T) {
	food := spend("Food", "100")
	clothing := ledger.NewAccount("Clothing")
	require.True(t, food.Transfer(core.MustParseAmount("25"), clothing))

	bars, err := BarsFor([]*ledger.Account{food, clothing})
	require.NoError(t, err)
	assert.Equal(t, 100, bars[0].Percent)
	assert.Equal(t, 0, bars[1].Percent)
}

func TestRenderErrors(t *testing.T) {
	_, err := Render([]*ledger.Account{})
	assert.True(t, errors.Is(err, ErrNoCategories))

	_, err = Render([]*ledger.Account{spend("Food", "10"), spend("Auto", "5")})
	assert.True(t, errors.Is(err, ErrNoSpending))
}

func TestLayoutBodyGrid(t *testing.T) {
	c := Layout([]Bar{{Name: "A", Height: 10}, {Name: "B", Height: 0}, {Name: "C", Height: 3}})

	require.Equal(t, Levels, c.Body.Rows())
	require.Equal(t, 3, c.Body.Cols())
	// ten cells leave the 100 row empty
	assert.Equal(t, Blank, c.Body.Cell(0, 0))
	for row := 1; row < Levels; row++ {
		assert.Equal(t, Fill, c.Body.Cell(row, 0), "row %d col A", row)
	}
	for row := 0; row < Levels; row++ {
		assert.Equal(t, Blank, c.Body.Cell(row, 1), "row %d col B", row)
	}
	assert.Equal(t, Blank, c.Body.Cell(7, 2))
	assert.Equal(t, Fill, c.Body.Cell(8, 2))
	assert.Equal(t, Fill, c.Body.Cell(10, 2))
}

func TestLayoutNameGrid(t *testing.T) {
	c := Layout([]Bar{{Name: "Food"}, {Name: "Go"}, {Name: ""}})

	require.Equal(t, 4, c.Names.Rows())
	assert.Equal(t, "F", c.Names.Cell(0, 0))
	assert.Equal(t, "G", c.Names.Cell(0, 1))
	assert.Equal(t, "o", c.Names.Cell(1, 1))
	assert.Equal(t, Blank, c.Names.Cell(2, 1))
	assert.Equal(t, Blank, c.Names.Cell(0, 2))
	assert.Equal(t, "d", c.Names.Cell(3, 0))
}

func TestSingleCategoryFillsTenRows(t *testing.T) {
	got, err := Render([]*ledger.Account{spend("Gas", "50", "20")})
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 1+Levels+1+3)
	assert.Equal(t, "100|  ", lines[1])
	assert.Equal(t, " 90| o", lines[2])
	assert.Equal(t, "  0| o", lines[11])
	assert.Equal(t, "    ----", lines[12])
	assert.Equal(t, "     G", lines[13])
	assert.Equal(t, "     s", lines[15])
}

func TestRuleWidth(t *testing.T) {
	assert.Equal(t, 4, RuleWidth(1))
	assert.Equal(t, 8, RuleWidth(3))
	assert.Equal(t, 10, RuleWidth(4))
}

func TestAxisLabel(t *testing.T) {
	assert.Equal(t, 100, AxisLabel(0))
	assert.Equal(t, 50, AxisLabel(5))
	assert.Equal(t, 0, AxisLabel(Levels-1))
}

func TestStringFuncStylesOnlyBarCells(t *testing.T) {
	c, err := Build([]*ledger.Account{spend("Food", "10", "10")})
	require.NoError(t, err)

	styled := c.StringFunc(func(s string) string { return "[" + s + "]" })
	assert.Contains(t, styled, "  0| [o]")
	assert.Contains(t, styled, "     o")
	assert.NotContains(t, styled, "[F]")
	assert.Equal(t, c.String(), c.StringFunc(nil))
}

func TestRenderIsIdempotent(t *testing.T) {
	accounts := exampleAccounts()
	first, err := Render(accounts)
	require.NoError(t, err)
	second, err := Render(accounts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
