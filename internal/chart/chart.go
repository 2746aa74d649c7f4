// Package chart renders the share of spending per category as a vertical
// text bar chart:
//
//	Percentage spent by category
//	100|
//	...
//	 10| o  o  o
//	  0| o  o  o
//	    --------
//	     F  C  A
//	     o  l  u
//	...
//
// Bars and names are laid out on Grids and serialized row by row.
package chart

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

const (
	Title     = "Percentage spent by category"
	Fill      = "o"
	Blank     = " "
	Separator = "  "

	// Step is the percentage covered by one bar cell.
	Step = 10
	// Levels is the number of axis rows, 100 down to 0.
	Levels = 100/Step + 1

	axisGap    = " "
	rulePrefix = "    "
	namePrefix = "     "
)

var (
	ErrNoCategories = errors.New("chart: no categories")
	ErrNoSpending   = errors.New("chart: total spending is zero")
)

// Spender is anything with a name and a withdrawal total, typically a
// *ledger.Account.
type Spender interface {
	Name() string
	Spent() core.Money
}

// Bar is one category's column.
type Bar struct {
	Name    string
	Spent   core.Money
	Percent int // share of total spending, rounded to the nearest Step
	Height  int // filled cells, Percent/Step
}

// Chart is a laid-out chart ready to serialize.
type Chart struct {
	Bars  []Bar
	Body  *Grid // Levels rows, row 0 is the 100 line
	Names *Grid // one row per character of the longest name
}

// Share returns spent/total as a percentage rounded to the nearest multiple
// of Step, halves away from zero: 54.9 -> 50, 55 -> 60, 7.35 -> 10.
// total must be positive.
func Share(spent, total core.Money) int {
	pct := spent.Decimal().Div(total.Decimal()).Mul(decimal.NewFromInt(100))
	return int(pct.Div(decimal.NewFromInt(Step)).Round(0).IntPart()) * Step
}

// BarsFor computes the bars for accounts in the given order.
func BarsFor[S Spender](accounts []S) ([]Bar, error) {
	if len(accounts) == 0 {
		return nil, ErrNoCategories
	}
	bars := make([]Bar, len(accounts))
	var total core.Money
	for i, a := range accounts {
		bars[i] = Bar{Name: a.Name(), Spent: a.Spent()}
		total = total.Add(bars[i].Spent)
	}
	if total.Cents <= 0 {
		return nil, ErrNoSpending
	}
	for i := range bars {
		bars[i].Percent = Share(bars[i].Spent, total)
		bars[i].Height = bars[i].Percent / Step
	}
	return bars, nil
}

// Build lays out the chart for accounts.
func Build[S Spender](accounts []S) (*Chart, error) {
	bars, err := BarsFor(accounts)
	if err != nil {
		return nil, err
	}
	return Layout(bars), nil
}

// Render is Build followed by String.
func Render[S Spender](accounts []S) (string, error) {
	c, err := Build(accounts)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Layout fills the body and name grids from bars.
func Layout(bars []Bar) *Chart {
	body := NewGrid(Levels, len(bars))
	for col, b := range bars {
		for h := 0; h < b.Height && h < Levels; h++ {
			body.Set(Levels-1-h, col, Fill)
		}
	}

	longest := 0
	for _, b := range bars {
		if n := utf8.RuneCountInString(b.Name); n > longest {
			longest = n
		}
	}
	names := NewGrid(longest, len(bars))
	for col, b := range bars {
		for row, r := range []rune(b.Name) {
			names.Set(row, col, string(r))
		}
	}

	return &Chart{Bars: bars, Body: body, Names: names}
}

// String serializes the chart. Rows are joined with "\n" and there is no
// trailing newline.
func (c *Chart) String() string {
	return c.StringFunc(nil)
}

// StringFunc serializes the chart passing every filled bar cell through
// style, e.g. to colorize it for a terminal.
func (c *Chart) StringFunc(style func(string) string) string {
	var cellStyle func(int, string) string
	if style != nil {
		cellStyle = func(_ int, cell string) string {
			if cell == Fill {
				return style(cell)
			}
			return cell
		}
	}

	lines := make([]string, 0, 2+c.Body.Rows()+c.Names.Rows())
	lines = append(lines, Title)
	for row := 0; row < c.Body.Rows(); row++ {
		label := fmt.Sprintf("%3d|", AxisLabel(row))
		lines = append(lines, label+axisGap+c.Body.RowFunc(row, Separator, cellStyle))
	}
	lines = append(lines, rulePrefix+strings.Repeat("-", RuleWidth(len(c.Bars))))
	for row := 0; row < c.Names.Rows(); row++ {
		lines = append(lines, namePrefix+c.Names.Row(row, Separator))
	}
	return strings.Join(lines, "\n")
}

// AxisLabel returns the percentage printed on body row.
func AxisLabel(row int) int {
	return 100 - row*Step
}

// RuleWidth is the dash count under the bars for n categories.
func RuleWidth(n int) int {
	return 2*n + 2
}
