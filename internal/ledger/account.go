// Package ledger implements per-category accounts backed by an append-only
// ledger of signed entries.
//
// Accounts are plain in-memory values: no locking and no I/O. Callers that
// share an account between goroutines must serialize access themselves.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"budget/internal/core"
)

// Statement layout.
const (
	HeaderWidth      = 30
	DescriptionWidth = 23
	AmountWidth      = 7
	HeaderPad        = "*"
)

// ErrInsufficientFunds is returned by callers that turn a refused withdrawal
// or transfer into an error. Account itself reports refusals as false.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Entry is one immutable ledger line. Positive amounts are deposits,
// negative amounts withdrawals.
type Entry struct {
	Amount      core.Money
	Description string
}

// Account is a named spending category with its ledger.
type Account struct {
	name   string
	ledger []Entry
}

// NewAccount returns an empty account. It is not registered anywhere; see
// Registry for name-based lookup.
func NewAccount(name string) *Account {
	return &Account{name: name}
}

func (a *Account) Name() string { return a.name }

// Len returns the number of entries in the ledger.
func (a *Account) Len() int { return len(a.ledger) }

// Entries returns a copy of the ledger in insertion order.
func (a *Account) Entries() []Entry {
	out := make([]Entry, len(a.ledger))
	copy(out, a.ledger)
	return out
}

// Deposit appends amount unconditionally. Negative amounts are accepted and
// lower the balance.
func (a *Account) Deposit(amount core.Money, description string) {
	a.ledger = append(a.ledger, Entry{Amount: amount, Description: description})
}

// Withdraw appends -|amount| when amount does not exceed the balance and
// reports whether it did. A refused withdrawal leaves the ledger untouched.
func (a *Account) Withdraw(amount core.Money, description string) bool {
	if !a.CheckFunds(amount) {
		return false
	}
	a.ledger = append(a.ledger, Entry{Amount: amount.Abs().Neg(), Description: description})
	return true
}

// Transfer moves amount to dest when the funds are available. Both ledgers
// change or neither does.
func (a *Account) Transfer(amount core.Money, dest *Account) bool {
	if dest == nil || !a.CheckFunds(amount) {
		return false
	}
	a.Withdraw(amount, "Transfer to "+dest.name)
	dest.Deposit(amount, "Transfer from "+a.name)
	return true
}

// Balance sums the ledger. It is recomputed on every call.
func (a *Account) Balance() core.Money {
	var total core.Money
	for _, e := range a.ledger {
		total = total.Add(e.Amount)
	}
	return total
}

// CheckFunds reports whether amount <= Balance().
func (a *Account) CheckFunds(amount core.Money) bool {
	return amount.LessOrEqual(a.Balance())
}

// Spent is the withdrawal total: the sum of |amount| over negative entries.
// A negative deposit is indistinguishable from a withdrawal once appended and
// counts too.
func (a *Account) Spent() core.Money {
	var total core.Money
	for _, e := range a.ledger {
		if e.Amount.IsNegative() {
			total = total.Add(e.Amount.Abs())
		}
	}
	return total
}

// Render formats the account statement:
//
//	*************Food*************
//	initial deposit        1000.00
//	groceries               -10.15
//	Total: 989.85
func (a *Account) Render() string {
	var b strings.Builder
	b.WriteString(center(a.name, HeaderWidth, HeaderPad))
	for _, e := range a.ledger {
		fmt.Fprintf(&b, "\n%-*s%*s",
			DescriptionWidth, truncate(e.Description, DescriptionWidth),
			AmountWidth, e.Amount.String())
	}
	fmt.Fprintf(&b, "\nTotal: %s", a.Balance())
	return b.String()
}

func (a *Account) String() string { return a.Render() }

// center pads s on both sides to width runes; the odd pad goes right.
func center(s string, width int, pad string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(pad, left) + s + strings.Repeat(pad, right)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
