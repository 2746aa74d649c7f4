package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget/internal/cache"
	"budget/internal/chart"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

var ErrUnknownCategory = errors.New("unknown category")

// ReportService renders statements and the spending chart. Rendered text is
// cached per ledger length, which is safe because ledgers only grow.
type ReportService struct {
	registry *ledger.Registry
	cache    *cache.LRUCache[string]
	logger   *log.Logger
}

// NewReportService accepts a nil cache, in which case every call renders.
func NewReportService(registry *ledger.Registry, c *cache.LRUCache[string], logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportService{
		registry: registry,
		cache:    c,
		logger:   logger.WithComponent(log.ComponentReport),
	}
}

// Statement renders one account.
func (s *ReportService) Statement(ctx context.Context, name string) (string, error) {
	acct, ok := s.registry.Lookup(name)
	if !ok {
		return "", fmt.Errorf("statement for %q: %w", name, ErrUnknownCategory)
	}
	key := fmt.Sprintf("statement|%q|%d", name, acct.Len())
	return s.cached(ctx, key, func() (string, error) {
		return acct.Render(), nil
	})
}

// Statements renders every account in registration order.
func (s *ReportService) Statements(ctx context.Context) ([]string, error) {
	names := s.registry.Names()
	out := make([]string, 0, len(names))
	for _, name := range names {
		text, err := s.Statement(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

// Chart renders the spending chart for the named accounts in the given
// order, or for every account when names is empty.
func (s *ReportService) Chart(ctx context.Context, names ...string) (string, error) {
	accounts, err := s.resolve(names)
	if err != nil {
		return "", err
	}
	return s.cached(ctx, chartKey(accounts), func() (string, error) {
		return chart.Render(accounts)
	})
}

// ChartFunc renders like Chart and passes every filled bar cell through
// style. Styled output is not cached.
func (s *ReportService) ChartFunc(style func(string) string, names ...string) (string, error) {
	accounts, err := s.resolve(names)
	if err != nil {
		return "", err
	}
	c, err := chart.Build(accounts)
	if err != nil {
		return "", err
	}
	return c.StringFunc(style), nil
}

// Summary totals balance and spending per account from memory.
func (s *ReportService) Summary() core.SpendingSummary {
	var summary core.SpendingSummary
	for _, acct := range s.registry.Accounts() {
		spent := acct.Spent()
		summary.ByCategory = append(summary.ByCategory, core.CategoryAmount{
			Name:    acct.Name(),
			Balance: acct.Balance(),
			Spent:   spent,
		})
		summary.TotalSpent = summary.TotalSpent.Add(spent)
	}
	return summary
}

// WithOpenCategories appends a zero row for every open category that the
// given summary, typically read from the journal, does not mention.
func (s *ReportService) WithOpenCategories(summary core.SpendingSummary) core.SpendingSummary {
	seen := make(map[string]bool, len(summary.ByCategory))
	for _, c := range summary.ByCategory {
		seen[c.Name] = true
	}
	out := core.SpendingSummary{
		TotalSpent: summary.TotalSpent,
		ByCategory: append([]core.CategoryAmount(nil), summary.ByCategory...),
	}
	for _, name := range s.registry.Names() {
		if !seen[name] {
			out.ByCategory = append(out.ByCategory, core.CategoryAmount{Name: name})
		}
	}
	return out
}

func (s *ReportService) resolve(names []string) ([]*ledger.Account, error) {
	if len(names) == 0 {
		return s.registry.Accounts(), nil
	}
	accounts := make([]*ledger.Account, 0, len(names))
	for _, name := range names {
		acct, ok := s.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("chart for %q: %w", name, ErrUnknownCategory)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

func (s *ReportService) cached(ctx context.Context, key string, render func() (string, error)) (string, error) {
	if s.cache == nil {
		return render()
	}
	text, err := s.cache.Fetch(key, render)
	if err != nil {
		return "", err
	}
	s.logger.DebugContext(ctx, "Report served", "key", key)
	return text, nil
}

func chartKey(accounts []*ledger.Account) string {
	var b strings.Builder
	b.WriteString("chart")
	for _, a := range accounts {
		fmt.Fprintf(&b, "|%q:%d", a.Name(), a.Len())
	}
	return b.String()
}
