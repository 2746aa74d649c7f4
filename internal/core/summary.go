package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name    string
	Balance Money
	Spent   Money
}

// SpendingSummary is the per-category view of a journal.
type SpendingSummary struct {
	TotalSpent Money
	ByCategory []CategoryAmount
}
