package core

// Stats aggregates what the persistence medium currently holds.
type Stats struct {
	Expenses    int   `json:"expenses"`
	Days        int   `json:"days"`
	Total       Money `json:"total"`
	ExpenseKeys int   `json:"expense_keys"`
	BudgetKeys  int   `json:"budget_keys"`
}

// AveragePerDay is the mean daily spend across non-empty days.
func (s Stats) AveragePerDay() Money {
	if s.Days == 0 {
		return Money{}
	}
	return Money{Cents: s.Total.Cents / int64(s.Days)}
}
