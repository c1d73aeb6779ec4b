package store

import (
	"strings"

	"dailybaht/internal/core"
)

// The key scheme of the persistence medium. Every date produces one key per
// namespace; settings live under a fixed singleton key outside the date
// scheme. The store is the only code that builds or parses these keys.
const (
	expensesPrefix = "expenses_"
	budgetPrefix   = "budget_"
	settingsKey    = "app_settings"
)

// Singleton keys written by earlier versions of the tracker, kept in
// parallel with the combined settings object back then. The migration pass
// folds them into app_settings and removes them.
const (
	legacyDarkModeKey      = "darkMode"
	legacyHomeCurrencyKey  = "homeCurrency"
	legacyExchangeRateKey  = "exchangeRate"
	legacyDefaultBudgetKey = "defaultBudget"
)

func expenseKey(d core.Date) string {
	return expensesPrefix + d.Key()
}

func budgetKey(d core.Date) string {
	return budgetPrefix + d.Key()
}

// dateFromExpenseKey recovers the calendar date an expense key belongs to.
func dateFromExpenseKey(key string) (core.Date, error) {
	return core.ParseDate(strings.TrimPrefix(key, expensesPrefix))
}
