// Package store implements the date-keyed store: it maps calendar dates to
// (budget, expense list) pairs in a flat key-value medium and provides CRUD
// plus full-history aggregation by enumerating every persisted key.
//
// Failure semantics: nothing escapes this package as an error under normal
// operation. Reads that fail resolve to empty/default results, writes that
// fail report false; either way the failure is logged here at the boundary.
// With local single-user storage there is no recovery path beyond keeping
// the previous state, so hard failures would buy callers nothing.
package store

import (
	"context"
	"encoding/json"
	"sort"

	"dailybaht/internal/core"
	"dailybaht/internal/kv"
	"dailybaht/internal/log"
)

// Store is the date-keyed store over an injected key-value medium.
type Store struct {
	kv       kv.Store
	defaults core.Settings
	logger   *log.Logger
}

// New creates a Store. defaults supplies the settings used until the user
// saves their own (and the default daily budget fallback within them).
func New(medium kv.Store, defaults core.Settings, logger *log.Logger) *Store {
	return &Store{
		kv:       medium,
		defaults: defaults,
		logger:   logger.WithComponent(log.ComponentStore),
	}
}

// LoadExpenses returns the expense list stored for date. Absent keys and
// undecodable values both resolve to an empty list.
func (s *Store) LoadExpenses(ctx context.Context, date core.Date) []core.Expense {
	raw, ok, err := s.kv.Get(ctx, expenseKey(date))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read expense list",
			log.FieldOperation, log.OpLoad, log.FieldDate, date.Key(), log.FieldError, err)
		return []core.Expense{}
	}
	if !ok {
		return []core.Expense{}
	}
	var expenses []core.Expense
	if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
		s.logger.ErrorContext(ctx, "Stored expense list is malformed, treating as empty",
			log.FieldOperation, log.OpLoad, log.FieldDate, date.Key(), log.FieldError, err)
		return []core.Expense{}
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return expenses
}

// SaveExpenses replaces the whole expense list stored for date.
func (s *Store) SaveExpenses(ctx context.Context, expenses []core.Expense, date core.Date) bool {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to serialize expense list",
			log.FieldOperation, log.OpSave, log.FieldDate, date.Key(), log.FieldError, err)
		return false
	}
	if err := s.kv.Set(ctx, expenseKey(date), string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write expense list",
			log.FieldOperation, log.OpSave, log.FieldDate, date.Key(), log.FieldError, err)
		return false
	}
	s.logger.DebugContext(ctx, "Expenses saved",
		log.FieldDate, date.Key(), log.FieldCount, len(expenses))
	return true
}

// AddExpense appends one expense to date's bucket via read-modify-write.
// The sequence is not protected against a second concurrent writer; the
// usage model is one process, one caller at a time.
func (s *Store) AddExpense(ctx context.Context, e core.Expense, date core.Date) bool {
	expenses := s.LoadExpenses(ctx, date)
	return s.SaveExpenses(ctx, append(expenses, e), date)
}

// UpdateExpense merges patch into the expense with the given id inside
// date's bucket. Fields not present in the patch survive. An unknown id is
// a no-op that still reports the save result.
//
// The store never moves an entry between buckets: a patch whose date
// differs from the bucket it lives in is refused, keeping the stored-under
// key and the date field in agreement. Movers delete from the old bucket
// and add to the new one.
func (s *Store) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch, date core.Date) bool {
	if patch.Date != nil && patch.Date.Key() != date.Key() {
		s.logger.WarnContext(ctx, "Refusing cross-bucket date change in update",
			log.FieldOperation, log.OpUpdate, log.FieldExpenseID, id,
			log.FieldDate, date.Key(), "patch_date", patch.Date.Key())
		return false
	}
	expenses := s.LoadExpenses(ctx, date)
	for i := range expenses {
		if expenses[i].ID == id {
			expenses[i] = expenses[i].Merge(patch)
		}
	}
	return s.SaveExpenses(ctx, expenses, date)
}

// DeleteExpense removes the expense with the given id from date's bucket.
// Deleting an id that is not there succeeds and leaves the list unchanged.
func (s *Store) DeleteExpense(ctx context.Context, id string, date core.Date) bool {
	expenses := s.LoadExpenses(ctx, date)
	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.SaveExpenses(ctx, kept, date)
}

// LoadBudget returns the budget stored for date, or the configured default
// budget when none is stored or the stored text does not parse.
func (s *Store) LoadBudget(ctx context.Context, date core.Date) core.Money {
	raw, ok, err := s.kv.Get(ctx, budgetKey(date))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read budget",
			log.FieldOperation, log.OpLoad, log.FieldDate, date.Key(), log.FieldError, err)
		return s.Settings(ctx).DefaultBudget
	}
	if !ok {
		return s.Settings(ctx).DefaultBudget
	}
	budget, err := core.ParseMoney(raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "Stored budget is malformed, using default",
			log.FieldOperation, log.OpLoad, log.FieldDate, date.Key(), log.FieldError, err)
		return s.Settings(ctx).DefaultBudget
	}
	return budget
}

// SaveBudget writes the budget for date as decimal text. Positivity is the
// caller's responsibility; the store persists what it is given.
func (s *Store) SaveBudget(ctx context.Context, budget core.Money, date core.Date) bool {
	if err := s.kv.Set(ctx, budgetKey(date), budget.Decimal()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write budget",
			log.FieldOperation, log.OpSave, log.FieldDate, date.Key(), log.FieldError, err)
		return false
	}
	s.logger.DebugContext(ctx, "Budget saved",
		log.FieldDate, date.Key(), log.FieldAmountCents, budget.Cents)
	return true
}

// AllExpenseData reconstructs the full history: every date with at least
// one expense, with that day's budget and totals, newest first. There is no
// index; each call scans every key under the expense namespace, which is
// fine at personal-tracker scale.
func (s *Store) AllExpenseData(ctx context.Context) []core.DaySummary {
	keys, err := s.kv.Keys(ctx, expensesPrefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enumerate expense keys",
			log.FieldOperation, log.OpScan, log.FieldError, err)
		return []core.DaySummary{}
	}

	history := make([]core.DaySummary, 0, len(keys))
	for _, key := range keys {
		date, err := dateFromExpenseKey(key)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping expense key with unparseable date",
				log.FieldOperation, log.OpScan, log.FieldKey, key, log.FieldError, err)
			continue
		}
		expenses := s.LoadExpenses(ctx, date)
		if len(expenses) == 0 {
			continue
		}
		history = append(history, core.NewDaySummary(date, expenses, s.LoadBudget(ctx, date)))
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history
}

// ClearAll removes every key under the expense and budget namespaces.
// Settings survive.
func (s *Store) ClearAll(ctx context.Context) bool {
	ok := true
	for _, prefix := range []string{expensesPrefix, budgetPrefix} {
		keys, err := s.kv.Keys(ctx, prefix)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to enumerate keys for clear",
				log.FieldOperation, log.OpClear, log.FieldNamespace, prefix, log.FieldError, err)
			ok = false
			continue
		}
		for _, key := range keys {
			if err := s.kv.Delete(ctx, key); err != nil {
				s.logger.ErrorContext(ctx, "Failed to delete key",
					log.FieldOperation, log.OpClear, log.FieldKey, key, log.FieldError, err)
				ok = false
			}
		}
	}
	if ok {
		s.logger.InfoContext(ctx, "All expense and budget data cleared")
	}
	return ok
}

// Stats summarizes what the medium currently holds: expense and day counts,
// the grand total and per-namespace key counts.
func (s *Store) Stats(ctx context.Context) core.Stats {
	var stats core.Stats

	expenseKeys, err := s.kv.Keys(ctx, expensesPrefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enumerate expense keys for stats",
			log.FieldOperation, log.OpScan, log.FieldError, err)
		return stats
	}
	stats.ExpenseKeys = len(expenseKeys)

	for _, key := range expenseKeys {
		date, err := dateFromExpenseKey(key)
		if err != nil {
			continue
		}
		expenses := s.LoadExpenses(ctx, date)
		if len(expenses) == 0 {
			continue
		}
		stats.Days++
		stats.Expenses += len(expenses)
		for _, e := range expenses {
			stats.Total.Cents += e.Amount.Cents
		}
	}

	budgetKeys, err := s.kv.Keys(ctx, budgetPrefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enumerate budget keys for stats",
			log.FieldOperation, log.OpScan, log.FieldError, err)
		return stats
	}
	stats.BudgetKeys = len(budgetKeys)
	return stats
}

// Initialize runs the startup sequence: the validation/migration pass,
// persisting default settings when none exist, ensuring today's budget key
// is present, and logging what the medium holds.
func (s *Store) Initialize(ctx context.Context) core.Stats {
	migrated := s.ValidateAndMigrate(ctx)

	if _, ok, err := s.kv.Get(ctx, settingsKey); err == nil && !ok {
		s.SaveSettings(ctx, s.Settings(ctx))
	}

	today := core.Today()
	if _, ok, err := s.kv.Get(ctx, budgetKey(today)); err == nil && !ok {
		s.SaveBudget(ctx, s.LoadBudget(ctx, today), today)
	}

	stats := s.Stats(ctx)
	s.logger.InfoContext(ctx, "Storage initialized",
		log.FieldOperation, log.OpStartup,
		"migrated_keys", migrated,
		"expenses", stats.Expenses,
		"days", stats.Days,
		log.FieldAmountCents, stats.Total.Cents,
		"expense_keys", stats.ExpenseKeys,
		"budget_keys", stats.BudgetKeys)
	return stats
}
