// Package services sits between the presentation layer and the date-keyed
// store. It is the validation boundary the store trusts: amounts, dates and
// descriptions are checked here before any store operation runs, and the
// remove-then-add sequence that moves an expense between date buckets lives
// here, never in the store.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"dailybaht/internal/core"
	"dailybaht/internal/log"
	"dailybaht/internal/store"
)

var (
	// ErrNotFound reports an expense id absent from the given date bucket.
	ErrNotFound = errors.New("expense not found")
	// ErrStoreFailure reports a store operation that signalled failure.
	ErrStoreFailure = errors.New("storage operation failed")
)

// Tracker orchestrates expense, budget and settings operations.
type Tracker struct {
	store  *store.Store
	logger *log.Logger
	now    func() time.Time
}

func NewTracker(st *store.Store, logger *log.Logger) *Tracker {
	return &Tracker{
		store:  st,
		logger: logger.WithComponent(log.ComponentService),
		now:    time.Now,
	}
}

// UpdateRequest carries an expense edit from the presentation layer.
// Nil fields are left unchanged.
type UpdateRequest struct {
	Amount      *string
	Description *string
	Date        *core.Date
}

// SettingsRequest carries a settings edit. Nil fields are left unchanged.
type SettingsRequest struct {
	DarkMode      *bool
	HomeCurrency  *string
	ExchangeRate  *float64
	DefaultBudget *string
}

// AddExpense validates the raw input, assigns id and timestamp and appends
// the expense to date's bucket.
func (t *Tracker) AddExpense(ctx context.Context, date core.Date, amount, description string) (core.Expense, error) {
	if err := date.Validate(); err != nil {
		return core.Expense{}, err
	}
	money, err := core.ParseMoney(amount)
	if err != nil {
		return core.Expense{}, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return core.Expense{}, core.ErrEmptyDescription
	}

	e := core.Expense{
		ID:          uuid.NewString(),
		Amount:      money,
		Description: description,
		Date:        date,
		Timestamp:   t.now().UTC(),
	}
	if !t.store.AddExpense(ctx, e, date) {
		return core.Expense{}, ErrStoreFailure
	}
	t.logger.InfoContext(ctx, "Expense added",
		log.FieldExpenseID, e.ID,
		log.FieldDate, date.Key(),
		log.FieldAmountCents, e.Amount.Cents,
		log.FieldExpenseDesc, e.Description)
	return e, nil
}

// UpdateExpense applies an edit to the expense with the given id living in
// date's bucket. A content edit (amount or description) refreshes the
// timestamp; a date edit moves the expense to the new bucket via
// delete-then-add and leaves the timestamp alone.
func (t *Tracker) UpdateExpense(ctx context.Context, id string, date core.Date, req UpdateRequest) (core.Expense, error) {
	if err := date.Validate(); err != nil {
		return core.Expense{}, err
	}

	current, ok := t.findExpense(ctx, id, date)
	if !ok {
		return core.Expense{}, ErrNotFound
	}

	patch := core.ExpensePatch{}
	contentChanged := false
	if req.Amount != nil {
		money, err := core.ParseMoney(*req.Amount)
		if err != nil {
			return core.Expense{}, err
		}
		patch.Amount = &money
		contentChanged = contentChanged || money.Cents != current.Amount.Cents
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return core.Expense{}, core.ErrEmptyDescription
		}
		patch.Description = &description
		contentChanged = contentChanged || description != current.Description
	}
	if contentChanged {
		ts := t.now().UTC()
		patch.Timestamp = &ts
	}

	newDate := date
	if req.Date != nil {
		if err := req.Date.Validate(); err != nil {
			return core.Expense{}, err
		}
		newDate = *req.Date
	}

	if newDate.Key() == date.Key() {
		if !t.store.UpdateExpense(ctx, id, patch, date) {
			return core.Expense{}, ErrStoreFailure
		}
		return current.Merge(patch), nil
	}

	// Cross-bucket move: remove from the old bucket, then add the merged
	// expense to the new one. On a failed add the expense is restored to
	// its old bucket so it never ends up in neither.
	patch.Date = &newDate
	updated := current.Merge(patch)
	if !t.store.DeleteExpense(ctx, id, date) {
		return core.Expense{}, ErrStoreFailure
	}
	if !t.store.AddExpense(ctx, updated, newDate) {
		t.store.AddExpense(ctx, current, date)
		return core.Expense{}, ErrStoreFailure
	}
	t.logger.InfoContext(ctx, "Expense moved",
		log.FieldOperation, log.OpMove,
		log.FieldExpenseID, id,
		"from", date.Key(),
		"to", newDate.Key())
	return updated, nil
}

// DeleteExpense removes the expense with the given id from date's bucket.
// An id that is not there is a successful no-op, matching the store.
func (t *Tracker) DeleteExpense(ctx context.Context, id string, date core.Date) error {
	if err := date.Validate(); err != nil {
		return err
	}
	if !t.store.DeleteExpense(ctx, id, date) {
		return ErrStoreFailure
	}
	t.logger.InfoContext(ctx, "Expense deleted",
		log.FieldExpenseID, id, log.FieldDate, date.Key())
	return nil
}

// Expenses returns date's expense list.
func (t *Tracker) Expenses(ctx context.Context, date core.Date) ([]core.Expense, error) {
	if err := date.Validate(); err != nil {
		return nil, err
	}
	return t.store.LoadExpenses(ctx, date), nil
}

// Budget returns the budget in effect for date.
func (t *Tracker) Budget(ctx context.Context, date core.Date) (core.Money, error) {
	if err := date.Validate(); err != nil {
		return core.Money{}, err
	}
	return t.store.LoadBudget(ctx, date), nil
}

// SetBudget validates and stores a budget for date.
func (t *Tracker) SetBudget(ctx context.Context, date core.Date, amount string) (core.Money, error) {
	if err := date.Validate(); err != nil {
		return core.Money{}, err
	}
	budget, err := core.ParseMoney(amount)
	if err != nil {
		return core.Money{}, err
	}
	if !t.store.SaveBudget(ctx, budget, date) {
		return core.Money{}, ErrStoreFailure
	}
	return budget, nil
}

// Day returns the derived summary for one date.
func (t *Tracker) Day(ctx context.Context, date core.Date) (core.DaySummary, error) {
	if err := date.Validate(); err != nil {
		return core.DaySummary{}, err
	}
	expenses := t.store.LoadExpenses(ctx, date)
	return core.NewDaySummary(date, expenses, t.store.LoadBudget(ctx, date)), nil
}

// History returns every non-empty day, newest first.
func (t *Tracker) History(ctx context.Context) []core.DaySummary {
	return t.store.AllExpenseData(ctx)
}

// Stats returns storage totals.
func (t *Tracker) Stats(ctx context.Context) core.Stats {
	return t.store.Stats(ctx)
}

// Settings returns the current settings.
func (t *Tracker) Settings(ctx context.Context) core.Settings {
	return t.store.Settings(ctx)
}

// UpdateSettings validates and applies a settings edit.
func (t *Tracker) UpdateSettings(ctx context.Context, req SettingsRequest) (core.Settings, error) {
	settings := t.store.Settings(ctx)
	if req.DarkMode != nil {
		settings.DarkMode = *req.DarkMode
	}
	if req.HomeCurrency != nil {
		settings.HomeCurrency = strings.ToUpper(strings.TrimSpace(*req.HomeCurrency))
	}
	if req.ExchangeRate != nil {
		settings.ExchangeRate = *req.ExchangeRate
	}
	if req.DefaultBudget != nil {
		budget, err := core.ParseMoney(*req.DefaultBudget)
		if err != nil {
			return core.Settings{}, err
		}
		settings.DefaultBudget = budget
	}
	if err := settings.Validate(); err != nil {
		return core.Settings{}, err
	}
	if !t.store.SaveSettings(ctx, settings) {
		return core.Settings{}, ErrStoreFailure
	}
	return settings, nil
}

// ClearData wipes expenses and budgets, leaving settings intact.
func (t *Tracker) ClearData(ctx context.Context) error {
	if !t.store.ClearAll(ctx) {
		return ErrStoreFailure
	}
	return nil
}

func (t *Tracker) findExpense(ctx context.Context, id string, date core.Date) (core.Expense, bool) {
	for _, e := range t.store.LoadExpenses(ctx, date) {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}
