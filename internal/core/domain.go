package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar day with no time component. The zero value is "no date".
	Date struct {
		time.Time
	}

	// Money is an amount of tracked currency (baht) in satang.
	Money struct {
		Cents int64
	}

	// Expense is one logged transaction. Date is the day the expense is
	// attributed to and may differ from the day of Timestamp.
	Expense struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		Timestamp   time.Time `json:"timestamp"`
	}

	// ExpensePatch carries the fields of an expense edit. Nil fields are
	// left untouched by a merge.
	ExpensePatch struct {
		Amount      *Money
		Description *string
		Date        *Date
		Timestamp   *time.Time
	}

	// Settings is the process-wide configuration persisted under a single key.
	// ExchangeRate is home-currency units per one baht.
	Settings struct {
		DarkMode      bool    `json:"dark_mode"`
		HomeCurrency  string  `json:"home_currency"`
		ExchangeRate  float64 `json:"exchange_rate"`
		DefaultBudget Money   `json:"default_budget"`
	}

	// DaySummary is the derived view of one date bucket: its expenses, the
	// budget in effect and the spent/remaining totals.
	DaySummary struct {
		Date       Date      `json:"date"`
		Expenses   []Expense `json:"expenses"`
		Budget     Money     `json:"budget"`
		TotalSpent Money     `json:"total_spent"`
		Remaining  Money     `json:"remaining"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidDate       = errors.New("invalid date")
	ErrMissingID         = errors.New("missing expense id")
	ErrInvalidRate       = errors.New("invalid exchange rate")
	ErrEmptyCurrencyCode = errors.New("empty currency code")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month and day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses the canonical YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Key returns the canonical, locale-independent storage form of the date.
func (d Date) Key() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Before and After compare calendar days.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Key() + `"`), nil
}

// UnmarshalJSON accepts the canonical form, an empty string or null. The
// latter two decode to the zero date so that records persisted before the
// date field existed remain loadable.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}

// Merge applies the non-nil fields of a patch and returns the result.
func (e Expense) Merge(p ExpensePatch) Expense {
	out := e
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.Timestamp != nil {
		out.Timestamp = *p.Timestamp
	}
	return out
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.HomeCurrency) == "" {
		return ErrEmptyCurrencyCode
	}
	if s.ExchangeRate <= 0 {
		return ErrInvalidRate
	}
	if err := s.DefaultBudget.Validate(); err != nil {
		return err
	}
	return nil
}

// NewDaySummary derives the per-day totals for a date bucket.
func NewDaySummary(date Date, expenses []Expense, budget Money) DaySummary {
	var spent int64
	for _, e := range expenses {
		spent += e.Amount.Cents
	}
	return DaySummary{
		Date:       date,
		Expenses:   expenses,
		Budget:     budget,
		TotalSpent: Money{Cents: spent},
		Remaining:  Money{Cents: budget.Cents - spent},
	}
}
