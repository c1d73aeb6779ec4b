// Package export renders the tracker's history as documents: delimited CSV
// rows and a multi-section plain-text report with per-day subtotals and a
// grand summary. It consumes day summaries produced by the aggregation
// scan; it never touches the persistence medium itself.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"dailybaht/internal/core"
)

const (
	displayDateLayout = "Jan 2, 2006"
	displayTimeLayout = "3:04 PM"
)

// DayCSV writes one day's expenses as delimited rows:
// date, description, amount in baht, amount in the home currency, time.
func DayCSV(w io.Writer, expenses []core.Expense, settings core.Settings) error {
	cw := csv.NewWriter(w)
	header := []string{"Date", "Description", "Amount (THB)", "Amount (" + settings.HomeCurrency + ")", "Time"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			formatDate(e.Date),
			e.Description,
			e.Amount.Decimal(),
			fmt.Sprintf("%.2f", e.Amount.Home(settings.ExchangeRate)),
			formatTime(e.Timestamp),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// HistoryCSV writes the full history (or a date-range slice of it), one row
// per expense, with that day's budget, total and remaining repeated on each
// row so the file stands alone without the report.
func HistoryCSV(w io.Writer, days []core.DaySummary, settings core.Settings) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Date", "Description", "Amount (THB)", "Amount (" + settings.HomeCurrency + ")",
		"Time", "Daily Budget", "Daily Total", "Remaining",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, day := range days {
		for _, e := range day.Expenses {
			row := []string{
				formatDate(day.Date),
				e.Description,
				e.Amount.Decimal(),
				fmt.Sprintf("%.2f", e.Amount.Home(settings.ExchangeRate)),
				formatTime(e.Timestamp),
				day.Budget.Decimal(),
				day.TotalSpent.Decimal(),
				day.Remaining.Decimal(),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// FilterRange keeps the day summaries falling inside [from, to]. A zero
// bound is open on that side. Input order is preserved.
func FilterRange(days []core.DaySummary, from, to core.Date) []core.DaySummary {
	out := make([]core.DaySummary, 0, len(days))
	for _, day := range days {
		if !from.IsZero() && day.Date.Before(from) {
			continue
		}
		if !to.IsZero() && day.Date.After(to) {
			continue
		}
		out = append(out, day)
	}
	return out
}

func formatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(displayDateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayTimeLayout)
}
