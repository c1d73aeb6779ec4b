package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"dailybaht/internal/core"
)

const reportWidth = 72

// Report writes the multi-section history document: a title block, one
// section per day with its budget line and expense table, and a grand
// summary with total amount, day count, transaction count and average
// daily spending. Days are rendered in the order given (newest first from
// the aggregation scan).
func Report(w io.Writer, days []core.DaySummary, settings core.Settings, generatedAt time.Time) error {
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)
	thin := strings.Repeat("-", reportWidth)

	b.WriteString(rule + "\n")
	b.WriteString(center("DAILY BAHT BUDGET TRACKER") + "\n")
	b.WriteString(center("Expense History") + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Generated on: %s\n", generatedAt.Format("Jan 2, 2006 3:04 PM"))
	fmt.Fprintf(&b, "Home currency: %s (rate %.4f per THB)\n\n", settings.HomeCurrency, settings.ExchangeRate)

	var grandTotal core.Money
	transactions := 0
	for _, day := range days {
		grandTotal.Cents += day.TotalSpent.Cents
		transactions += len(day.Expenses)

		fmt.Fprintf(&b, "%s — Budget: %s\n", formatDate(day.Date), day.Budget.Baht())
		fmt.Fprintf(&b, "Spent: %s | Remaining: %s\n", day.TotalSpent.Baht(), day.Remaining.Baht())
		b.WriteString(thin + "\n")
		for _, e := range day.Expenses {
			fmt.Fprintf(&b, "  %-40s %12s  %8s\n",
				clip(e.Description, 40), e.Amount.Baht(), formatTime(e.Timestamp))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString("SUMMARY\n")
	b.WriteString(thin + "\n")
	fmt.Fprintf(&b, "Total Expenses:         %s (%s)\n",
		grandTotal.Baht(), core.FormatHome(grandTotal, settings))
	fmt.Fprintf(&b, "Number of Days:         %d\n", len(days))
	fmt.Fprintf(&b, "Total Transactions:     %d\n", transactions)
	if len(days) > 0 {
		average := core.Money{Cents: grandTotal.Cents / int64(len(days))}
		fmt.Fprintf(&b, "Average Daily Spending: %s\n", average.Baht())
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func center(s string) string {
	if len(s) >= reportWidth {
		return s
	}
	pad := (reportWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
