package store

import (
	"context"
	"testing"
	"time"

	"dailybaht/internal/core"
)

func TestRepairExpenses(t *testing.T) {
	bucket := core.NewDate(2024, 6, 1)
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       []core.Expense
		wantLen     int
		wantChanged bool
	}{
		{
			name:        "valid entries untouched",
			input:       []core.Expense{{ID: "a", Amount: core.Money{Cents: 25000}, Description: "lunch", Date: bucket, Timestamp: ts}},
			wantLen:     1,
			wantChanged: false,
		},
		{
			name:        "missing id dropped",
			input:       []core.Expense{{Amount: core.Money{Cents: 25000}, Description: "lunch", Date: bucket, Timestamp: ts}},
			wantLen:     0,
			wantChanged: true,
		},
		{
			name:        "non-positive amount dropped",
			input:       []core.Expense{{ID: "a", Amount: core.Money{Cents: 0}, Description: "lunch", Date: bucket, Timestamp: ts}},
			wantLen:     0,
			wantChanged: true,
		},
		{
			name:        "empty description dropped",
			input:       []core.Expense{{ID: "a", Amount: core.Money{Cents: 25000}, Date: bucket, Timestamp: ts}},
			wantLen:     0,
			wantChanged: true,
		},
		{
			name:        "missing date backfilled",
			input:       []core.Expense{{ID: "a", Amount: core.Money{Cents: 25000}, Description: "lunch", Timestamp: ts}},
			wantLen:     1,
			wantChanged: true,
		},
		{
			name:        "missing timestamp backfilled",
			input:       []core.Expense{{ID: "a", Amount: core.Money{Cents: 25000}, Description: "lunch", Date: bucket}},
			wantLen:     1,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := repairExpenses(tt.input, bucket)
			if len(got) != tt.wantLen {
				t.Errorf("kept %d entries, want %d", len(got), tt.wantLen)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			for _, e := range got {
				if e.Date.IsZero() {
					t.Error("kept entry with zero date")
				}
				if e.Date.Key() != bucket.Key() {
					t.Errorf("backfilled date %q disagrees with bucket %q", e.Date.Key(), bucket.Key())
				}
				if e.Timestamp.IsZero() {
					t.Error("kept entry with zero timestamp")
				}
			}
		})
	}
}

func TestValidateAndMigrate(t *testing.T) {
	ctx := context.Background()
	s, medium := newTestStore(t)

	// One valid entry, one missing its date, one beyond repair.
	medium.Set(ctx, "expenses_2024-06-01",
		`[{"id":"a","amount":25000,"description":"lunch","date":"2024-06-01","timestamp":"2024-06-01T12:00:00Z"},`+
			`{"id":"b","amount":40000,"description":"taxi","date":"","timestamp":"2024-06-01T13:00:00Z"},`+
			`{"id":"","amount":0,"description":""}]`)
	// Undecodable list is left alone.
	medium.Set(ctx, "expenses_2024-06-02", "{corrupt")
	// Key with an unparseable date is skipped.
	medium.Set(ctx, "expenses_notadate", "[]")

	migrated := s.ValidateAndMigrate(ctx)
	if migrated != 1 {
		t.Errorf("migrated = %d, want 1", migrated)
	}

	got := s.LoadExpenses(ctx, core.NewDate(2024, 6, 1))
	if len(got) != 2 {
		t.Fatalf("kept %d entries, want 2", len(got))
	}
	for _, e := range got {
		if e.Date.Key() != "2024-06-01" {
			t.Errorf("entry %q has date %q, want 2024-06-01", e.ID, e.Date.Key())
		}
	}

	// The untouched keys are still there.
	if raw, ok, _ := medium.Get(ctx, "expenses_2024-06-02"); !ok || raw != "{corrupt" {
		t.Error("undecodable list was modified")
	}
	if _, ok, _ := medium.Get(ctx, "expenses_notadate"); !ok {
		t.Error("unparseable key was removed")
	}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	s, medium := newTestStore(t)

	stats := s.Initialize(ctx)
	if stats.Expenses != 0 {
		t.Errorf("fresh store stats = %+v", stats)
	}

	// Defaults are persisted so a settings key always exists afterwards.
	if _, ok, _ := medium.Get(ctx, "app_settings"); !ok {
		t.Error("settings key not created")
	}
	// Today's budget key is seeded with the default.
	today := core.Today()
	raw, ok, _ := medium.Get(ctx, "budget_"+today.Key())
	if !ok || raw != "1000.00" {
		t.Errorf("today's budget key = %q ok=%v, want 1000.00", raw, ok)
	}
}
