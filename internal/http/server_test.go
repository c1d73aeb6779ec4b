package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dailybaht/internal/core"
	"dailybaht/internal/kv"
	"dailybaht/internal/log"
	"dailybaht/internal/services"
	"dailybaht/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	defaults := core.Settings{
		HomeCurrency:  "USD",
		ExchangeRate:  0.029,
		DefaultBudget: core.Money{Cents: 100000},
	}
	st := store.New(kv.NewMemory(), defaults, logger)
	srv := NewServer(":0", services.NewTracker(st, logger), logger)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if rec := do(srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("/healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK || rec.Body.String() != "ready" {
		t.Errorf("/readyz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestAddAndListExpenses(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/expenses",
		`{"date":"2024-06-01","amount":"250","description":"lunch"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST = %d: %s", rec.Code, rec.Body.String())
	}
	var created core.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Amount.Cents != 25000 {
		t.Errorf("created = %+v", created)
	}

	rec = do(srv, http.MethodGet, "/api/expenses?date=2024-06-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	var listed []core.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("listed = %+v", listed)
	}

	// Another date is empty but still a 200 with an empty array.
	rec = do(srv, http.MethodGet, "/api/expenses?date=2024-06-02", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty day = %d %q", rec.Code, rec.Body.String())
	}
}

func TestAddExpenseErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "malformed body", body: `{not json`, wantCode: http.StatusBadRequest},
		{name: "bad amount", body: `{"date":"2024-06-01","amount":"abc","description":"x"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "blank description", body: `{"date":"2024-06-01","amount":"250","description":" "}`, wantCode: http.StatusUnprocessableEntity},
		{name: "missing date", body: `{"amount":"250","description":"x"}`, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, http.MethodPost, "/api/expenses", tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestUpdateExpense(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/expenses",
		`{"date":"2024-06-01","amount":"400","description":"taxi"}`)
	var created core.Expense
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = do(srv, http.MethodPut, "/api/expenses",
		`{"id":"`+created.ID+`","date":"2024-06-01","amount":"450"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d: %s", rec.Code, rec.Body.String())
	}
	var updated core.Expense
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Amount.Cents != 45000 || updated.Description != "taxi" {
		t.Errorf("updated = %+v", updated)
	}

	t.Run("move to another day", func(t *testing.T) {
		rec := do(srv, http.MethodPut, "/api/expenses",
			`{"id":"`+created.ID+`","date":"2024-06-01","new_date":"2024-06-02"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("move = %d: %s", rec.Code, rec.Body.String())
		}
		rec = do(srv, http.MethodGet, "/api/expenses?date=2024-06-01", "")
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("old day still has expenses: %s", rec.Body.String())
		}
		rec = do(srv, http.MethodGet, "/api/expenses?date=2024-06-02", "")
		var moved []core.Expense
		json.Unmarshal(rec.Body.Bytes(), &moved)
		if len(moved) != 1 || moved[0].Date.Key() != "2024-06-02" {
			t.Errorf("new day = %+v", moved)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := do(srv, http.MethodPut, "/api/expenses",
			`{"id":"ghost","date":"2024-06-01","amount":"450"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("unknown id = %d, want 404", rec.Code)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		rec := do(srv, http.MethodPut, "/api/expenses", `{"date":"2024-06-01","amount":"450"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("missing id = %d, want 422", rec.Code)
		}
	})
}

func TestDeleteExpense(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/expenses",
		`{"date":"2024-06-01","amount":"250","description":"lunch"}`)
	var created core.Expense
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = do(srv, http.MethodDelete, "/api/expenses",
		`{"id":"`+created.ID+`","date":"2024-06-01"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d", rec.Code)
	}
	rec = do(srv, http.MethodGet, "/api/expenses?date=2024-06-01", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expense survived delete: %s", rec.Body.String())
	}
}

func TestBudgetEndpoints(t *testing.T) {
	srv := newTestServer(t)

	// Unset budget answers with the default.
	rec := do(srv, http.MethodGet, "/api/budget?date=2024-06-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	var resp budgetResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Budget.Cents != 100000 {
		t.Errorf("default budget = %d, want 100000", resp.Budget.Cents)
	}

	rec = do(srv, http.MethodPut, "/api/budget", `{"date":"2024-06-01","amount":"1500"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(srv, http.MethodGet, "/api/budget?date=2024-06-01", "")
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Budget.Cents != 150000 {
		t.Errorf("budget = %d, want 150000", resp.Budget.Cents)
	}

	rec = do(srv, http.MethodPut, "/api/budget", `{"date":"2024-06-01","amount":"-10"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative budget = %d, want 422", rec.Code)
	}
}

func TestHistoryAndInvalidation(t *testing.T) {
	srv := newTestServer(t)

	do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-06-01","amount":"250","description":"lunch"}`)

	rec := do(srv, http.MethodGet, "/api/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	var days []core.DaySummary
	json.Unmarshal(rec.Body.Bytes(), &days)
	if len(days) != 1 {
		t.Fatalf("history days = %d, want 1", len(days))
	}

	// A write must invalidate the cached history.
	do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-06-02","amount":"80","description":"coffee"}`)
	rec = do(srv, http.MethodGet, "/api/history", "")
	json.Unmarshal(rec.Body.Bytes(), &days)
	if len(days) != 2 {
		t.Errorf("history after write = %d days, want 2", len(days))
	}
	if days[0].Date.Key() != "2024-06-02" {
		t.Errorf("history not newest first: %s", days[0].Date.Key())
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-06-01","amount":"250","description":"lunch"}`)
	do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-06-01","amount":"400","description":"taxi"}`)

	rec := do(srv, http.MethodGet, "/api/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	var stats core.Stats
	json.Unmarshal(rec.Body.Bytes(), &stats)
	if stats.Expenses != 2 || stats.Days != 1 || stats.Total.Cents != 65000 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	var settings core.Settings
	json.Unmarshal(rec.Body.Bytes(), &settings)
	if settings.HomeCurrency != "USD" {
		t.Errorf("default settings = %+v", settings)
	}

	rec = do(srv, http.MethodPut, "/api/settings", `{"dark_mode":true,"home_currency":"eur"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d: %s", rec.Code, rec.Body.String())
	}
	json.Unmarshal(rec.Body.Bytes(), &settings)
	if !settings.DarkMode || settings.HomeCurrency != "EUR" {
		t.Errorf("updated settings = %+v", settings)
	}
	// Untouched fields survive.
	if settings.ExchangeRate != 0.029 {
		t.Errorf("ExchangeRate = %v, want 0.029", settings.ExchangeRate)
	}

	rec = do(srv, http.MethodPut, "/api/settings", `{"exchange_rate":-1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad rate = %d, want 422", rec.Code)
	}
}

func TestClearData(t *testing.T) {
	srv := newTestServer(t)

	do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-06-01","amount":"250","description":"lunch"}`)
	do(srv, http.MethodPut, "/api/settings", `{"dark_mode":true}`)

	rec := do(srv, http.MethodPost, "/api/data/clear", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear = %d", rec.Code)
	}

	rec = do(srv, http.MethodGet, "/api/expenses?date=2024-06-01", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expenses survived clear: %s", rec.Body.String())
	}
	// Settings survive a data clear.
	rec = do(srv, http.MethodGet, "/api/settings", "")
	var settings core.Settings
	json.Unmarshal(rec.Body.Bytes(), &settings)
	if !settings.DarkMode {
		t.Error("settings did not survive clear")
	}
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-06-01","amount":"250","description":"lunch"}`)
	do(srv, http.MethodPost, "/api/expenses", `{"date":"2024-06-03","amount":"80","description":"coffee"}`)

	t.Run("csv", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/export?format=csv", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("csv = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Content-Type = %q", ct)
		}
		if !strings.Contains(rec.Body.String(), "lunch") {
			t.Error("csv missing expense row")
		}
	})

	t.Run("report", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/export?format=report", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("report = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "DAILY BAHT BUDGET TRACKER") {
			t.Error("report missing title")
		}
	})

	t.Run("range filter", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/export?format=csv&from=2024-06-02", "")
		body := rec.Body.String()
		if strings.Contains(body, "lunch") {
			t.Error("filtered-out day present")
		}
		if !strings.Contains(body, "coffee") {
			t.Error("in-range day missing")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/export?format=xml", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("unknown format = %d, want 400", rec.Code)
		}
	})

	t.Run("bad range", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/export?from=junk", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("bad range = %d, want 400", rec.Code)
		}
	})
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPatch, "/api/expenses"},
		{http.MethodPost, "/api/budget"},
		{http.MethodDelete, "/api/settings"},
		{http.MethodPost, "/api/history"},
		{http.MethodGet, "/api/data/clear"},
		{http.MethodPost, "/api/export"},
	}
	for _, tt := range tests {
		rec := do(srv, tt.method, tt.target, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", tt.method, tt.target, rec.Code)
		}
		if rec.Header().Get("Allow") == "" {
			t.Errorf("%s %s missing Allow header", tt.method, tt.target)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	rec := do(srv, http.MethodGet, "/api/settings", "")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
}
