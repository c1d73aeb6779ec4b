// Command dailybaht-export renders the stored expense history as CSV or as
// a plain-text report, optionally limited to a date range.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"dailybaht/internal/config"
	"dailybaht/internal/core"
	"dailybaht/internal/export"
	"dailybaht/internal/kv"
	"dailybaht/internal/log"
	"dailybaht/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	var (
		format = flag.String("format", "csv", "output format: csv or report")
		from   = flag.String("from", "", "start date (YYYY-MM-DD, inclusive)")
		to     = flag.String("to", "", "end date (YYYY-MM-DD, inclusive)")
		out    = flag.String("out", "", "output file (default stdout)")
		dbPath = flag.String("db", cfg.SQLiteDBPath, "SQLite database path")
	)
	flag.Parse()

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Component: log.ComponentExport})

	if err := run(logger, cfg, *format, *from, *to, *out, *dbPath); err != nil {
		logger.Error("Export failed", log.FieldOperation, log.OpExport, log.FieldError, err)
		os.Exit(1)
	}
}

func run(logger *log.Logger, cfg *config.Config, format, fromStr, toStr, out, dbPath string) error {
	var from, to core.Date
	if fromStr != "" {
		d, err := core.ParseDate(fromStr)
		if err != nil {
			return fmt.Errorf("parse -from: %w", err)
		}
		from = d
	}
	if toStr != "" {
		d, err := core.ParseDate(toStr)
		if err != nil {
			return fmt.Errorf("parse -to: %w", err)
		}
		to = d
	}

	medium, err := kv.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer medium.Close()

	st := store.New(medium, cfg.DefaultSettings(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	days := export.FilterRange(st.AllExpenseData(ctx), from, to)
	settings := st.Settings(ctx)

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "csv":
		if err := export.HistoryCSV(w, days, settings); err != nil {
			return err
		}
	case "report":
		if err := export.Report(w, days, settings, time.Now()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want csv or report)", format)
	}

	logger.Info("Export written",
		log.FieldFormat, format, log.FieldCount, len(days))
	return nil
}
