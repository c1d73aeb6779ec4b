package http

import (
	"fmt"
	"net/http"
	"time"

	"dailybaht/internal/core"
	"dailybaht/internal/export"
	"dailybaht/internal/log"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var from, to core.Date
	if v := r.URL.Query().Get("from"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from parameter")
			return
		}
		from = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to parameter")
			return
		}
		to = d
	}

	days := export.FilterRange(s.svc.History(r.Context()), from, to)
	settings := s.svc.Settings(r.Context())
	stamp := time.Now().Format("2006-01-02")

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expense-history-%s.csv", stamp))
		if err := export.HistoryCSV(w, days, settings); err != nil {
			s.logger.ErrorContext(r.Context(), "CSV export failed",
				log.FieldOperation, log.OpExport, log.FieldError, err)
		}
	case "report":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expense-report-%s.txt", stamp))
		if err := export.Report(w, days, settings, time.Now()); err != nil {
			s.logger.ErrorContext(r.Context(), "Report export failed",
				log.FieldOperation, log.OpExport, log.FieldError, err)
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown export format")
	}
}
