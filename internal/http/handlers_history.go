package http

import (
	"net/http"

	"dailybaht/internal/log"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if days, found := s.historyCache.Get(historyCacheKey); found {
		s.logger.DebugContext(r.Context(), "History cache hit", log.FieldCount, len(days))
		writeJSON(w, http.StatusOK, days)
		return
	}

	days := s.svc.History(r.Context())
	s.historyCache.Set(historyCacheKey, days)
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Stats(r.Context()))
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := s.svc.ClearData(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateHistory()
	s.logger.InfoContext(r.Context(), "All expense data cleared",
		log.FieldOperation, log.OpClear)
	w.WriteHeader(http.StatusNoContent)
}
