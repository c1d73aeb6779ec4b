package http

import (
	"net/http"

	"dailybaht/internal/core"
)

type budgetResponse struct {
	Date   core.Date  `json:"date"`
	Budget core.Money `json:"budget"`
}

type setBudgetRequest struct {
	Date   core.Date `json:"date"`
	Amount string    `json:"amount"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r)
	case http.MethodPut:
		s.setBudget(w, r)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date parameter")
		return
	}
	budget, err := s.svc.Budget(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetResponse{Date: date, Budget: budget})
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	budget, err := s.svc.SetBudget(r.Context(), req.Date, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateHistory()
	writeJSON(w, http.StatusOK, budgetResponse{Date: req.Date, Budget: budget})
}
