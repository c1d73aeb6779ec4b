package http

import (
	"net/http"

	"dailybaht/internal/core"
	"dailybaht/internal/services"
)

type addExpenseRequest struct {
	Date        core.Date `json:"date"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
}

type updateExpenseRequest struct {
	ID          string     `json:"id"`
	Date        core.Date  `json:"date"`
	Amount      *string    `json:"amount"`
	Description *string    `json:"description"`
	NewDate     *core.Date `json:"new_date"`
}

type deleteExpenseRequest struct {
	ID   string    `json:"id"`
	Date core.Date `json:"date"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.addExpense(w, r)
	case http.MethodPut:
		s.updateExpense(w, r)
	case http.MethodDelete:
		s.deleteExpense(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date parameter")
		return
	}
	expenses, err := s.svc.Expenses(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) addExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	expense, err := s.svc.AddExpense(r.Context(), req.Date, req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateHistory()
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeDomainError(w, core.ErrMissingID)
		return
	}
	expense, err := s.svc.UpdateExpense(r.Context(), req.ID, req.Date, services.UpdateRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.NewDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateHistory()
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	var req deleteExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeDomainError(w, core.ErrMissingID)
		return
	}
	if err := s.svc.DeleteExpense(r.Context(), req.ID, req.Date); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateHistory()
	w.WriteHeader(http.StatusNoContent)
}
