package http

import (
	"net/http"

	"dailybaht/internal/services"
)

type updateSettingsRequest struct {
	DarkMode      *bool    `json:"dark_mode"`
	HomeCurrency  *string  `json:"home_currency"`
	ExchangeRate  *float64 `json:"exchange_rate"`
	DefaultBudget *string  `json:"default_budget"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.svc.Settings(r.Context()))
	case http.MethodPut:
		var req updateSettingsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		settings, err := s.svc.UpdateSettings(r.Context(), services.SettingsRequest{
			DarkMode:      req.DarkMode,
			HomeCurrency:  req.HomeCurrency,
			ExchangeRate:  req.ExchangeRate,
			DefaultBudget: req.DefaultBudget,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		// A changed default budget alters days without an explicit budget.
		s.invalidateHistory()
		writeJSON(w, http.StatusOK, settings)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}
