package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vikasavnish/hunterbot/internal/services"
	"github.com/vikasavnish/hunterbot/internal/trade"
)

type validationResponse struct {
	Error      string            `json:"error"`
	Violations []trade.Violation `json:"violations"`
}

// writeError maps domain errors to status codes
func writeError(w http.ResponseWriter, err error) {
	var verr *trade.ValidationError
	switch {
	case errors.As(err, &verr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(validationResponse{
			Error:      "invalid trade instructions",
			Violations: verr.Violations,
		})
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, trade.ErrRowNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrBotBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrInvalidMode),
		errors.Is(err, services.ErrUnknownStrategy),
		errors.Is(err, trade.ErrUnknownField),
		errors.Is(err, trade.ErrInvalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
