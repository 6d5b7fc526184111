package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/roktoapp/donation-service/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError maps domain errors onto HTTP statuses so every handler
// reports rejections the same way.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
	case errors.Is(err, domain.ErrBlocked):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "Your account is blocked. You cannot create donation requests."})
	case errors.Is(err, domain.ErrSelfDonation),
		errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	default:
		log.Printf("handler: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}
