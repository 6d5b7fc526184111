package handler

import (
	"encoding/json"
	"net/http"

	"github.com/roktoapp/donation-service/internal/core/ports"
)

type TokenHandler struct {
	tokenService ports.TokenService
}

func NewTokenHandler(tokenService ports.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

type tokenRequest struct {
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Issue handles POST /jwt: the front end trades the signed-in email for a
// bearer token after the identity provider has verified it client-side.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.tokenService.IssueToken(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "unknown user", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
