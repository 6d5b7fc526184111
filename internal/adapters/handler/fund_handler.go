package handler

import (
	"encoding/json"
	"net/http"

	"github.com/roktoapp/donation-service/internal/adapters/middleware"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

type FundHandler struct {
	fundService ports.FundService
}

func NewFundHandler(fundService ports.FundService) *FundHandler {
	return &FundHandler{fundService: fundService}
}

type intentRequest struct {
	Amount float64 `json:"amount"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreateIntent handles POST /create-payment-intent. The browser confirms
// the payment against the processor with the returned secret; nothing is
// persisted here.
func (h *FundHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	secret, err := h.fundService.CreateIntent(r.Context(), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intentResponse{ClientSecret: secret})
}

type fundRequest struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

// Record handles POST /funds, called once per confirmed payment.
func (h *FundHandler) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	fund, err := h.fundService.Record(r.Context(), actor, req.Name, req.Amount, req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"insertedId": fund.ID})
}

func (h *FundHandler) List(w http.ResponseWriter, r *http.Request) {
	funds, err := h.fundService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funds)
}
