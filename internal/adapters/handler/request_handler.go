package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/roktoapp/donation-service/internal/adapters/middleware"
	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

type RequestHandler struct {
	requestService ports.RequestService
}

func NewRequestHandler(requestService ports.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

type createRequestBody struct {
	RecipientName     string `json:"recipientName"`
	RecipientDistrict string `json:"recipientDistrict"`
	RecipientUpazila  string `json:"recipientUpazila"`
	HospitalName      string `json:"hospitalName"`
	FullAddress       string `json:"fullAddress"`
	BloodGroup        string `json:"bloodGroup"`
	DonationDate      string `json:"donationDate"`
	DonationTime      string `json:"donationTime"`
	RequestMessage    string `json:"requestMessage"`
}

// Create handles POST /donation-requests. The requester identity comes
// from the token, never the body.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.requestService.Create(r.Context(), actor, ports.CreateRequestInput{
		RecipientName:     body.RecipientName,
		RecipientDistrict: body.RecipientDistrict,
		RecipientUpazila:  body.RecipientUpazila,
		HospitalName:      body.HospitalName,
		FullAddress:       body.FullAddress,
		BloodGroup:        body.BloodGroup,
		DonationDate:      body.DonationDate,
		DonationTime:      body.DonationTime,
		RequestMessage:    body.RequestMessage,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"insertedId": req.ID})
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.requestService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// List handles GET /donation-requests?status=&page=&limit= for the
// admin/volunteer table.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	statusFilter, page, limit := pageParams(r)
	result, err := h.requestService.List(r.Context(), statusFilter, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestService.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *RequestHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	requests, err := h.requestService.ListRecent(r.Context(), actor, r.PathValue("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	statusFilter, page, limit := pageParams(r)
	result, err := h.requestService.ListMine(r.Context(), actor, r.PathValue("email"), statusFilter, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type statusPatchBody struct {
	Status     string `json:"status"`
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
}

// ChangeStatus handles PATCH /donation-requests/status/{id}. The response
// mirrors the store's modifiedCount so the front end can tell a lost race
// (zero) from a successful transition (one).
func (h *RequestHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body statusPatchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	modified, err := h.requestService.ChangeStatus(r.Context(), actor, r.PathValue("id"), ports.StatusChangeInput{
		Status:     body.Status,
		DonorName:  body.DonorName,
		DonorEmail: body.DonorEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"modifiedCount": modified})
}

type editRequestBody struct {
	RecipientName     string `json:"recipientName"`
	RecipientDistrict string `json:"recipientDistrict"`
	RecipientUpazila  string `json:"recipientUpazila"`
	HospitalName      string `json:"hospitalName"`
	FullAddress       string `json:"fullAddress"`
	BloodGroup        string `json:"bloodGroup"`
	DonationDate      string `json:"donationDate"`
	DonationTime      string `json:"donationTime"`
	RequestMessage    string `json:"requestMessage"`
}

// Edit handles PATCH /donation-requests/{id}: non-status fields only.
func (h *RequestHandler) Edit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body editRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	modified, err := h.requestService.Edit(r.Context(), actor, r.PathValue("id"), ports.RequestEdit{
		RecipientName:     body.RecipientName,
		RecipientDistrict: body.RecipientDistrict,
		RecipientUpazila:  body.RecipientUpazila,
		HospitalName:      body.HospitalName,
		FullAddress:       body.FullAddress,
		BloodGroup:        domain.BloodGroup(body.BloodGroup),
		DonationDate:      body.DonationDate,
		DonationTime:      body.DonationTime,
		RequestMessage:    body.RequestMessage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"modifiedCount": modified})
}

func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.requestService.Delete(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}

func pageParams(r *http.Request) (statusFilter string, page, limit int) {
	q := r.URL.Query()
	statusFilter = q.Get("status")
	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	return statusFilter, page, limit
}
