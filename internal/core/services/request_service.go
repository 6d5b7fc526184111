package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

const (
	defaultPageLimit = 5
	maxPageLimit     = 50
	recentLimit      = 3
)

// RequestService owns the donation request lifecycle. Every surface that
// creates, lists, edits or transitions a request goes through it, so the
// actor rules live in exactly one place.
type RequestService struct {
	requestRepo ports.RequestRepository
	userRepo    ports.UserRepository
}

var _ ports.RequestService = (*RequestService)(nil)

func NewRequestService(requestRepo ports.RequestRepository, userRepo ports.UserRepository) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// Create opens a new request with status pending and no donor attached.
// Blocked accounts are refused before anything is written.
func (s *RequestService) Create(ctx context.Context, actor domain.Actor, in ports.CreateRequestInput) (*domain.DonationRequest, error) {
	requester, err := s.userRepo.FindByEmail(ctx, actor.Email)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if requester.Status == domain.UserBlocked {
		return nil, domain.ErrBlocked
	}

	bloodGroup, err := domain.ParseBloodGroup(in.BloodGroup)
	if err != nil {
		return nil, err
	}
	if in.RecipientName == "" || in.RecipientDistrict == "" || in.RecipientUpazila == "" {
		return nil, fmt.Errorf("%w: recipient name, district and upazila are required", domain.ErrValidation)
	}
	if in.DonationDate == "" || in.DonationTime == "" {
		return nil, fmt.Errorf("%w: donation date and time are required", domain.ErrValidation)
	}

	req := domain.DonationRequest{
		ID:                uuid.NewString(),
		RequesterName:     requester.Name,
		RequesterEmail:    requester.Email,
		RecipientName:     in.RecipientName,
		RecipientDistrict: in.RecipientDistrict,
		RecipientUpazila:  in.RecipientUpazila,
		HospitalName:      in.HospitalName,
		FullAddress:       in.FullAddress,
		BloodGroup:        bloodGroup,
		DonationDate:      in.DonationDate,
		DonationTime:      in.DonationTime,
		RequestMessage:    in.RequestMessage,
		Status:            domain.StatusPending,
		CreatedAt:         time.Now().UTC(),
	}

	payload, err := json.Marshal(ports.RequestCreatedEvent{
		RequestID:         req.ID,
		RequesterEmail:    req.RequesterEmail,
		BloodGroup:        string(req.BloodGroup),
		RecipientDistrict: req.RecipientDistrict,
		RecipientUpazila:  req.RecipientUpazila,
		DonationDate:      req.DonationDate,
	})
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Create(ctx, req, payload); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RequestService) Get(ctx context.Context, id string) (*domain.DonationRequest, error) {
	return s.requestRepo.FindByID(ctx, id)
}

// List serves the admin/volunteer table: a fixed-size page with an
// optional status filter. statusFilter "all" or empty selects everything.
func (s *RequestService) List(ctx context.Context, statusFilter string, page, limit int) (*ports.RequestPage, error) {
	f, err := buildFilter(statusFilter, "", page, limit)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.List(ctx, f)
}

func (s *RequestService) ListPending(ctx context.Context) ([]domain.DonationRequest, error) {
	return s.requestRepo.ListPending(ctx)
}

// ListRecent returns the requester's newest requests for the donor
// dashboard. Staff may look at anyone's.
func (s *RequestService) ListRecent(ctx context.Context, actor domain.Actor, email string) ([]domain.DonationRequest, error) {
	if actor.Email != email && !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.requestRepo.ListRecent(ctx, email, recentLimit)
}

func (s *RequestService) ListMine(ctx context.Context, actor domain.Actor, email, statusFilter string, page, limit int) (*ports.RequestPage, error) {
	if actor.Email != email && !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	f, err := buildFilter(statusFilter, email, page, limit)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.List(ctx, f)
}

// ChangeStatus applies one lifecycle transition. The donor identity is
// attached only on pending→inprogress and must belong to the acting user.
// The underlying update is guarded on the status the transition was
// validated against; a return of zero means another writer moved the
// request first and nothing was changed. There is no version column beyond
// that guard, so overall last write wins.
func (s *RequestService) ChangeStatus(ctx context.Context, actor domain.Actor, id string, in ports.StatusChangeInput) (int64, error) {
	next, err := domain.ParseRequestStatus(in.Status)
	if err != nil {
		return 0, err
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := req.CanTransition(next, actor); err != nil {
		return 0, err
	}

	donorName, donorEmail := "", ""
	if next == domain.StatusInProgress {
		if in.DonorEmail != "" && in.DonorEmail != actor.Email {
			return 0, fmt.Errorf("%w: donor email must match the acting user", domain.ErrValidation)
		}
		donorName, donorEmail = in.DonorName, actor.Email
		if donorName == "" {
			donorName = actor.Email
		}
	}

	payload, err := json.Marshal(ports.RequestStatusChangedEvent{
		RequestID:  req.ID,
		From:       string(req.Status),
		To:         string(next),
		DonorEmail: donorEmail,
	})
	if err != nil {
		return 0, err
	}

	return s.requestRepo.UpdateStatus(ctx, id, req.Status, next, donorName, donorEmail, payload)
}

// Edit updates the non-status fields of a request. The edit path never
// touches status or donor attribution.
func (s *RequestService) Edit(ctx context.Context, actor domain.Actor, id string, edit ports.RequestEdit) (int64, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := req.CanEdit(actor); err != nil {
		return 0, err
	}
	if _, err := domain.ParseBloodGroup(string(edit.BloodGroup)); err != nil {
		return 0, err
	}
	return s.requestRepo.UpdateFields(ctx, id, edit)
}

func (s *RequestService) Delete(ctx context.Context, actor domain.Actor, id string) (int64, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := req.CanDelete(actor); err != nil {
		return 0, err
	}
	return s.requestRepo.Delete(ctx, id)
}

func buildFilter(statusFilter, requesterEmail string, page, limit int) (ports.RequestFilter, error) {
	f := ports.RequestFilter{RequesterEmail: requesterEmail, Page: page, Limit: limit}
	if statusFilter != "" && statusFilter != "all" {
		status, err := domain.ParseRequestStatus(statusFilter)
		if err != nil {
			return f, err
		}
		f.Status = status
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f, nil
}
