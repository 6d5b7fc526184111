package domain

import (
	"fmt"
	"time"
)

type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "inprogress"
	StatusDone       RequestStatus = "done"
	StatusCanceled   RequestStatus = "canceled"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case StatusPending, StatusInProgress, StatusDone, StatusCanceled:
		return RequestStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown request status %q", ErrValidation, s)
}

// Terminal reports whether a status accepts no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// DonationRequest is a recipient-side post asking for a specific blood
// group at a specific time and place. Requester identity is immutable
// after creation. Donor fields are attached only on the pending→inprogress
// transition and are never cleared afterwards, a later cancel included.
type DonationRequest struct {
	ID                string        `json:"id"`
	RequesterName     string        `json:"requesterName"`
	RequesterEmail    string        `json:"requesterEmail"`
	RecipientName     string        `json:"recipientName"`
	RecipientDistrict string        `json:"recipientDistrict"`
	RecipientUpazila  string        `json:"recipientUpazila"`
	HospitalName      string        `json:"hospitalName"`
	FullAddress       string        `json:"fullAddress"`
	BloodGroup        BloodGroup    `json:"bloodGroup"`
	DonationDate      string        `json:"donationDate"`
	DonationTime      string        `json:"donationTime"`
	RequestMessage    string        `json:"requestMessage"`
	Status            RequestStatus `json:"status"`
	DonorName         string        `json:"donorName,omitempty"`
	DonorEmail        string        `json:"donorEmail,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// CanTransition validates a status change against the lifecycle rules.
// This is the single transition authority used by every surface (donor,
// volunteer and admin views all route through it).
//
//	pending    → inprogress   any actor except the requester
//	inprogress → done         admin, volunteer, or the requester
//	inprogress → canceled     admin, volunteer, or the requester
//	done, canceled            terminal
func (r *DonationRequest) CanTransition(next RequestStatus, actor Actor) error {
	switch r.Status {
	case StatusPending:
		if next != StatusInProgress {
			return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, r.Status, next)
		}
		if actor.Email == r.RequesterEmail {
			return ErrSelfDonation
		}
		return nil
	case StatusInProgress:
		if next != StatusDone && next != StatusCanceled {
			return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, r.Status, next)
		}
		if actor.IsStaff() || actor.Email == r.RequesterEmail {
			return nil
		}
		return ErrForbidden
	default:
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, r.Status)
	}
}

// CanEdit reports whether actor may change the non-status fields of the
// request. Only the owning requester uses the edit path; status is not
// touched by it.
func (r *DonationRequest) CanEdit(actor Actor) error {
	if actor.Email != r.RequesterEmail {
		return ErrForbidden
	}
	return nil
}

// CanDelete reports whether actor may remove the request entirely.
// Volunteers may move statuses but not delete.
func (r *DonationRequest) CanDelete(actor Actor) error {
	if actor.Role == RoleAdmin || actor.Email == r.RequesterEmail {
		return nil
	}
	return ErrForbidden
}
