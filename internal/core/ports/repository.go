package ports

import (
	"context"

	"github.com/roktoapp/donation-service/internal/core/domain"
)

// DonorFilter narrows a donor search. Empty fields are not applied.
type DonorFilter struct {
	BloodGroup string
	District   string
	Upazila    string
}

// ProfileUpdate carries the fields a user may change on their own record.
type ProfileUpdate struct {
	Name       string
	BloodGroup domain.BloodGroup
	District   string
	Upazila    string
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, status domain.UserStatus) ([]domain.User, error)
	UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) (int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (int64, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (int64, error)
	SearchDonors(ctx context.Context, f DonorFilter) ([]domain.User, error)
	CountDonors(ctx context.Context) (int64, error)
}

// RequestFilter selects a page of donation requests. Status empty means
// all. RequesterEmail empty means every requester.
type RequestFilter struct {
	Status         domain.RequestStatus
	RequesterEmail string
	Page           int
	Limit          int
}

// RequestPage is one page of results plus the totals that drive the
// client's page buttons.
type RequestPage struct {
	Requests   []domain.DonationRequest `json:"donationRequests"`
	Total      int64                    `json:"total"`
	TotalPages int                      `json:"totalPages"`
	Page       int                      `json:"page"`
}

// RequestEdit carries the non-status fields the owner may change.
type RequestEdit struct {
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        domain.BloodGroup
	DonationDate      string
	DonationTime      string
	RequestMessage    string
}

type RequestRepository interface {
	// Create inserts the request and its outbox event in one transaction.
	Create(ctx context.Context, req domain.DonationRequest, outboxPayload []byte) error
	FindByID(ctx context.Context, id string) (*domain.DonationRequest, error)
	List(ctx context.Context, f RequestFilter) (*RequestPage, error)
	ListPending(ctx context.Context) ([]domain.DonationRequest, error)
	ListRecent(ctx context.Context, requesterEmail string, limit int) ([]domain.DonationRequest, error)
	// UpdateStatus performs the transition guarded on the expected current
	// status and writes the outbox event in the same transaction. Returns
	// the number of rows moved: zero means another writer got there first.
	UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus, donorName, donorEmail string, outboxPayload []byte) (int64, error)
	UpdateFields(ctx context.Context, id string, edit RequestEdit) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type FundRepository interface {
	Create(ctx context.Context, fund domain.Fund) error
	List(ctx context.Context) ([]domain.Fund, error)
	TotalAmount(ctx context.Context) (float64, error)
}
