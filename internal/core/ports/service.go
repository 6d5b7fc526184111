package ports

import (
	"context"

	"github.com/roktoapp/donation-service/internal/core/domain"
)

type TokenService interface {
	// IssueToken exchanges a registered email for a signed bearer token
	// carrying the user's role.
	IssueToken(ctx context.Context, email string) (string, error)
}

// RegisterInput is the signup payload. Role and status are not accepted
// from the client: new users are active donors.
type RegisterInput struct {
	Email      string
	Name       string
	Avatar     string
	BloodGroup string
	District   string
	Upazila    string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, email, name, bloodGroup, district, upazila string) (int64, error)
	List(ctx context.Context, statusFilter string) ([]domain.User, error)
	SetStatus(ctx context.Context, id, status string) (int64, error)
	SetRole(ctx context.Context, id, role string) (int64, error)
	SearchDonors(ctx context.Context, f DonorFilter) ([]domain.User, error)
}

// CreateRequestInput is the request-creation payload. Requester identity
// comes from the bearer token, not the body.
type CreateRequestInput struct {
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
	RequestMessage    string
}

// StatusChangeInput is the PATCH /donation-requests/status/:id payload.
// Donor fields are only meaningful for the pending→inprogress transition.
type StatusChangeInput struct {
	Status     string
	DonorName  string
	DonorEmail string
}

type RequestService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateRequestInput) (*domain.DonationRequest, error)
	Get(ctx context.Context, id string) (*domain.DonationRequest, error)
	List(ctx context.Context, statusFilter string, page, limit int) (*RequestPage, error)
	ListPending(ctx context.Context) ([]domain.DonationRequest, error)
	ListRecent(ctx context.Context, actor domain.Actor, email string) ([]domain.DonationRequest, error)
	ListMine(ctx context.Context, actor domain.Actor, email, statusFilter string, page, limit int) (*RequestPage, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id string, in StatusChangeInput) (int64, error)
	Edit(ctx context.Context, actor domain.Actor, id string, edit RequestEdit) (int64, error)
	Delete(ctx context.Context, actor domain.Actor, id string) (int64, error)
}

type FundService interface {
	CreateIntent(ctx context.Context, amount float64) (string, error)
	Record(ctx context.Context, actor domain.Actor, name string, amount float64, transactionID string) (*domain.Fund, error)
	List(ctx context.Context) ([]domain.Fund, error)
}

type StatsService interface {
	Statistics(ctx context.Context) (*domain.Statistics, error)
}
