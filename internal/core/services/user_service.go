package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

type UserService struct {
	userRepo ports.UserRepository
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(userRepo ports.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a user at first sign-in. New users are always active
// donors; role and status changes go through the admin operations below.
// Registration is idempotent on email: a duplicate signup returns the
// existing record untouched.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: email and name are required", domain.ErrValidation)
	}
	bloodGroup, err := domain.ParseBloodGroup(in.BloodGroup)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:         uuid.NewString(),
		Email:      in.Email,
		Name:       in.Name,
		Avatar:     in.Avatar,
		BloodGroup: bloodGroup,
		District:   in.District,
		Upazila:    in.Upazila,
		Role:       domain.RoleDonor,
		Status:     domain.UserActive,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return s.userRepo.FindByEmail(ctx, in.Email)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}

// UpdateProfile changes the fields a user owns. Only the account holder
// may edit their profile; role and status are out of reach here.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, email, name, bloodGroup, district, upazila string) (int64, error) {
	if actor.Email != email {
		return 0, domain.ErrForbidden
	}
	parsed, err := domain.ParseBloodGroup(bloodGroup)
	if err != nil {
		return 0, err
	}
	return s.userRepo.UpdateProfile(ctx, email, ports.ProfileUpdate{
		Name:       name,
		BloodGroup: parsed,
		District:   district,
		Upazila:    upazila,
	})
}

// List returns users for the admin table. statusFilter is one of
// all, active, blocked.
func (s *UserService) List(ctx context.Context, statusFilter string) ([]domain.User, error) {
	if statusFilter == "" || statusFilter == "all" {
		return s.userRepo.List(ctx, "")
	}
	status, err := domain.ParseUserStatus(statusFilter)
	if err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, status)
}

func (s *UserService) SetStatus(ctx context.Context, id, status string) (int64, error) {
	parsed, err := domain.ParseUserStatus(status)
	if err != nil {
		return 0, err
	}
	return s.userRepo.UpdateStatus(ctx, id, parsed)
}

func (s *UserService) SetRole(ctx context.Context, id, role string) (int64, error) {
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return 0, err
	}
	return s.userRepo.UpdateRole(ctx, id, parsed)
}

// SearchDonors matches donor profiles on any combination of blood group,
// district and upazila. Results keep their status so blocked donors can be
// flagged in the listing.
func (s *UserService) SearchDonors(ctx context.Context, f ports.DonorFilter) ([]domain.User, error) {
	if f.BloodGroup != "" {
		if _, err := domain.ParseBloodGroup(f.BloodGroup); err != nil {
			return nil, err
		}
	}
	return s.userRepo.SearchDonors(ctx, f)
}
