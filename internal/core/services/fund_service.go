package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

// FundService handles the funding flow: intent creation against the card
// processor, then a single Fund record once the browser reports a
// confirmed payment. There is no retry or reconciliation; a failed
// confirmation leaves nothing behind.
type FundService struct {
	fundRepo ports.FundRepository
	gateway  ports.PaymentGateway
}

var _ ports.FundService = (*FundService)(nil)

func NewFundService(fundRepo ports.FundRepository, gateway ports.PaymentGateway) *FundService {
	return &FundService{
		fundRepo: fundRepo,
		gateway:  gateway,
	}
}

func (s *FundService) CreateIntent(ctx context.Context, amount float64) (string, error) {
	if amount < 1 {
		return "", fmt.Errorf("%w: minimum contribution is $1", domain.ErrValidation)
	}
	cents := int64(math.Round(amount * 100))
	return s.gateway.CreateIntent(ctx, cents)
}

func (s *FundService) Record(ctx context.Context, actor domain.Actor, name string, amount float64, transactionID string) (*domain.Fund, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", domain.ErrValidation)
	}
	if name == "" {
		name = "Anonymous"
	}

	fund := domain.Fund{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         actor.Email,
		Amount:        amount,
		TransactionID: transactionID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.fundRepo.Create(ctx, fund); err != nil {
		return nil, err
	}
	return &fund, nil
}

func (s *FundService) List(ctx context.Context) ([]domain.Fund, error) {
	return s.fundRepo.List(ctx)
}
