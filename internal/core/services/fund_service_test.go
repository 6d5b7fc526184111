package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/services"
	"github.com/roktoapp/donation-service/test/mocks"
)

func TestCreateIntent_ConvertsToCents(t *testing.T) {
	gateway := mocks.NewMockPaymentGateway()
	svc := services.NewFundService(mocks.NewMockFundRepository(), gateway)

	secret, err := svc.CreateIntent(context.Background(), 25.50)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_secret", secret)
	require.Len(t, gateway.IntentCalls, 1)
	assert.Equal(t, int64(2550), gateway.IntentCalls[0])
}

func TestCreateIntent_BelowMinimum(t *testing.T) {
	gateway := mocks.NewMockPaymentGateway()
	svc := services.NewFundService(mocks.NewMockFundRepository(), gateway)

	_, err := svc.CreateIntent(context.Background(), 0.5)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, gateway.IntentCalls)
}

// A failed payment leaves nothing behind: the gateway error surfaces and
// no fund record is ever written.
func TestCreateIntent_GatewayFailureRecordsNothing(t *testing.T) {
	gateway := mocks.NewMockPaymentGateway()
	gateway.CreateError = errors.New("card processor unavailable")
	fundRepo := mocks.NewMockFundRepository()
	svc := services.NewFundService(fundRepo, gateway)

	_, err := svc.CreateIntent(context.Background(), 10)
	require.Error(t, err)

	funds, err := fundRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, funds)
}

func TestRecord_PersistsFund(t *testing.T) {
	fundRepo := mocks.NewMockFundRepository()
	svc := services.NewFundService(fundRepo, mocks.NewMockPaymentGateway())

	actor := domain.Actor{Email: "alice@example.com", Role: domain.RoleDonor}
	fund, err := svc.Record(context.Background(), actor, "Alice Rahman", 25.50, "pi_123")
	require.NoError(t, err)

	assert.NotEmpty(t, fund.ID)
	assert.Equal(t, "alice@example.com", fund.Email)
	assert.Equal(t, 25.50, fund.Amount)
	assert.Equal(t, "pi_123", fund.TransactionID)

	total, err := fundRepo.TotalAmount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25.50, total)
}

func TestRecord_DefaultsAnonymous(t *testing.T) {
	svc := services.NewFundService(mocks.NewMockFundRepository(), mocks.NewMockPaymentGateway())

	fund, err := svc.Record(context.Background(), domain.Actor{Email: "alice@example.com"}, "", 5, "pi_456")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", fund.Name)
}

func TestRecord_RejectsBadInput(t *testing.T) {
	fundRepo := mocks.NewMockFundRepository()
	svc := services.NewFundService(fundRepo, mocks.NewMockPaymentGateway())
	actor := domain.Actor{Email: "alice@example.com"}

	_, err := svc.Record(context.Background(), actor, "Alice", 0, "pi_789")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Record(context.Background(), actor, "Alice", 10, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, fundRepo.CreateCalls)
}
