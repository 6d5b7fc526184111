package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
	"github.com/roktoapp/donation-service/internal/core/services"
	"github.com/roktoapp/donation-service/test/mocks"
)

func seedRequester(userRepo *mocks.MockUserRepository, status domain.UserStatus) *domain.User {
	user := &domain.User{
		ID:         "user-1",
		Email:      "alice@example.com",
		Name:       "Alice Rahman",
		BloodGroup: domain.OPositive,
		Role:       domain.RoleDonor,
		Status:     status,
	}
	userRepo.SeedUser(user)
	return user
}

func validCreateInput() ports.CreateRequestInput {
	return ports.CreateRequestInput{
		RecipientName:     "Karim Uddin",
		RecipientDistrict: "Dhaka",
		RecipientUpazila:  "Savar",
		HospitalName:      "Enam Medical College",
		FullAddress:       "Savar, Dhaka",
		BloodGroup:        "O-",
		DonationDate:      "2026-09-10",
		DonationTime:      "10:30",
		RequestMessage:    "Urgent surgery",
	}
}

func TestCreate_StartsPendingWithoutDonor(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	requestRepo := mocks.NewMockRequestRepository()
	requester := seedRequester(userRepo, domain.UserActive)
	svc := services.NewRequestService(requestRepo, userRepo)

	req, err := svc.Create(context.Background(), domain.Actor{Email: requester.Email, Role: domain.RoleDonor}, validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Empty(t, req.DonorName)
	assert.Empty(t, req.DonorEmail)
	assert.Equal(t, requester.Name, req.RequesterName)
	assert.Equal(t, requester.Email, req.RequesterEmail)
	assert.Equal(t, domain.ONegative, req.BloodGroup)

	// The outbox event rides the same write.
	require.Len(t, requestRepo.OutboxPayloads, 1)
	var evt ports.RequestCreatedEvent
	require.NoError(t, json.Unmarshal(requestRepo.OutboxPayloads[0], &evt))
	assert.Equal(t, req.ID, evt.RequestID)
}

func TestCreate_BlockedUserRefused(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	requestRepo := mocks.NewMockRequestRepository()
	requester := seedRequester(userRepo, domain.UserBlocked)
	svc := services.NewRequestService(requestRepo, userRepo)

	_, err := svc.Create(context.Background(), domain.Actor{Email: requester.Email, Role: domain.RoleDonor}, validCreateInput())
	assert.ErrorIs(t, err, domain.ErrBlocked)
	assert.Empty(t, requestRepo.CreateCalls)
}

func TestCreate_InvalidBloodGroup(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	requester := seedRequester(userRepo, domain.UserActive)
	svc := services.NewRequestService(mocks.NewMockRequestRepository(), userRepo)

	in := validCreateInput()
	in.BloodGroup = "Z+"
	_, err := svc.Create(context.Background(), domain.Actor{Email: requester.Email, Role: domain.RoleDonor}, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChangeStatus_DonateAttachesDonor(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	requestRepo := mocks.NewMockRequestRepository()
	requestRepo.SeedRequest(&domain.DonationRequest{
		ID:             "req-1",
		RequesterEmail: "alice@example.com",
		Status:         domain.StatusPending,
	})
	svc := services.NewRequestService(requestRepo, userRepo)

	donor := domain.Actor{Email: "jane@x.com", Role: domain.RoleDonor}
	modified, err := svc.ChangeStatus(context.Background(), donor, "req-1", ports.StatusChangeInput{
		Status:     "inprogress",
		DonorName:  "Jane",
		DonorEmail: "jane@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	stored, err := requestRepo.FindByID(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Equal(t, "Jane", stored.DonorName)
	assert.Equal(t, "jane@x.com", stored.DonorEmail)
}

func TestChangeStatus_DonorEmailMustMatchActor(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	requestRepo.SeedRequest(&domain.DonationRequest{
		ID:             "req-1",
		RequesterEmail: "alice@example.com",
		Status:         domain.StatusPending,
	})
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	_, err := svc.ChangeStatus(context.Background(), domain.Actor{Email: "jane@x.com", Role: domain.RoleDonor}, "req-1", ports.StatusChangeInput{
		Status:     "inprogress",
		DonorName:  "Jane",
		DonorEmail: "someone-else@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChangeStatus_RequesterCannotTakeOwnRequest(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	requestRepo.SeedRequest(&domain.DonationRequest{
		ID:             "req-1",
		RequesterEmail: "alice@example.com",
		Status:         domain.StatusPending,
	})
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	_, err := svc.ChangeStatus(context.Background(), domain.Actor{Email: "alice@example.com", Role: domain.RoleDonor}, "req-1", ports.StatusChangeInput{Status: "inprogress"})
	assert.ErrorIs(t, err, domain.ErrSelfDonation)
	assert.Empty(t, requestRepo.UpdateStatusCalls)
}

// Two actors race the same pending→inprogress edge. The loser's guarded
// update matches zero rows; there is no version check beyond that, so the
// caller just sees modifiedCount 0 (last write wins overall).
func TestChangeStatus_LostRaceReportsZero(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	req := &domain.DonationRequest{
		ID:             "req-1",
		RequesterEmail: "alice@example.com",
		Status:         domain.StatusPending,
	}
	requestRepo.SeedRequest(req)
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	requestRepo.BeforeUpdateStatus = func() {
		// Another donor commits between our read and our write.
		req.Status = domain.StatusInProgress
		req.DonorName = "First Donor"
		req.DonorEmail = "first@x.com"
		requestRepo.BeforeUpdateStatus = nil
	}

	modified, err := svc.ChangeStatus(context.Background(), domain.Actor{Email: "second@x.com", Role: domain.RoleDonor}, "req-1", ports.StatusChangeInput{
		Status:    "inprogress",
		DonorName: "Second Donor",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)

	stored, err := requestRepo.FindByID(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, "first@x.com", stored.DonorEmail, "loser must not overwrite the donor")
}

func TestChangeStatus_TerminalRefused(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	requestRepo.SeedRequest(&domain.DonationRequest{
		ID:             "req-1",
		RequesterEmail: "alice@example.com",
		Status:         domain.StatusDone,
	})
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	_, err := svc.ChangeStatus(context.Background(), domain.Actor{Email: "admin@example.com", Role: domain.RoleAdmin}, "req-1", ports.StatusChangeInput{Status: "canceled"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func seedRequests(requestRepo *mocks.MockRequestRepository, n int, email string) {
	base := time.Now()
	for i := 0; i < n; i++ {
		requestRepo.SeedRequest(&domain.DonationRequest{
			ID:             fmt.Sprintf("req-%d", i),
			RequesterEmail: email,
			Status:         domain.StatusPending,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestList_ClampsOutOfRangePage(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	seedRequests(requestRepo, 7, "alice@example.com")
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	// Default limit is 5, so 7 requests make 2 pages.
	page, err := svc.List(context.Background(), "all", 99, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Requests, 2)
}

func TestList_RejectsUnknownStatusFilter(t *testing.T) {
	svc := services.NewRequestService(mocks.NewMockRequestRepository(), mocks.NewMockUserRepository())

	_, err := svc.List(context.Background(), "finished", 1, 5)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListRecent_CapsAtThree(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	seedRequests(requestRepo, 5, "alice@example.com")
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	actor := domain.Actor{Email: "alice@example.com", Role: domain.RoleDonor}
	recent, err := svc.ListRecent(context.Background(), actor, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestListMine_OtherDonorForbidden(t *testing.T) {
	svc := services.NewRequestService(mocks.NewMockRequestRepository(), mocks.NewMockUserRepository())

	_, err := svc.ListMine(context.Background(), domain.Actor{Email: "bob@example.com", Role: domain.RoleDonor}, "alice@example.com", "all", 1, 5)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ListMine(context.Background(), domain.Actor{Email: "vol@example.com", Role: domain.RoleVolunteer}, "alice@example.com", "all", 1, 5)
	assert.NoError(t, err)
}

func TestEdit_NonOwnerForbidden(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	requestRepo.SeedRequest(&domain.DonationRequest{
		ID:             "req-1",
		RequesterEmail: "alice@example.com",
		Status:         domain.StatusPending,
	})
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	edit := ports.RequestEdit{
		RecipientName:     "Karim Uddin",
		RecipientDistrict: "Dhaka",
		RecipientUpazila:  "Savar",
		BloodGroup:        domain.APositive,
		DonationDate:      "2026-09-12",
		DonationTime:      "09:00",
	}

	_, err := svc.Edit(context.Background(), domain.Actor{Email: "admin@example.com", Role: domain.RoleAdmin}, "req-1", edit)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	modified, err := svc.Edit(context.Background(), domain.Actor{Email: "alice@example.com", Role: domain.RoleDonor}, "req-1", edit)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	// The edit path never touches status.
	stored, err := requestRepo.FindByID(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestDelete_VolunteerForbidden(t *testing.T) {
	requestRepo := mocks.NewMockRequestRepository()
	requestRepo.SeedRequest(&domain.DonationRequest{
		ID:             "req-1",
		RequesterEmail: "alice@example.com",
		Status:         domain.StatusPending,
	})
	svc := services.NewRequestService(requestRepo, mocks.NewMockUserRepository())

	_, err := svc.Delete(context.Background(), domain.Actor{Email: "vol@example.com", Role: domain.RoleVolunteer}, "req-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	deleted, err := svc.Delete(context.Background(), domain.Actor{Email: "admin@example.com", Role: domain.RoleAdmin}, "req-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
