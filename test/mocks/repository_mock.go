// Package mocks provides in-memory implementations of the port interfaces
// so services and handlers can be tested without Postgres or RabbitMQ.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository for testing.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by email

	// Call tracking for verification
	FindByEmailCalls []string
	CreateCalls      []domain.User

	// Error injection for testing error scenarios
	FindByEmailError error
	CreateError      error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// SeedUser adds a user for test setup.
func (m *MockUserRepository) SeedUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, user)
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.users[user.Email]; exists {
		return domain.ErrDuplicateEmail
	}
	m.users[user.Email] = &user
	return nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	m.FindByEmailCalls = append(m.FindByEmailCalls, email)
	m.mu.Unlock()

	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, status domain.UserStatus) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.User
	for _, user := range m.users {
		if status == "" || user.Status == status {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, email string, upd ports.ProfileUpdate) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return 0, nil
	}
	user.Name = upd.Name
	user.BloodGroup = upd.BloodGroup
	user.District = upd.District
	user.Upazila = upd.Upazila
	return 1, nil
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			user.Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			user.Role = role
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockUserRepository) SearchDonors(ctx context.Context, f ports.DonorFilter) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.User
	for _, user := range m.users {
		if user.Role != domain.RoleDonor {
			continue
		}
		if f.BloodGroup != "" && string(user.BloodGroup) != f.BloodGroup {
			continue
		}
		if f.District != "" && !strings.EqualFold(user.District, f.District) {
			continue
		}
		if f.Upazila != "" && !strings.EqualFold(user.Upazila, f.Upazila) {
			continue
		}
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockUserRepository) CountDonors(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, user := range m.users {
		if user.Role == domain.RoleDonor {
			count++
		}
	}
	return count, nil
}

// MockRequestRepository implements ports.RequestRepository for testing.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.DonationRequest

	// Call tracking
	CreateCalls       []domain.DonationRequest
	UpdateStatusCalls []string
	OutboxPayloads    [][]byte

	// Error injection
	CreateError       error
	FindByIDError     error
	UpdateStatusError error

	// BeforeUpdateStatus, when set, runs at the top of UpdateStatus. Tests
	// use it to emulate a concurrent writer slipping in between a
	// service's read and its guarded update.
	BeforeUpdateStatus func()
}

var _ ports.RequestRepository = (*MockRequestRepository)(nil)

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{requests: make(map[string]*domain.DonationRequest)}
}

func (m *MockRequestRepository) SeedRequest(req *domain.DonationRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
}

func (m *MockRequestRepository) Create(ctx context.Context, req domain.DonationRequest, outboxPayload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, req)
	m.OutboxPayloads = append(m.OutboxPayloads, outboxPayload)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.requests[req.ID] = &req
	return nil
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id string) (*domain.DonationRequest, error) {
	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (m *MockRequestRepository) List(ctx context.Context, f ports.RequestFilter) (*ports.RequestPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []domain.DonationRequest
	for _, req := range m.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.RequesterEmail != "" && req.RequesterEmail != f.RequesterEmail {
			continue
		}
		matched = append(matched, *req)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	if totalPages < 1 {
		totalPages = 1
	}
	page := f.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return &ports.RequestPage{
		Requests:   matched[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

func (m *MockRequestRepository) ListPending(ctx context.Context) ([]domain.DonationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.DonationRequest
	for _, req := range m.requests {
		if req.Status == domain.StatusPending {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockRequestRepository) ListRecent(ctx context.Context, requesterEmail string, limit int) ([]domain.DonationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.DonationRequest
	for _, req := range m.requests {
		if req.RequesterEmail == requesterEmail {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus, donorName, donorEmail string, outboxPayload []byte) (int64, error) {
	if m.BeforeUpdateStatus != nil {
		m.BeforeUpdateStatus()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, id)
	if m.UpdateStatusError != nil {
		return 0, m.UpdateStatusError
	}
	req, ok := m.requests[id]
	if !ok || req.Status != from {
		// Guarded update: the row already moved on.
		return 0, nil
	}
	req.Status = to
	if to == domain.StatusInProgress {
		req.DonorName = donorName
		req.DonorEmail = donorEmail
	}
	m.OutboxPayloads = append(m.OutboxPayloads, outboxPayload)
	return 1, nil
}

func (m *MockRequestRepository) UpdateFields(ctx context.Context, id string, edit ports.RequestEdit) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return 0, nil
	}
	req.RecipientName = edit.RecipientName
	req.RecipientDistrict = edit.RecipientDistrict
	req.RecipientUpazila = edit.RecipientUpazila
	req.HospitalName = edit.HospitalName
	req.FullAddress = edit.FullAddress
	req.BloodGroup = edit.BloodGroup
	req.DonationDate = edit.DonationDate
	req.DonationTime = edit.DonationTime
	req.RequestMessage = edit.RequestMessage
	return 1, nil
}

func (m *MockRequestRepository) Delete(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return 0, nil
	}
	delete(m.requests, id)
	return 1, nil
}

func (m *MockRequestRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.requests)), nil
}

// MockFundRepository implements ports.FundRepository for testing.
type MockFundRepository struct {
	mu    sync.RWMutex
	funds []domain.Fund

	CreateCalls []domain.Fund
	CreateError error
}

var _ ports.FundRepository = (*MockFundRepository)(nil)

func NewMockFundRepository() *MockFundRepository {
	return &MockFundRepository{}
}

func (m *MockFundRepository) Create(ctx context.Context, fund domain.Fund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, fund)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.funds = append(m.funds, fund)
	return nil
}

func (m *MockFundRepository) List(ctx context.Context) ([]domain.Fund, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Fund, len(m.funds))
	copy(out, m.funds)
	return out, nil
}

func (m *MockFundRepository) TotalAmount(ctx context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, f := range m.funds {
		total += f.Amount
	}
	return total, nil
}
