package mocks

import (
	"context"
	"sync"

	"github.com/roktoapp/donation-service/internal/core/ports"
)

// MockEventPublisher implements ports.EventPublisher for testing.
type MockEventPublisher struct {
	mu sync.Mutex

	Published []PublishedEvent
	// Error injection
	PublishError error
}

type PublishedEvent struct {
	EventType string
	Payload   []byte
}

var _ ports.EventPublisher = (*MockEventPublisher)(nil)

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.Published = append(m.Published, PublishedEvent{EventType: eventType, Payload: payload})
	return nil
}

// MockPaymentGateway implements ports.PaymentGateway for testing.
type MockPaymentGateway struct {
	mu sync.Mutex

	IntentCalls []int64

	ClientSecret string
	CreateError  error
}

var _ ports.PaymentGateway = (*MockPaymentGateway)(nil)

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{ClientSecret: "pi_test_secret"}
}

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, amountCents int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntentCalls = append(m.IntentCalls, amountCents)
	if m.CreateError != nil {
		return "", m.CreateError
	}
	return m.ClientSecret, nil
}
