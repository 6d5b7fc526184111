package ports

import "context"

// Outbox event types. The relay forwards the stored payload verbatim and
// stamps the type on the message so downstream consumers (notification
// senders and the like) can route without re-parsing.
const (
	EventRequestCreated       = "request.created"
	EventRequestStatusChanged = "request.status_changed"
	EventFundRecorded         = "fund.recorded"
)

type RequestCreatedEvent struct {
	RequestID         string `json:"request_id"`
	RequesterEmail    string `json:"requester_email"`
	BloodGroup        string `json:"blood_group"`
	RecipientDistrict string `json:"recipient_district"`
	RecipientUpazila  string `json:"recipient_upazila"`
	DonationDate      string `json:"donation_date"`
}

type RequestStatusChangedEvent struct {
	RequestID  string `json:"request_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	DonorEmail string `json:"donor_email,omitempty"`
}

type FundRecordedEvent struct {
	FundID        string  `json:"fund_id"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

// EventPublisher delivers outbox events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}
