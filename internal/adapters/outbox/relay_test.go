package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roktoapp/donation-service/internal/core/ports"
	"github.com/roktoapp/donation-service/test/mocks"
)

// The processing tests need a real outbox table because the relay's whole
// job is row locking and processed_at bookkeeping. They run against the
// database named by TEST_DB_CONNECTION_STRING and skip otherwise; the
// health and publisher tests alongside run everywhere.
func relayTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	dsn := os.Getenv("TEST_DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("TEST_DB_CONNECTION_STRING not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMPTZ
	)`)
	require.NoError(t, err)
	_, err = db.Exec("DELETE FROM outbox_events")
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM outbox_events")
		db.Close()
	})
	return db, dsn
}

func insertOutboxRow(t *testing.T, db *sql.DB, eventType string, payload []byte) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		"INSERT INTO outbox_events (id, event_type, payload) VALUES ($1, $2, $3)",
		id, eventType, payload)
	require.NoError(t, err)
	return id
}

func unprocessedCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM outbox_events WHERE processed_at IS NULL").Scan(&n))
	return n
}

func TestProcessUnprocessedEvents_DrainsBacklog(t *testing.T) {
	db, dsn := relayTestDB(t)
	publisher := mocks.NewMockEventPublisher()
	relay := NewRelay(db, dsn, publisher)

	created, err := json.Marshal(ports.RequestCreatedEvent{
		RequestID:         "req-1",
		RequesterEmail:    "alice@example.com",
		BloodGroup:        "O-",
		RecipientDistrict: "Dhaka",
	})
	require.NoError(t, err)
	changed, err := json.Marshal(ports.RequestStatusChangedEvent{
		RequestID:  "req-1",
		From:       "pending",
		To:         "inprogress",
		DonorEmail: "jane@x.com",
	})
	require.NoError(t, err)

	insertOutboxRow(t, db, ports.EventRequestCreated, created)
	insertOutboxRow(t, db, ports.EventRequestStatusChanged, changed)

	require.NoError(t, relay.processUnprocessedEvents(context.Background()))

	require.Len(t, publisher.Published, 2)
	assert.Equal(t, 0, unprocessedCount(t, db))

	// The stored payload must survive the trip to the broker unchanged.
	for _, msg := range publisher.Published {
		switch msg.EventType {
		case ports.EventRequestCreated:
			var evt ports.RequestCreatedEvent
			require.NoError(t, json.Unmarshal(msg.Payload, &evt))
			assert.Equal(t, "req-1", evt.RequestID)
			assert.Equal(t, "O-", evt.BloodGroup)
		case ports.EventRequestStatusChanged:
			var evt ports.RequestStatusChangedEvent
			require.NoError(t, json.Unmarshal(msg.Payload, &evt))
			assert.Equal(t, "inprogress", evt.To)
			assert.Equal(t, "jane@x.com", evt.DonorEmail)
		default:
			t.Fatalf("unexpected event type %q", msg.EventType)
		}
	}
}

func TestProcessUnprocessedEvents_FailedPublishStaysUnprocessed(t *testing.T) {
	db, dsn := relayTestDB(t)
	publisher := mocks.NewMockEventPublisher()
	publisher.PublishError = errors.New("broker unavailable")
	relay := NewRelay(db, dsn, publisher)

	payload, err := json.Marshal(ports.FundRecordedEvent{
		FundID: "f1", Email: "alice@example.com", Amount: 25, TransactionID: "pi_1",
	})
	require.NoError(t, err)
	insertOutboxRow(t, db, ports.EventFundRecorded, payload)

	// Per-event failures are logged, not returned; the row stays pending.
	require.NoError(t, relay.processUnprocessedEvents(context.Background()))
	assert.Empty(t, publisher.Published)
	assert.Equal(t, 1, unprocessedCount(t, db))

	// Broker comes back: the next batch delivers and marks it.
	publisher.PublishError = nil
	require.NoError(t, relay.processUnprocessedEvents(context.Background()))
	require.Len(t, publisher.Published, 1)
	assert.Equal(t, ports.EventFundRecorded, publisher.Published[0].EventType)
	assert.Equal(t, 0, unprocessedCount(t, db))
}

func TestProcessEventByID_MarksProcessedExactlyOnce(t *testing.T) {
	db, dsn := relayTestDB(t)
	publisher := mocks.NewMockEventPublisher()
	relay := NewRelay(db, dsn, publisher)

	payload, err := json.Marshal(ports.RequestCreatedEvent{RequestID: "req-9"})
	require.NoError(t, err)
	id := insertOutboxRow(t, db, ports.EventRequestCreated, payload)

	require.NoError(t, relay.processEventByID(context.Background(), id))
	require.Len(t, publisher.Published, 1)
	assert.Equal(t, 0, unprocessedCount(t, db))

	// A duplicate notification for a processed row is a no-op.
	require.NoError(t, relay.processEventByID(context.Background(), id))
	assert.Len(t, publisher.Published, 1)
}

func TestRelay_HealthAndReadiness(t *testing.T) {
	relay := NewRelay(nil, "", mocks.NewMockEventPublisher())

	assert.True(t, relay.IsHealthy())
	assert.True(t, relay.IsReady())

	// A relay that has not moved an event past the stale window is not
	// ready, even while the process itself is alive.
	relay.lastProcessed = time.Now().Add(-10 * time.Minute)
	assert.True(t, relay.IsHealthy())
	assert.False(t, relay.IsReady())

	relay.isHealthy = false
	assert.False(t, relay.IsHealthy())
	assert.False(t, relay.IsReady())
}
