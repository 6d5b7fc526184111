package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

type RequestRepository struct {
	db *sql.DB
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, requester_name, requester_email, recipient_name,
	recipient_district, recipient_upazila, hospital_name, full_address,
	blood_group, donation_date, donation_time, request_message, status,
	donor_name, donor_email, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*domain.DonationRequest, error) {
	var req domain.DonationRequest
	var donorName, donorEmail sql.NullString
	err := row.Scan(&req.ID, &req.RequesterName, &req.RequesterEmail,
		&req.RecipientName, &req.RecipientDistrict, &req.RecipientUpazila,
		&req.HospitalName, &req.FullAddress, &req.BloodGroup,
		&req.DonationDate, &req.DonationTime, &req.RequestMessage,
		&req.Status, &donorName, &donorEmail, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	req.DonorName = donorName.String
	req.DonorEmail = donorEmail.String
	return &req, nil
}

// Create inserts the request together with its outbox event so the event
// cannot be lost or published for a request that never committed.
func (r *RequestRepository) Create(ctx context.Context, req domain.DonationRequest, outboxPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO donation_requests (id, requester_name, requester_email,
			recipient_name, recipient_district, recipient_upazila,
			hospital_name, full_address, blood_group, donation_date,
			donation_time, request_message, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		req.ID, req.RequesterName, req.RequesterEmail, req.RecipientName,
		req.RecipientDistrict, req.RecipientUpazila, req.HospitalName,
		req.FullAddress, req.BloodGroup, req.DonationDate, req.DonationTime,
		req.RequestMessage, req.Status, req.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventRequestCreated, outboxPayload); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.DonationRequest, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM donation_requests WHERE id = $1", id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return req, err
}

// List returns one page of requests newest first. The page number is
// clamped to the available range so an out-of-range request returns the
// nearest valid page rather than an empty one.
func (r *RequestRepository) List(ctx context.Context, f ports.RequestFilter) (*ports.RequestPage, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.RequesterEmail != "" {
		args = append(args, f.RequesterEmail)
		where += fmt.Sprintf(" AND requester_email = $%d", len(args))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM donation_requests"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

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

	args = append(args, f.Limit, (page-1)*f.Limit)
	query := fmt.Sprintf(
		"SELECT "+requestColumns+" FROM donation_requests"+where+
			" ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests, err := collectRequests(rows)
	if err != nil {
		return nil, err
	}
	return &ports.RequestPage{
		Requests:   requests,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

func (r *RequestRepository) ListPending(ctx context.Context) ([]domain.DonationRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM donation_requests WHERE status = $1 ORDER BY created_at DESC",
		domain.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *RequestRepository) ListRecent(ctx context.Context, requesterEmail string, limit int) ([]domain.DonationRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM donation_requests WHERE requester_email = $1 ORDER BY created_at DESC LIMIT $2",
		requesterEmail, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// UpdateStatus moves a request between statuses. The update is guarded on
// the status the caller validated against, so a concurrent transition
// makes this report zero rows instead of overwriting blindly. Donor fields
// are written only when entering inprogress; they are left alone on every
// other edge, cancel included.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus, donorName, donorEmail string, outboxPayload []byte) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var res sql.Result
	if to == domain.StatusInProgress {
		res, err = tx.ExecContext(ctx,
			`UPDATE donation_requests SET status = $1, donor_name = $2, donor_email = $3
			 WHERE id = $4 AND status = $5`,
			to, donorName, donorEmail, id, from)
	} else {
		res, err = tx.ExecContext(ctx,
			"UPDATE donation_requests SET status = $1 WHERE id = $2 AND status = $3",
			to, id, from)
	}
	if err != nil {
		return 0, err
	}

	modified, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if modified == 0 {
		// Lost the race; nothing to publish.
		return 0, tx.Commit()
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventRequestStatusChanged, outboxPayload); err != nil {
		return 0, err
	}
	return modified, tx.Commit()
}

func (r *RequestRepository) UpdateFields(ctx context.Context, id string, edit ports.RequestEdit) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE donation_requests SET recipient_name = $1, recipient_district = $2,
			recipient_upazila = $3, hospital_name = $4, full_address = $5,
			blood_group = $6, donation_date = $7, donation_time = $8,
			request_message = $9
		 WHERE id = $10`,
		edit.RecipientName, edit.RecipientDistrict, edit.RecipientUpazila,
		edit.HospitalName, edit.FullAddress, edit.BloodGroup,
		edit.DonationDate, edit.DonationTime, edit.RequestMessage, id,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *RequestRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM donation_requests WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donation_requests").Scan(&count)
	return count, err
}

func insertOutboxEvent(ctx context.Context, tx *sql.Tx, eventType string, payload []byte) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())",
		uuid.NewString(), eventType, payload)
	return err
}

func collectRequests(rows *sql.Rows) ([]domain.DonationRequest, error) {
	requests := []domain.DonationRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}
