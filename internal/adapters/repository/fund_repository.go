package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

type FundRepository struct {
	db *sql.DB
}

var _ ports.FundRepository = (*FundRepository)(nil)

func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// Create persists the fund and emits its outbox event in one transaction.
// transaction_id carries a unique index, so replaying the same confirmed
// payment cannot produce a second record.
func (r *FundRepository) Create(ctx context.Context, fund domain.Fund) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO funds (id, name, email, amount, transaction_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fund.ID, fund.Name, fund.Email, fund.Amount, fund.TransactionID, fund.CreatedAt,
	)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ports.FundRecordedEvent{
		FundID:        fund.ID,
		Email:         fund.Email,
		Amount:        fund.Amount,
		TransactionID: fund.TransactionID,
	})
	if err != nil {
		return err
	}
	if err := insertOutboxEvent(ctx, tx, ports.EventFundRecorded, payload); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *FundRepository) List(ctx context.Context) ([]domain.Fund, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, amount, transaction_id, created_at FROM funds ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	funds := []domain.Fund{}
	for rows.Next() {
		var f domain.Fund
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Amount, &f.TransactionID, &f.CreatedAt); err != nil {
			return nil, err
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

func (r *FundRepository) TotalAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM funds").Scan(&total)
	return total, err
}
