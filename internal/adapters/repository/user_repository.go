package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, name, avatar, blood_group, district, upazila, role, status, created_at"

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.BloodGroup,
		&u.District, &u.Upazila, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, avatar, blood_group, district, upazila, role, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Email, user.Name, user.Avatar, user.BloodGroup,
		user.District, user.Upazila, user.Role, user.Status, user.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return user, err
}

// List returns users newest first, optionally narrowed to one status.
func (r *UserRepository) List(ctx context.Context, status domain.UserStatus) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, email string, upd ports.ProfileUpdate) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, blood_group = $2, district = $3, upazila = $4
		 WHERE email = $5`,
		upd.Name, upd.BloodGroup, upd.District, upd.Upazila, email,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET role = $1 WHERE id = $2", role, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SearchDonors filters donor profiles on any combination of blood group,
// district and upazila.
func (r *UserRepository) SearchDonors(ctx context.Context, f ports.DonorFilter) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE role = $1"
	args := []any{domain.RoleDonor}
	if f.BloodGroup != "" {
		args = append(args, f.BloodGroup)
		query += fmt.Sprintf(" AND blood_group = $%d", len(args))
	}
	if f.District != "" {
		args = append(args, f.District)
		query += fmt.Sprintf(" AND district = $%d", len(args))
	}
	if f.Upazila != "" {
		args = append(args, f.Upazila)
		query += fmt.Sprintf(" AND upazila = $%d", len(args))
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) CountDonors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role = $1", domain.RoleDonor).Scan(&count)
	return count, err
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}
