package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/qrpass"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/database"
)

const qrPassColumns = `
	id, org_id, location_id, code, date, expires_at, used_at, used_by, created_at`

type qrPassRepository struct {
	db *database.DB
}

func NewQRPassRepository(db *database.DB) qrpass.Repository {
	return &qrPassRepository{db: db}
}

func scanPass(row pgx.Row) (qrpass.Pass, error) {
	var p qrpass.Pass
	err := row.Scan(
		&p.ID, &p.OrgID, &p.LocationID, &p.Code, &p.Date,
		&p.ExpiresAt, &p.UsedAt, &p.UsedBy, &p.CreatedAt,
	)
	return p, err
}

// Create implements qrpass.Repository.
func (r *qrPassRepository) Create(ctx context.Context, p qrpass.Pass) (qrpass.Pass, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO qr_passes (org_id, location_id, code, date, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		p.OrgID, p.LocationID, p.Code, p.Date, p.ExpiresAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return qrpass.Pass{}, fmt.Errorf("failed to create QR pass: %w", err)
	}

	return p, nil
}

// GetByID implements qrpass.Repository.
func (r *qrPassRepository) GetByID(ctx context.Context, id, orgID string) (qrpass.Pass, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + qrPassColumns + ` FROM qr_passes WHERE id = $1 AND org_id = $2`

	p, err := scanPass(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return qrpass.Pass{}, qrpass.ErrPassNotFound
		}
		return qrpass.Pass{}, fmt.Errorf("failed to get QR pass: %w", err)
	}

	return p, nil
}

// GetByCode implements qrpass.Repository.
func (r *qrPassRepository) GetByCode(ctx context.Context, code string) (qrpass.Pass, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + qrPassColumns + ` FROM qr_passes WHERE code = $1`

	p, err := scanPass(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return qrpass.Pass{}, qrpass.ErrPassNotFound
		}
		return qrpass.Pass{}, fmt.Errorf("failed to get QR pass by code: %w", err)
	}

	return p, nil
}

// MarkUsed implements qrpass.Repository. The used_at predicate makes the
// claim atomic; the second of two concurrent redemptions matches zero
// rows.
func (r *qrPassRepository) MarkUsed(ctx context.Context, id, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE qr_passes SET used_at = NOW(), used_by = $1
		WHERE id = $2 AND used_at IS NULL
	`, employeeID, id)
	if err != nil {
		return fmt.Errorf("failed to mark QR pass used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, eerr := r.exists(ctx, id)
		if eerr == nil && !exists {
			return qrpass.ErrPassNotFound
		}
		return qrpass.ErrPassUsed
	}
	return nil
}

// Release implements qrpass.Repository.
func (r *qrPassRepository) Release(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE qr_passes SET used_at = NULL, used_by = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to release QR pass: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return qrpass.ErrPassNotFound
	}
	return nil
}

func (r *qrPassRepository) exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var found bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM qr_passes WHERE id = $1)`, id).Scan(&found)
	return found, err
}
