package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/database"
)

type shiftStore struct {
	db *database.DB
}

func NewShiftStore(db *database.DB) shift.Store {
	return &shiftStore{db: db}
}

// CreateWindow implements shift.Store.
func (s *shiftStore) CreateWindow(ctx context.Context, w shift.Window) (shift.Window, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shift_windows (org_id, name, start_time, end_time, days_of_week)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		w.OrgID, w.Name, w.StartTime, w.EndTime, w.DaysOfWeek,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return shift.Window{}, fmt.Errorf("failed to create shift window: %w", err)
	}

	return w, nil
}

// GetWindow implements shift.Store.
func (s *shiftStore) GetWindow(ctx context.Context, id, orgID string) (shift.Window, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, org_id, name, start_time, end_time, days_of_week, created_at, updated_at
		FROM shift_windows
		WHERE id = $1 AND org_id = $2
	`

	var w shift.Window
	err := q.QueryRow(ctx, query, id, orgID).Scan(
		&w.ID, &w.OrgID, &w.Name, &w.StartTime, &w.EndTime, &w.DaysOfWeek,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Window{}, shift.ErrShiftNotFound
		}
		return shift.Window{}, fmt.Errorf("failed to get shift window: %w", err)
	}

	return w, nil
}

// ListWindows implements shift.Store.
func (s *shiftStore) ListWindows(ctx context.Context, orgID string) ([]shift.Window, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, org_id, name, start_time, end_time, days_of_week, created_at, updated_at
		FROM shift_windows
		WHERE org_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift windows: %w", err)
	}
	defer rows.Close()

	var windows []shift.Window
	for rows.Next() {
		var w shift.Window
		if err := rows.Scan(
			&w.ID, &w.OrgID, &w.Name, &w.StartTime, &w.EndTime, &w.DaysOfWeek,
			&w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift window: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift windows: %w", err)
	}

	return windows, nil
}

// UpdateWindow implements shift.Store.
func (s *shiftStore) UpdateWindow(ctx context.Context, w shift.Window) (shift.Window, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE shift_windows SET
			name = $1,
			start_time = $2,
			end_time = $3,
			days_of_week = $4,
			updated_at = NOW()
		WHERE id = $5 AND org_id = $6
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		w.Name, w.StartTime, w.EndTime, w.DaysOfWeek, w.ID, w.OrgID,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Window{}, shift.ErrShiftNotFound
		}
		return shift.Window{}, fmt.Errorf("failed to update shift window: %w", err)
	}

	return w, nil
}

// DeleteWindow implements shift.Store. The window and its assignments
// go together so the resolver never sees assignments pointing at a
// half-deleted window.
func (s *shiftStore) DeleteWindow(ctx context.Context, id, orgID string) error {
	return WithTransaction(ctx, s.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, s.db)

		tag, err := q.Exec(ctx, `DELETE FROM shift_windows WHERE id = $1 AND org_id = $2`, id, orgID)
		if err != nil {
			return fmt.Errorf("failed to delete shift window: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shift.ErrShiftNotFound
		}

		if _, err := q.Exec(ctx, `DELETE FROM shift_assignments WHERE shift_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete shift assignments: %w", err)
		}
		return nil
	})
}

// CreateAssignment implements shift.Store.
func (s *shiftStore) CreateAssignment(ctx context.Context, a shift.Assignment) (shift.Assignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shift_assignments (employee_id, shift_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.ShiftID, a.StartDate, a.EndDate,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return shift.Assignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return a, nil
}

// ListAssignments implements shift.Store.
func (s *shiftStore) ListAssignments(ctx context.Context, employeeID string) ([]shift.Assignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, employee_id, shift_id, start_date, end_date, created_at
		FROM shift_assignments
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.Assignment
	for rows.Next() {
		var a shift.Assignment
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.ShiftID, &a.StartDate, &a.EndDate, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift assignments: %w", err)
	}

	return assignments, nil
}

// DeleteAssignment implements shift.Store.
func (s *shiftStore) DeleteAssignment(ctx context.Context, id string) error {
	q := GetQuerier(ctx, s.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}
