package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/database"
)

const employeeColumns = `
	id, org_id, code, full_name, timezone, role, password_hash, is_active, created_at, updated_at`

type employeeStore struct {
	db *database.DB
}

func NewEmployeeStore(db *database.DB) employee.Store {
	return &employeeStore{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.OrgID, &e.Code, &e.FullName, &e.Timezone, &e.Role,
		&e.PasswordHash, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.Store.
func (s *employeeStore) GetByID(ctx context.Context, id, orgID string) (employee.Employee, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND org_id = $2`

	e, err := scanEmployee(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// GetByCode implements employee.Store. Codes are globally unique; this
// is the login lookup, so it runs before any org is known.
func (s *employeeStore) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE code = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}

	return e, nil
}

// ListActive implements employee.Store.
func (s *employeeStore) ListActive(ctx context.Context, orgID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE org_id = $1 AND is_active = TRUE
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// ListOrgIDs implements employee.Store.
func (s *employeeStore) ListOrgIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT org_id FROM employees
		WHERE is_active = TRUE
		ORDER BY org_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list org IDs: %w", err)
	}
	defer rows.Close()

	var orgIDs []string
	for rows.Next() {
		var orgID string
		if err := rows.Scan(&orgID); err != nil {
			return nil, fmt.Errorf("failed to scan org ID: %w", err)
		}
		orgIDs = append(orgIDs, orgID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate org IDs: %w", err)
	}

	return orgIDs, nil
}
