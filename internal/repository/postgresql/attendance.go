package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/database"
)

const attendanceColumns = `
	id, employee_id, org_id, date, shift_id,
	check_in_at, check_in_latitude, check_in_longitude, check_in_accuracy,
	check_out_at, check_out_latitude, check_out_longitude, check_out_accuracy,
	state, status, late_minutes, overtime_minutes, break_minutes, break_started_at,
	notes, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.OrgID, &rec.Date, &rec.ShiftID,
		&rec.CheckInAt, &rec.CheckInLat, &rec.CheckInLng, &rec.CheckInAccuracy,
		&rec.CheckOutAt, &rec.CheckOutLat, &rec.CheckOutLng, &rec.CheckOutAccuracy,
		&rec.State, &rec.Status, &rec.LateMinutes, &rec.OvertimeMinutes, &rec.BreakMinutes, &rec.BreakStartedAt,
		&rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.Repository. The unique index on
// (employee_id, date) is what rejects a second record for the same day;
// its violation surfaces as ErrDuplicateRecord.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, org_id, date, shift_id,
			check_in_at, check_in_latitude, check_in_longitude, check_in_accuracy,
			state, status, late_minutes, overtime_minutes, break_minutes, break_started_at,
			notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.OrgID,
		rec.Date,
		rec.ShiftID,
		rec.CheckInAt,
		rec.CheckInLat,
		rec.CheckInLng,
		rec.CheckInAccuracy,
		rec.State,
		rec.Status,
		rec.LateMinutes,
		rec.OvertimeMinutes,
		rec.BreakMinutes,
		rec.BreakStartedAt,
		rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID, date, orgID string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date = $2
		  AND org_id = $3
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	return &rec, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id, orgID string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE id = $1 AND org_id = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// Transition implements attendance.Repository. The state predicate in
// the WHERE clause is the compare-and-swap; a lost race matches zero
// rows.
func (a *attendanceRepository) Transition(ctx context.Context, rec attendance.Record, from attendance.State) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			check_out_at = $1,
			check_out_latitude = $2,
			check_out_longitude = $3,
			check_out_accuracy = $4,
			state = $5,
			status = $6,
			overtime_minutes = $7,
			break_minutes = $8,
			break_started_at = $9,
			notes = $10,
			updated_at = NOW()
		WHERE id = $11
		  AND org_id = $12
		  AND state = $13
		RETURNING ` + attendanceColumns

	updated, err := scanRecord(q.QueryRow(ctx, query,
		rec.CheckOutAt,
		rec.CheckOutLat,
		rec.CheckOutLng,
		rec.CheckOutAccuracy,
		rec.State,
		rec.Status,
		rec.OvertimeMinutes,
		rec.BreakMinutes,
		rec.BreakStartedAt,
		rec.Notes,
		rec.ID,
		rec.OrgID,
		from,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, eerr := a.exists(ctx, rec.ID, rec.OrgID)
			if eerr == nil && !exists {
				return attendance.Record{}, attendance.ErrRecordNotFound
			}
			return attendance.Record{}, attendance.ErrStateConflict
		}
		return attendance.Record{}, fmt.Errorf("failed to transition attendance record: %w", err)
	}

	return updated, nil
}

func (a *attendanceRepository) exists(ctx context.Context, id, orgID string) (bool, error) {
	q := GetQuerier(ctx, a.db)

	var found bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendance_records WHERE id = $1 AND org_id = $2)`,
		id, orgID,
	).Scan(&found)
	return found, err
}

// Update implements attendance.Repository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			check_out_at = $1,
			check_out_latitude = $2,
			check_out_longitude = $3,
			check_out_accuracy = $4,
			state = $5,
			status = $6,
			late_minutes = $7,
			overtime_minutes = $8,
			break_minutes = $9,
			break_started_at = $10,
			notes = $11,
			updated_at = NOW()
		WHERE id = $12
		  AND org_id = $13
		RETURNING ` + attendanceColumns

	updated, err := scanRecord(q.QueryRow(ctx, query,
		rec.CheckOutAt,
		rec.CheckOutLat,
		rec.CheckOutLng,
		rec.CheckOutAccuracy,
		rec.State,
		rec.Status,
		rec.LateMinutes,
		rec.OvertimeMinutes,
		rec.BreakMinutes,
		rec.BreakStartedAt,
		rec.Notes,
		rec.ID,
		rec.OrgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return updated, nil
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter, orgID string) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "org_id = $1"
	args := []interface{}{orgID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendance_records WHERE ` + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	orderByField := "date"
	switch filter.SortBy {
	case "check_in_at":
		orderByField = "check_in_at"
	case "check_out_at":
		orderByField = "check_out_at"
	case "status":
		orderByField = "status"
	case "late_minutes":
		orderByField = "late_minutes"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records
		WHERE %s
		ORDER BY %s %s, employee_id ASC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// ListOpenBefore implements attendance.Repository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, date string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE date < $1
		  AND state != $2
		  AND status != $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, date, attendance.StateCompleted, attendance.StatusAbsent)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}
