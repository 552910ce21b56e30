// Package memory provides in-process store implementations with the
// same atomicity contract as the PostgreSQL repositories. They back the
// engine tests and small single-node deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	mu      sync.Mutex
	byKey   map[string]string // employeeID|date -> record ID
	records map[string]attendance.Record
}

func NewAttendanceRepository() attendance.Repository {
	return &attendanceRepository{
		byKey:   make(map[string]string),
		records: make(map[string]attendance.Record),
	}
}

func key(employeeID, date string) string {
	return employeeID + "|" + date
}

// Create implements attendance.Repository. The mutex makes the
// existence check and insert a single atomic step, matching the unique
// index of the SQL store.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(rec.EmployeeID, rec.Date)
	if _, exists := r.byKey[k]; exists {
		return attendance.Record{}, attendance.ErrDuplicateRecord
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt

	r.byKey[k] = rec.ID
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID, date, orgID string) (*attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[key(employeeID, date)]
	if !ok {
		return nil, nil
	}
	rec := r.records[id]
	if rec.OrgID != orgID {
		return nil, nil
	}
	return &rec, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id, orgID string) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.OrgID != orgID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (r *attendanceRepository) Transition(ctx context.Context, rec attendance.Record, from attendance.State) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[rec.ID]
	if !ok || stored.OrgID != rec.OrgID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if stored.State != from {
		return attendance.Record{}, attendance.ErrStateConflict
	}

	rec.CreatedAt = stored.CreatedAt
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[rec.ID]
	if !ok || stored.OrgID != rec.OrgID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}

	rec.CreatedAt = stored.CreatedAt
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter, orgID string) ([]attendance.Record, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []attendance.Record
	for _, rec := range r.records {
		if rec.OrgID != orgID {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Date != nil && *filter.Date != "" && rec.Date != *filter.Date {
			continue
		}
		if filter.StartDate != nil && *filter.StartDate != "" && rec.Date < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && *filter.EndDate != "" && rec.Date > *filter.EndDate {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(rec.Status) != *filter.Status {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		return matched[i].EmployeeID < matched[j].EmployeeID
	})

	total := int64(len(matched))

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *attendanceRepository) ListOpenBefore(ctx context.Context, date string) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var open []attendance.Record
	for _, rec := range r.records {
		if rec.State != attendance.StateCompleted && rec.Status != attendance.StatusAbsent && rec.Date < date {
			open = append(open, rec)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Date < open[j].Date })
	return open, nil
}
