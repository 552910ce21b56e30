package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/domain/event"
	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
)

// AttendanceJobs holds the background maintenance jobs for attendance
// records: closing days whose owner forgot to check out and recording
// absences for scheduled days with no check-in at all.
type AttendanceJobs struct {
	records   attendance.Repository
	employees employee.Store
	resolver  shift.Resolver
	sink      event.Sink
	graceTime time.Duration
	clock     func() time.Time
}

func NewAttendanceJobs(
	records attendance.Repository,
	employees employee.Store,
	resolver shift.Resolver,
	sink event.Sink,
) *AttendanceJobs {
	return &AttendanceJobs{
		records:   records,
		employees: employees,
		resolver:  resolver,
		sink:      sink,
		graceTime: 2 * time.Hour,
		clock:     time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_days", 1*time.Hour, j.AutoCloseStaleDays)
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// AutoCloseStaleDays completes records from previous days that never got
// a check-out. The synthetic check-out lands at the scheduled shift end
// (or the end of the record's day when no shift applies), never at the
// moment the job happens to run.
func (j *AttendanceJobs) AutoCloseStaleDays(ctx context.Context) error {
	// UTC "today" is the latest calendar date anywhere; anything at or
	// after it is still possibly in progress.
	today := j.clock().UTC().Format("2006-01-02")

	stale, err := j.records.ListOpenBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list open records: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	closedCount := 0
	for _, rec := range stale {
		closed, err := j.closeStaleRecord(ctx, rec)
		if err != nil {
			slog.Error("Cron: failed to auto-close record",
				"record_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			continue
		}
		if closed {
			closedCount++
		}
	}

	if closedCount > 0 {
		slog.Info("Cron: auto-closed stale attendance days", "count", closedCount)
	}
	return nil
}

func (j *AttendanceJobs) closeStaleRecord(ctx context.Context, rec attendance.Record) (bool, error) {
	emp, err := j.employees.GetByID(ctx, rec.EmployeeID, rec.OrgID)
	if err != nil {
		return false, err
	}

	loc, err := time.LoadLocation(emp.Timezone)
	if err != nil {
		loc = time.UTC
	}

	day, err := time.ParseInLocation("2006-01-02", rec.Date, loc)
	if err != nil {
		return false, err
	}

	// Scheduled end of the record's day; end of day when no shift
	// applied.
	closeAt := day.AddDate(0, 0, 1)
	resolved, err := j.resolver.Resolve(ctx, rec.EmployeeID, rec.OrgID, shift.ResolveDate{
		Date:    rec.Date,
		Weekday: shift.ISOWeekday(day),
	})
	if err != nil {
		return false, err
	}
	if resolved != nil {
		closeAt = day.Add(time.Duration(resolved.EndMinutes) * time.Minute)
	}

	// Still inside the grace window; leave it for a later run.
	if j.clock().Before(closeAt.Add(j.graceTime)) {
		return false, nil
	}

	closeAtUTC := closeAt.UTC()

	if rec.State == attendance.StateOnBreak && rec.BreakStartedAt != nil {
		if mins := int(closeAtUTC.Sub(*rec.BreakStartedAt).Minutes()); mins > 0 {
			rec.BreakMinutes += mins
		}
		rec.BreakStartedAt = nil
	}

	rec.CheckOutAt = &closeAtUTC
	rec.State = attendance.StateCompleted
	if rec.Notes != "" {
		rec.Notes += " | "
	}
	rec.Notes += "auto-closed: no check-out recorded"

	if _, err := j.records.Update(ctx, rec); err != nil {
		return false, err
	}

	j.emit(ctx, event.Event{
		OrgID:      rec.OrgID,
		EmployeeID: rec.EmployeeID,
		Type:       event.TypeDayAutoClosed,
		Message:    fmt.Sprintf("attendance for %s was closed automatically", rec.Date),
		Data: map[string]interface{}{
			"record_id": rec.ID,
			"date":      rec.Date,
		},
	})
	return true, nil
}

// MarkAbsentEmployees records an absence for every active employee who
// had a shift yesterday and never checked in. The unique index behind
// Create makes reruns harmless.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	orgIDs, err := j.employees.ListOrgIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orgs: %w", err)
	}

	totalAbsent := 0
	for _, orgID := range orgIDs {
		employees, err := j.employees.ListActive(ctx, orgID)
		if err != nil {
			slog.Error("Cron: failed to list employees", "org_id", orgID, "error", err)
			continue
		}

		for _, emp := range employees {
			marked, err := j.markAbsentIfMissing(ctx, emp)
			if err != nil {
				slog.Error("Cron: failed to mark absence",
					"employee_id", emp.ID,
					"error", err)
				continue
			}
			if marked {
				totalAbsent++
			}
		}
	}

	if totalAbsent > 0 {
		slog.Info("Cron: marked absent employees", "count", totalAbsent)
	}
	return nil
}

func (j *AttendanceJobs) markAbsentIfMissing(ctx context.Context, emp employee.Employee) (bool, error) {
	loc, err := time.LoadLocation(emp.Timezone)
	if err != nil {
		loc = time.UTC
	}

	yesterday := j.clock().In(loc).AddDate(0, 0, -1)
	date := yesterday.Format("2006-01-02")

	resolved, err := j.resolver.Resolve(ctx, emp.ID, emp.OrgID, shift.ResolveDate{
		Date:    date,
		Weekday: shift.ISOWeekday(yesterday),
	})
	if err != nil {
		return false, err
	}
	if resolved == nil {
		// Not scheduled to work; nothing to record.
		return false, nil
	}

	existing, err := j.records.GetByEmployeeAndDate(ctx, emp.ID, date, emp.OrgID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	_, err = j.records.Create(ctx, attendance.Record{
		EmployeeID: emp.ID,
		OrgID:      emp.OrgID,
		Date:       date,
		ShiftID:    &resolved.ShiftID,
		State:      attendance.StateCompleted,
		Status:     attendance.StatusAbsent,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return false, nil
		}
		return false, err
	}

	j.emit(ctx, event.Event{
		OrgID:      emp.OrgID,
		EmployeeID: emp.ID,
		Type:       event.TypeMarkedAbsent,
		Message:    fmt.Sprintf("%s was marked absent for %s", emp.FullName, date),
		Data: map[string]interface{}{
			"employee_id": emp.ID,
			"date":        date,
			"shift_id":    resolved.ShiftID,
		},
	})
	return true, nil
}

func (j *AttendanceJobs) emit(ctx context.Context, e event.Event) {
	if j.sink == nil {
		return
	}
	if err := j.sink.Emit(ctx, e); err != nil {
		slog.Warn("Cron: event emit failed", "type", string(e.Type), "error", err)
	}
}
