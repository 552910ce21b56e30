package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/domain/event"
	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/geo"
)

const notesSeparator = " | "

// Config carries the engine's policy knobs. The two lateness thresholds
// are intentionally independent: the status threshold decides whether
// the day is recorded as late, the warning threshold decides whether a
// late-warning event is emitted.
type Config struct {
	LateStatusThresholdMinutes  int // default 30
	LateWarningThresholdMinutes int // default 15
	EventTimeout                time.Duration
}

func (c Config) withDefaults() Config {
	if c.LateStatusThresholdMinutes == 0 {
		c.LateStatusThresholdMinutes = 30
	}
	if c.LateWarningThresholdMinutes == 0 {
		c.LateWarningThresholdMinutes = 15
	}
	if c.EventTimeout == 0 {
		c.EventTimeout = 2 * time.Second
	}
	return c
}

// ServiceImpl is the attendance recording engine. It holds no mutable
// state of its own; all shared state lives behind the repository, which
// is the serialization point for concurrent requests.
type ServiceImpl struct {
	records   attendance.Repository
	resolver  shift.Resolver
	locations location.Store
	employees employee.Store
	sink      event.Sink
	cfg       Config
	clock     attendance.Clock
}

// Option customizes the engine at construction time.
type Option func(*ServiceImpl)

// WithClock pins the engine's notion of now. Tests use this.
func WithClock(clock attendance.Clock) Option {
	return func(s *ServiceImpl) { s.clock = clock }
}

func NewAttendanceService(
	records attendance.Repository,
	resolver shift.Resolver,
	locations location.Store,
	employees employee.Store,
	sink event.Sink,
	cfg Config,
	opts ...Option,
) attendance.Service {
	s := &ServiceImpl{
		records:   records,
		resolver:  resolver,
		locations: locations,
		employees: employees,
		sink:      sink,
		cfg:       cfg.withDefaults(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// localTimes loads the employee's timezone and derives the engine's
// three views of now: the UTC instant to persist, the local wall clock
// for minute math, and the local calendar date that keys the record.
func (s *ServiceImpl) localTimes(ctx context.Context, employeeID, orgID string) (nowUTC time.Time, nowLocal time.Time, date string, err error) {
	emp, err := s.employees.GetByID(ctx, employeeID, orgID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return time.Time{}, time.Time{}, "", employee.ErrEmployeeNotFound
		}
		return time.Time{}, time.Time{}, "", fmt.Errorf("failed to get employee: %w", err)
	}

	loc, err := time.LoadLocation(emp.Timezone)
	if err != nil {
		loc = time.UTC
	}

	nowUTC = s.clock().UTC()
	nowLocal = nowUTC.In(loc)
	return nowUTC, nowLocal, nowLocal.Format("2006-01-02"), nil
}

// verifyLocation runs the geofence check for a request. When the
// request names no registered location, or carries no coordinates, the
// check is skipped and a geofence-skipped event records that fact; this
// escape hatch is preserved deliberately rather than silently closed.
func (s *ServiceImpl) verifyLocation(ctx context.Context, req attendance.ActionRequest) error {
	if req.LocationID == nil || *req.LocationID == "" {
		s.emit(event.Event{
			OrgID:      req.OrgID,
			EmployeeID: req.EmployeeID,
			Type:       event.TypeGeofenceSkipped,
			Message:    "no registered location on request; geofence check skipped",
			Data:       map[string]interface{}{"action": string(req.Action)},
		})
		return nil
	}

	loc, err := s.locations.Get(ctx, *req.LocationID, req.OrgID)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return location.ErrLocationNotFound
		}
		return fmt.Errorf("failed to get location: %w", err)
	}

	if req.Latitude == nil || req.Longitude == nil {
		s.emit(event.Event{
			OrgID:      req.OrgID,
			EmployeeID: req.EmployeeID,
			Type:       event.TypeGeofenceSkipped,
			Message:    "no device coordinates on request; geofence check skipped",
			Data:       map[string]interface{}{"action": string(req.Action), "location_id": loc.ID},
		})
		return nil
	}

	reported := geo.Coordinate{Lat: *req.Latitude, Lng: *req.Longitude}
	registered := geo.Coordinate{Lat: loc.Latitude, Lng: loc.Longitude}

	d := geo.DistanceMeters(reported, registered)
	if d > loc.RadiusMeters {
		return &attendance.OutOfRangeError{
			LocationName:   loc.Name,
			DistanceMeters: d,
			RadiusMeters:   loc.RadiusMeters,
		}
	}
	return nil
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// CheckIn implements attendance.Service.
func (s *ServiceImpl) CheckIn(ctx context.Context, req attendance.ActionRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	nowUTC, nowLocal, date, err := s.localTimes(ctx, req.EmployeeID, req.OrgID)
	if err != nil {
		return attendance.Record{}, err
	}

	// Fast path only; the unique index behind Create is the real guard.
	existing, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, date, req.OrgID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if existing != nil && existing.CheckInAt != nil {
		return *existing, attendance.ErrAlreadyCheckedIn
	}

	if err := s.verifyLocation(ctx, req); err != nil {
		return attendance.Record{}, err
	}

	resolved, err := s.resolver.Resolve(ctx, req.EmployeeID, req.OrgID, shift.ResolveDate{
		Date:    date,
		Weekday: shift.ISOWeekday(nowLocal),
	})
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	lateMinutes := 0
	var shiftID *string
	if resolved != nil {
		shiftID = &resolved.ShiftID
		if diff := minutesOfDay(nowLocal) - resolved.StartMinutes; diff > 0 {
			lateMinutes = diff
		}
	}

	status := attendance.StatusPresent
	if lateMinutes > s.cfg.LateStatusThresholdMinutes {
		status = attendance.StatusLate
	}

	rec := attendance.Record{
		EmployeeID:      req.EmployeeID,
		OrgID:           req.OrgID,
		Date:            date,
		ShiftID:         shiftID,
		CheckInAt:       &nowUTC,
		CheckInLat:      req.Latitude,
		CheckInLng:      req.Longitude,
		CheckInAccuracy: req.Accuracy,
		State:           attendance.StateWorking,
		Status:          status,
		LateMinutes:     lateMinutes,
		Notes:           req.Notes,
	}

	created, err := s.records.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			// Lost a race (or the client retried); re-read so the caller
			// gets the record that actually won.
			winner, rerr := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, date, req.OrgID)
			if rerr == nil && winner != nil {
				return *winner, attendance.ErrAlreadyCheckedIn
			}
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	s.emit(event.Event{
		OrgID:      req.OrgID,
		EmployeeID: req.EmployeeID,
		Type:       event.TypeCheckIn,
		Message:    fmt.Sprintf("checked in at %s", nowLocal.Format("15:04")),
		Data: map[string]interface{}{
			"record_id":    created.ID,
			"date":         created.Date,
			"late_minutes": created.LateMinutes,
			"status":       string(created.Status),
		},
	})
	if lateMinutes > s.cfg.LateWarningThresholdMinutes {
		s.emit(event.Event{
			OrgID:      req.OrgID,
			EmployeeID: req.EmployeeID,
			Type:       event.TypeLateWarning,
			Message:    fmt.Sprintf("checked in %d minutes late", lateMinutes),
			Data: map[string]interface{}{
				"record_id":    created.ID,
				"date":         created.Date,
				"late_minutes": lateMinutes,
			},
		})
	}

	return created, nil
}

// CheckOut implements attendance.Service.
func (s *ServiceImpl) CheckOut(ctx context.Context, req attendance.ActionRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	nowUTC, nowLocal, date, err := s.localTimes(ctx, req.EmployeeID, req.OrgID)
	if err != nil {
		return attendance.Record{}, err
	}

	rec, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, date, req.OrgID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil || rec.CheckInAt == nil {
		return attendance.Record{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOutAt != nil {
		return *rec, attendance.ErrAlreadyCheckedOut
	}

	if err := s.verifyLocation(ctx, req); err != nil {
		return attendance.Record{}, err
	}

	if !nowUTC.After(*rec.CheckInAt) {
		return attendance.Record{}, attendance.ErrInvalidTimestamp
	}

	fromState := rec.State

	// A forgotten break-end must not wedge the day: close the open
	// break and fold it into the total before completing.
	if rec.State == attendance.StateOnBreak && rec.BreakStartedAt != nil {
		if mins := int(nowUTC.Sub(*rec.BreakStartedAt).Minutes()); mins > 0 {
			rec.BreakMinutes += mins
		}
		rec.BreakStartedAt = nil
	}

	// Recomputing the resolution here is acceptable; the ShiftID frozen
	// at check-in is what reporting reads.
	resolved, err := s.resolver.Resolve(ctx, req.EmployeeID, req.OrgID, shift.ResolveDate{
		Date:    date,
		Weekday: shift.ISOWeekday(nowLocal),
	})
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	overtimeMinutes := 0
	if resolved != nil {
		if diff := minutesOfDay(nowLocal) - resolved.EndMinutes; diff > 0 {
			overtimeMinutes = diff
		}
	}

	rec.CheckOutAt = &nowUTC
	rec.CheckOutLat = req.Latitude
	rec.CheckOutLng = req.Longitude
	rec.CheckOutAccuracy = req.Accuracy
	rec.OvertimeMinutes = overtimeMinutes
	rec.State = attendance.StateCompleted
	rec.Notes = appendNotes(rec.Notes, req.Notes)

	updated, err := s.records.Transition(ctx, *rec, fromState)
	if err != nil {
		if errors.Is(err, attendance.ErrStateConflict) {
			return s.resolveConflict(ctx, req.EmployeeID, date, req.OrgID)
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	s.emit(event.Event{
		OrgID:      req.OrgID,
		EmployeeID: req.EmployeeID,
		Type:       event.TypeCheckOut,
		Message:    fmt.Sprintf("checked out at %s", nowLocal.Format("15:04")),
		Data: map[string]interface{}{
			"record_id":        updated.ID,
			"date":             updated.Date,
			"overtime_minutes": updated.OvertimeMinutes,
			"break_minutes":    updated.BreakMinutes,
		},
	})

	return updated, nil
}

// StartBreak implements attendance.Service.
func (s *ServiceImpl) StartBreak(ctx context.Context, req attendance.ActionRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	nowUTC, _, date, err := s.localTimes(ctx, req.EmployeeID, req.OrgID)
	if err != nil {
		return attendance.Record{}, err
	}

	rec, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, date, req.OrgID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil || rec.CheckInAt == nil {
		return attendance.Record{}, fmt.Errorf("cannot start a break before check-in: %w", attendance.ErrInvalidState)
	}
	switch rec.State {
	case attendance.StateOnBreak:
		return attendance.Record{}, fmt.Errorf("already on a break: %w", attendance.ErrInvalidState)
	case attendance.StateCompleted:
		return attendance.Record{}, fmt.Errorf("cannot start a break after check-out: %w", attendance.ErrInvalidState)
	}

	rec.State = attendance.StateOnBreak
	rec.BreakStartedAt = &nowUTC
	rec.Notes = appendNotes(rec.Notes, req.Notes)

	updated, err := s.records.Transition(ctx, *rec, attendance.StateWorking)
	if err != nil {
		if errors.Is(err, attendance.ErrStateConflict) {
			return attendance.Record{}, fmt.Errorf("record changed concurrently: %w", attendance.ErrInvalidState)
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	s.emit(event.Event{
		OrgID:      req.OrgID,
		EmployeeID: req.EmployeeID,
		Type:       event.TypeBreakStart,
		Data:       map[string]interface{}{"record_id": updated.ID, "date": updated.Date},
	})

	return updated, nil
}

// EndBreak implements attendance.Service.
func (s *ServiceImpl) EndBreak(ctx context.Context, req attendance.ActionRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	nowUTC, _, date, err := s.localTimes(ctx, req.EmployeeID, req.OrgID)
	if err != nil {
		return attendance.Record{}, err
	}

	rec, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, date, req.OrgID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil || rec.CheckInAt == nil {
		return attendance.Record{}, fmt.Errorf("cannot end a break before check-in: %w", attendance.ErrInvalidState)
	}
	if rec.State != attendance.StateOnBreak || rec.BreakStartedAt == nil {
		return attendance.Record{}, fmt.Errorf("no break in progress: %w", attendance.ErrInvalidState)
	}

	if mins := int(nowUTC.Sub(*rec.BreakStartedAt).Minutes()); mins > 0 {
		rec.BreakMinutes += mins
	}
	rec.State = attendance.StateWorking
	rec.BreakStartedAt = nil
	rec.Notes = appendNotes(rec.Notes, req.Notes)

	updated, err := s.records.Transition(ctx, *rec, attendance.StateOnBreak)
	if err != nil {
		if errors.Is(err, attendance.ErrStateConflict) {
			return attendance.Record{}, fmt.Errorf("record changed concurrently: %w", attendance.ErrInvalidState)
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	s.emit(event.Event{
		OrgID:      req.OrgID,
		EmployeeID: req.EmployeeID,
		Type:       event.TypeBreakEnd,
		Data: map[string]interface{}{
			"record_id":     updated.ID,
			"date":          updated.Date,
			"break_minutes": updated.BreakMinutes,
		},
	})

	return updated, nil
}

// GetMyAttendance implements attendance.Service.
func (s *ServiceImpl) GetMyAttendance(ctx context.Context, employeeID, orgID string, filter attendance.ListFilter) (attendance.ListResult, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResult{}, err
	}

	filter.EmployeeID = &employeeID
	return s.list(ctx, orgID, filter)
}

// ListAttendance implements attendance.Service.
func (s *ServiceImpl) ListAttendance(ctx context.Context, orgID string, filter attendance.ListFilter) (attendance.ListResult, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResult{}, err
	}
	return s.list(ctx, orgID, filter)
}

func (s *ServiceImpl) list(ctx context.Context, orgID string, filter attendance.ListFilter) (attendance.ListResult, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	records, total, err := s.records.List(ctx, filter, orgID)
	if err != nil {
		return attendance.ListResult{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return attendance.ListResult{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    records,
	}, nil
}

// resolveConflict turns a lost check-out race into the specific error
// the caller expects, using the store as the source of truth.
func (s *ServiceImpl) resolveConflict(ctx context.Context, employeeID, date, orgID string) (attendance.Record, error) {
	rec, err := s.records.GetByEmployeeAndDate(ctx, employeeID, date, orgID)
	if err != nil || rec == nil {
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	}
	if rec.CheckOutAt != nil {
		return *rec, attendance.ErrAlreadyCheckedOut
	}
	return attendance.Record{}, fmt.Errorf("record changed concurrently: %w", attendance.ErrInvalidState)
}

// emit delivers an event to the sink, bounded by the configured
// timeout. Sink failures are logged and never escalate to the caller:
// audit delivery is best-effort, the attendance record is not.
func (s *ServiceImpl) emit(e event.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.EventTimeout)
	defer cancel()

	if err := s.sink.Emit(ctx, e); err != nil {
		slog.Warn("event sink emit failed",
			"type", string(e.Type),
			"employee_id", e.EmployeeID,
			"error", err)
	}
}

func appendNotes(existing, added string) string {
	if added == "" {
		return existing
	}
	if existing == "" {
		return added
	}
	return existing + notesSeparator + added
}
