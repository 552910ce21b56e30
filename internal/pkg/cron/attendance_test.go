package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/domain/event"
	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
	"github.com/chronotrack/attendance-backend-go/internal/repository/memory"
	shiftsvc "github.com/chronotrack/attendance-backend-go/internal/service/shift"
)

type captureSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *captureSink) Emit(ctx context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *captureSink) count(t event.Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type jobFixture struct {
	jobs    *AttendanceJobs
	records attendance.Repository
	shifts  shift.Store
	sink    *captureSink
}

func newJobFixture(t *testing.T, now time.Time) *jobFixture {
	t.Helper()

	employees := memory.NewEmployeeStore(employee.Employee{
		ID:       "emp-1",
		OrgID:    "org-1",
		Code:     "E001",
		FullName: "Alex Kim",
		Timezone: "UTC",
		Role:     employee.RoleWorker,
		IsActive: true,
	})

	shifts := memory.NewShiftStore()
	w, err := shifts.CreateWindow(context.Background(), shift.Window{
		OrgID:      "org-1",
		Name:       "Day Shift",
		StartTime:  "09:00",
		EndTime:    "18:00",
		DaysOfWeek: []int{1, 2, 3, 4, 5, 6, 7},
	})
	require.NoError(t, err)
	_, err = shifts.CreateAssignment(context.Background(), shift.Assignment{
		EmployeeID: "emp-1",
		ShiftID:    w.ID,
		StartDate:  "2026-01-01",
	})
	require.NoError(t, err)

	records := memory.NewAttendanceRepository()
	sink := &captureSink{}

	jobs := NewAttendanceJobs(records, employees, shiftsvc.NewResolver(shifts), sink)
	jobs.clock = func() time.Time { return now }

	return &jobFixture{jobs: jobs, records: records, shifts: shifts, sink: sink}
}

func TestAutoCloseStaleDays(t *testing.T) {
	// The job runs the morning after a forgotten check-out.
	now := time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC)
	f := newJobFixture(t, now)

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rec, err := f.records.Create(context.Background(), attendance.Record{
		EmployeeID: "emp-1",
		OrgID:      "org-1",
		Date:       "2026-03-02",
		CheckInAt:  &checkIn,
		State:      attendance.StateWorking,
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.AutoCloseStaleDays(context.Background()))

	closed, err := f.records.GetByID(context.Background(), rec.ID, "org-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCompleted, closed.State)
	require.NotNil(t, closed.CheckOutAt)
	// Synthetic check-out lands at the scheduled 18:00 end, not at run
	// time.
	assert.Equal(t, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), closed.CheckOutAt.UTC())
	assert.Contains(t, closed.Notes, "auto-closed")
	assert.Equal(t, 1, f.sink.count(event.TypeDayAutoClosed))
}

func TestAutoCloseStaleDays_WithinGraceWindow(t *testing.T) {
	// 19:00 the same day is inside the two-hour grace window after the
	// 18:00 shift end, and the date is not yet stale anyway.
	now := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	f := newJobFixture(t, now)

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rec, err := f.records.Create(context.Background(), attendance.Record{
		EmployeeID: "emp-1",
		OrgID:      "org-1",
		Date:       "2026-03-02",
		CheckInAt:  &checkIn,
		State:      attendance.StateWorking,
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.AutoCloseStaleDays(context.Background()))

	open, err := f.records.GetByID(context.Background(), rec.ID, "org-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateWorking, open.State)
	assert.Nil(t, open.CheckOutAt)
}

func TestAutoCloseStaleDays_ClosesOpenBreak(t *testing.T) {
	now := time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC)
	f := newJobFixture(t, now)

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	breakStart := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	rec, err := f.records.Create(context.Background(), attendance.Record{
		EmployeeID:     "emp-1",
		OrgID:          "org-1",
		Date:           "2026-03-02",
		CheckInAt:      &checkIn,
		State:          attendance.StateOnBreak,
		Status:         attendance.StatusPresent,
		BreakStartedAt: &breakStart,
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.AutoCloseStaleDays(context.Background()))

	closed, err := f.records.GetByID(context.Background(), rec.ID, "org-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCompleted, closed.State)
	assert.Equal(t, 60, closed.BreakMinutes)
	assert.Nil(t, closed.BreakStartedAt)
}

func TestMarkAbsentEmployees(t *testing.T) {
	// Yesterday (2026-03-02, a Monday) was scheduled and has no record.
	now := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)
	f := newJobFixture(t, now)

	require.NoError(t, f.jobs.MarkAbsentEmployees(context.Background()))

	rec, err := f.records.GetByEmployeeAndDate(context.Background(), "emp-1", "2026-03-02", "org-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.Equal(t, attendance.StateCompleted, rec.State)
	assert.Nil(t, rec.CheckInAt)
	assert.Equal(t, 1, f.sink.count(event.TypeMarkedAbsent))

	// Reruns do not duplicate.
	require.NoError(t, f.jobs.MarkAbsentEmployees(context.Background()))
	assert.Equal(t, 1, f.sink.count(event.TypeMarkedAbsent))
}

func TestMarkAbsentEmployees_SkipsCheckedIn(t *testing.T) {
	now := time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC)
	f := newJobFixture(t, now)

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	_, err := f.records.Create(context.Background(), attendance.Record{
		EmployeeID: "emp-1",
		OrgID:      "org-1",
		Date:       "2026-03-02",
		CheckInAt:  &checkIn,
		CheckOutAt: &checkOut,
		State:      attendance.StateCompleted,
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.MarkAbsentEmployees(context.Background()))
	assert.Equal(t, 0, f.sink.count(event.TypeMarkedAbsent))
}

func TestMarkAbsentEmployees_NoShiftYesterday(t *testing.T) {
	// 2026-03-08 is a Sunday; restrict the window to weekdays so the
	// 2026-03-07 Saturday resolves to nothing.
	now := time.Date(2026, 3, 8, 1, 0, 0, 0, time.UTC)
	f := newJobFixture(t, now)

	windows, err := f.shifts.ListWindows(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, windows, 1)
	w := windows[0]
	w.DaysOfWeek = []int{1, 2, 3, 4, 5}
	_, err = f.shifts.UpdateWindow(context.Background(), w)
	require.NoError(t, err)

	require.NoError(t, f.jobs.MarkAbsentEmployees(context.Background()))

	rec, err := f.records.GetByEmployeeAndDate(context.Background(), "emp-1", "2026-03-07", "org-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
