package attendance

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
	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
	"github.com/chronotrack/attendance-backend-go/internal/repository/memory"
	shiftsvc "github.com/chronotrack/attendance-backend-go/internal/service/shift"
)

const (
	testOrgID      = "org-1"
	testEmployeeID = "emp-1"
)

// recordingSink captures emitted events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *recordingSink) Emit(ctx context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) ofType(t event.Type) []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// fakeClock is a settable clock shared with the engine under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	svc       attendance.Service
	records   attendance.Repository
	locations location.Store
	shifts    shift.Store
	sink      *recordingSink
	clock     *fakeClock
}

// newFixture wires the engine against memory stores with one employee on
// a 09:00 to 18:00 shift every day of the week.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	employees := memory.NewEmployeeStore(employee.Employee{
		ID:       testEmployeeID,
		OrgID:    testOrgID,
		Code:     "E001",
		FullName: "Alex Kim",
		Timezone: "UTC",
		Role:     employee.RoleWorker,
		IsActive: true,
	})

	shifts := memory.NewShiftStore()
	w, err := shifts.CreateWindow(context.Background(), shift.Window{
		OrgID:      testOrgID,
		Name:       "Day Shift",
		StartTime:  "09:00",
		EndTime:    "18:00",
		DaysOfWeek: []int{1, 2, 3, 4, 5, 6, 7},
	})
	require.NoError(t, err)
	_, err = shifts.CreateAssignment(context.Background(), shift.Assignment{
		EmployeeID: testEmployeeID,
		ShiftID:    w.ID,
		StartDate:  "2026-01-01",
	})
	require.NoError(t, err)

	records := memory.NewAttendanceRepository()
	locations := memory.NewLocationStore()
	sink := &recordingSink{}
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}

	svc := NewAttendanceService(
		records,
		shiftsvc.NewResolver(shifts),
		locations,
		employees,
		sink,
		Config{},
		WithClock(clock.Now),
	)

	return &fixture{
		svc:       svc,
		records:   records,
		locations: locations,
		shifts:    shifts,
		sink:      sink,
		clock:     clock,
	}
}

func checkInReq() attendance.ActionRequest {
	return attendance.ActionRequest{
		EmployeeID: testEmployeeID,
		OrgID:      testOrgID,
		Action:     attendance.ActionCheckIn,
	}
}

func actionReq(a attendance.Action) attendance.ActionRequest {
	return attendance.ActionRequest{
		EmployeeID: testEmployeeID,
		OrgID:      testOrgID,
		Action:     a,
	}
}

func TestCheckIn_OnTime(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 8, 55, 0, 0, time.UTC))

	rec, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, attendance.StateWorking, rec.State)
	assert.Equal(t, 0, rec.LateMinutes)
	assert.Equal(t, "2026-03-02", rec.Date)
	require.NotNil(t, rec.ShiftID)
	require.NotNil(t, rec.CheckInAt)
	assert.Len(t, f.sink.ofType(event.TypeCheckIn), 1)
	assert.Empty(t, f.sink.ofType(event.TypeLateWarning))
}

func TestCheckIn_LateWithinStatusThreshold(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 20, 0, 0, time.UTC))

	rec, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	assert.Equal(t, 20, rec.LateMinutes)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Len(t, f.sink.ofType(event.TypeLateWarning), 1)
}

func TestCheckIn_LateBeyondStatusThreshold(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC))

	rec, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	assert.Equal(t, 45, rec.LateMinutes)
	assert.Equal(t, attendance.StatusLate, rec.Status)
	assert.Len(t, f.sink.ofType(event.TypeLateWarning), 1)
}

func TestCheckIn_NoShiftAssigned(t *testing.T) {
	f := newFixture(t)
	// Sunday-only window would not match, but simpler: wipe assignments
	// by using a date before any assignment starts.
	f.clock.Set(time.Date(2025, 12, 15, 11, 0, 0, 0, time.UTC))

	rec, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	assert.Nil(t, rec.ShiftID)
	assert.Equal(t, 0, rec.LateMinutes)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	first, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC))
	second, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, first.ID, second.ID)

	assert.Len(t, f.sink.ofType(event.TypeCheckIn), 1)
}

func TestCheckIn_Concurrent(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CheckIn(context.Background(), checkInReq())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.sink.ofType(event.TypeCheckIn), 1)
}

func TestCheckIn_Geofence(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	office, err := f.locations.Create(context.Background(), location.Location{
		OrgID:        testOrgID,
		Name:         "HQ",
		Latitude:     37.5665,
		Longitude:    126.9780,
		RadiusMeters: 100,
	})
	require.NoError(t, err)

	t.Run("inside radius", func(t *testing.T) {
		lat, lng := 37.5665, 126.9781
		req := checkInReq()
		req.LocationID = &office.ID
		req.Latitude = &lat
		req.Longitude = &lng

		rec, err := f.svc.CheckIn(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, rec.CheckInLat)
		assert.Equal(t, lat, *rec.CheckInLat)
	})

	t.Run("outside radius", func(t *testing.T) {
		f2 := newFixture(t)
		f2.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
		office2, err := f2.locations.Create(context.Background(), location.Location{
			OrgID:        testOrgID,
			Name:         "HQ",
			Latitude:     37.5665,
			Longitude:    126.9780,
			RadiusMeters: 100,
		})
		require.NoError(t, err)

		lat, lng := 37.4979, 127.0276 // several km away
		req := checkInReq()
		req.LocationID = &office2.ID
		req.Latitude = &lat
		req.Longitude = &lng

		_, err = f2.svc.CheckIn(context.Background(), req)
		require.ErrorIs(t, err, attendance.ErrOutOfRange)

		var oor *attendance.OutOfRangeError
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, "HQ", oor.LocationName)
		assert.Equal(t, 100, oor.RadiusMeters)
		assert.Greater(t, oor.DistanceMeters, 100)

		// Rejected check-in leaves no record behind.
		rec, rerr := f2.records.GetByEmployeeAndDate(context.Background(), testEmployeeID, "2026-03-02", testOrgID)
		require.NoError(t, rerr)
		assert.Nil(t, rec)
	})

	t.Run("no coordinates skips check", func(t *testing.T) {
		f3 := newFixture(t)
		f3.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
		office3, err := f3.locations.Create(context.Background(), location.Location{
			OrgID:        testOrgID,
			Name:         "HQ",
			Latitude:     37.5665,
			Longitude:    126.9780,
			RadiusMeters: 100,
		})
		require.NoError(t, err)

		req := checkInReq()
		req.LocationID = &office3.ID

		_, err = f3.svc.CheckIn(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, f3.sink.ofType(event.TypeGeofenceSkipped), 1)
	})

	t.Run("unknown location", func(t *testing.T) {
		f4 := newFixture(t)
		f4.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

		id := "not-a-location"
		lat, lng := 37.5665, 126.9780
		req := checkInReq()
		req.LocationID = &id
		req.Latitude = &lat
		req.Longitude = &lng

		_, err := f4.svc.CheckIn(context.Background(), req)
		require.ErrorIs(t, err, location.ErrLocationNotFound)
	})
}

func TestCheckOut_WithOvertime(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC))
	rec, err := f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.NoError(t, err)

	assert.Equal(t, attendance.StateCompleted, rec.State)
	assert.Equal(t, 30, rec.OvertimeMinutes)
	require.NotNil(t, rec.CheckOutAt)
	assert.Len(t, f.sink.ofType(event.TypeCheckOut), 1)
}

func TestCheckOut_BeforeShiftEnd(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC))
	rec, err := f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.NoError(t, err)

	assert.Equal(t, 0, rec.OvertimeMinutes)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))

	_, err := f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_Twice(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	first, err := f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 18, 5, 0, 0, time.UTC))
	second, err := f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	assert.Equal(t, first.ID, second.ID)
}

func TestCheckOut_NotAfterCheckIn(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	// Clock has not advanced; a checkout at the same instant is invalid.
	_, err = f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.ErrorIs(t, err, attendance.ErrInvalidTimestamp)
}

func TestCheckOut_ClosesOpenBreak(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	_, err = f.svc.StartBreak(context.Background(), actionReq(attendance.ActionBreakStart))
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 12, 45, 0, 0, time.UTC))
	rec, err := f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.NoError(t, err)

	assert.Equal(t, attendance.StateCompleted, rec.State)
	assert.Equal(t, 45, rec.BreakMinutes)
	assert.Nil(t, rec.BreakStartedAt)
}

func TestBreakLifecycle(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	rec, err := f.svc.StartBreak(context.Background(), actionReq(attendance.ActionBreakStart))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateOnBreak, rec.State)
	require.NotNil(t, rec.BreakStartedAt)

	f.clock.Set(time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC))
	rec, err = f.svc.EndBreak(context.Background(), actionReq(attendance.ActionBreakEnd))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateWorking, rec.State)
	assert.Equal(t, 30, rec.BreakMinutes)
	assert.Nil(t, rec.BreakStartedAt)

	// Second break accumulates.
	f.clock.Set(time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	_, err = f.svc.StartBreak(context.Background(), actionReq(attendance.ActionBreakStart))
	require.NoError(t, err)
	f.clock.Set(time.Date(2026, 3, 2, 15, 10, 0, 0, time.UTC))
	rec, err = f.svc.EndBreak(context.Background(), actionReq(attendance.ActionBreakEnd))
	require.NoError(t, err)
	assert.Equal(t, 40, rec.BreakMinutes)

	assert.Len(t, f.sink.ofType(event.TypeBreakStart), 2)
	assert.Len(t, f.sink.ofType(event.TypeBreakEnd), 2)
}

func TestBreak_InvalidTransitions(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.StartBreak(context.Background(), actionReq(attendance.ActionBreakStart))
	require.ErrorIs(t, err, attendance.ErrInvalidState)

	_, err = f.svc.EndBreak(context.Background(), actionReq(attendance.ActionBreakEnd))
	require.ErrorIs(t, err, attendance.ErrInvalidState)

	_, err = f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	_, err = f.svc.EndBreak(context.Background(), actionReq(attendance.ActionBreakEnd))
	require.ErrorIs(t, err, attendance.ErrInvalidState)

	_, err = f.svc.StartBreak(context.Background(), actionReq(attendance.ActionBreakStart))
	require.NoError(t, err)
	_, err = f.svc.StartBreak(context.Background(), actionReq(attendance.ActionBreakStart))
	require.ErrorIs(t, err, attendance.ErrInvalidState)

	f.clock.Set(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	_, err = f.svc.CheckOut(context.Background(), actionReq(attendance.ActionCheckOut))
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 18, 5, 0, 0, time.UTC))
	_, err = f.svc.StartBreak(context.Background(), actionReq(attendance.ActionBreakStart))
	require.ErrorIs(t, err, attendance.ErrInvalidState)
}

func TestNotesAccumulate(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	req := checkInReq()
	req.Notes = "working from HQ"
	_, err := f.svc.CheckIn(context.Background(), req)
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	out := actionReq(attendance.ActionCheckOut)
	out.Notes = "left early entry fixed"
	rec, err := f.svc.CheckOut(context.Background(), out)
	require.NoError(t, err)

	assert.Equal(t, "working from HQ | left early entry fixed", rec.Notes)
}

func TestActionRequest_Validation(t *testing.T) {
	f := newFixture(t)

	req := checkInReq()
	lat := 95.0
	req.Latitude = &lat
	_, err := f.svc.CheckIn(context.Background(), req)
	require.Error(t, err)

	req = checkInReq()
	req.Action = "teleport"
	_, err = f.svc.CheckIn(context.Background(), req)
	require.Error(t, err)
}

func TestGetMyAttendance(t *testing.T) {
	f := newFixture(t)

	for day := 2; day <= 4; day++ {
		f.clock.Set(time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC))
		_, err := f.svc.CheckIn(context.Background(), checkInReq())
		require.NoError(t, err)
	}

	res, err := f.svc.GetMyAttendance(context.Background(), testEmployeeID, testOrgID, attendance.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.TotalCount)
	require.Len(t, res.Records, 3)
	// Newest first.
	assert.Equal(t, "2026-03-04", res.Records[0].Date)

	start := "2026-03-03"
	res, err = f.svc.GetMyAttendance(context.Background(), testEmployeeID, testOrgID, attendance.ListFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalCount)
}

func TestListAttendance_StatusFilter(t *testing.T) {
	f := newFixture(t)

	f.clock.Set(time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC))
	_, err := f.svc.CheckIn(context.Background(), checkInReq())
	require.NoError(t, err)

	late := string(attendance.StatusLate)
	res, err := f.svc.ListAttendance(context.Background(), testOrgID, attendance.ListFilter{Status: &late})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalCount)

	present := string(attendance.StatusPresent)
	res, err = f.svc.ListAttendance(context.Background(), testOrgID, attendance.ListFilter{Status: &present})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TotalCount)
}

func TestUnknownEmployee(t *testing.T) {
	f := newFixture(t)

	req := checkInReq()
	req.EmployeeID = "ghost"
	_, err := f.svc.CheckIn(context.Background(), req)
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
