package attendance

import "time"

// State is the lifecycle of an attendance day. Transitions are
// monotonic: working -> (on_break <-> working) -> completed; completed
// is terminal for the date. A missing record means not working.
type State string

const (
	StateWorking   State = "working"
	StateOnBreak   State = "on_break"
	StateCompleted State = "completed"
)

// Status is the punctuality verdict, decided once at check-in.
// StatusAbsent is only ever written by the absence job, never by the
// state machine.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// Record is one attendance row per (EmployeeID, Date). Date is the
// calendar day in the org's timezone; the uniqueness of the pair is
// enforced by the store, not by application reads.
type Record struct {
	ID         string
	EmployeeID string
	OrgID      string
	Date       string // "2006-01-02", org-local

	// Frozen at check-in; later shift edits never touch past records.
	ShiftID *string

	CheckInAt       *time.Time
	CheckInLat      *float64
	CheckInLng      *float64
	CheckInAccuracy *float64

	CheckOutAt       *time.Time
	CheckOutLat      *float64
	CheckOutLng      *float64
	CheckOutAccuracy *float64

	State  State
	Status Status

	LateMinutes     int
	OvertimeMinutes int
	BreakMinutes    int
	// Non-nil only while State == StateOnBreak.
	BreakStartedAt *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
