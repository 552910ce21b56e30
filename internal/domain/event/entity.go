package event

import "time"

type Type string

const (
	TypeCheckIn         Type = "checkin"
	TypeCheckOut        Type = "checkout"
	TypeBreakStart      Type = "break-start"
	TypeBreakEnd        Type = "break-end"
	TypeLateWarning     Type = "late-warning"
	TypeGeofenceSkipped Type = "geofence-skipped"
	TypeDayAutoClosed   Type = "day-auto-closed"
	TypeMarkedAbsent    Type = "marked-absent"
)

// Event is one audit/notification entry emitted by the engine. Delivery
// is best-effort and never load-bearing for the attendance record.
type Event struct {
	ID         string
	OrgID      string
	EmployeeID string
	Type       Type
	Message    string
	Data       map[string]interface{}
	CreatedAt  time.Time
}
