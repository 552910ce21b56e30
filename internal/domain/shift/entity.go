package shift

import (
	"fmt"
	"time"
)

// Window is a shift definition: a local time-of-day range plus the
// weekdays it is active on.
type Window struct {
	ID         string
	OrgID      string
	Name       string
	StartTime  string // "15:04", org-local
	EndTime    string // "15:04", org-local
	DaysOfWeek []int  // ISO: 1=Monday .. 7=Sunday
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Assignment binds an employee to a shift window for a date range.
// EndDate nil means open-ended.
type Assignment struct {
	ID         string
	EmployeeID string
	ShiftID    string
	StartDate  string // "2006-01-02"
	EndDate    *string
	CreatedAt  time.Time
}

// Resolved is the outcome of shift resolution for one employee+date:
// the matched window with its boundaries pre-parsed to minutes since
// midnight.
type Resolved struct {
	ShiftID      string
	Name         string
	StartMinutes int
	EndMinutes   int
}

// ISOWeekday returns the ISO weekday (1=Monday .. 7=Sunday) of t.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ParseClock parses a "15:04" time-of-day into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
