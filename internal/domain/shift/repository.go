package shift

import "context"

// Store holds shift windows and employee assignments.
type Store interface {
	CreateWindow(ctx context.Context, w Window) (Window, error)
	GetWindow(ctx context.Context, id, orgID string) (Window, error)
	ListWindows(ctx context.Context, orgID string) ([]Window, error)
	UpdateWindow(ctx context.Context, w Window) (Window, error)
	DeleteWindow(ctx context.Context, id, orgID string) error

	CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	// ListAssignments returns all assignments for an employee together
	// with their windows, newest first.
	ListAssignments(ctx context.Context, employeeID string) ([]Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
}

// Resolver finds the shift window applicable to an employee on a date.
// A (nil, nil) result means no shift matched; callers skip lateness and
// overtime computation in that case rather than treating it as an error.
type Resolver interface {
	Resolve(ctx context.Context, employeeID, orgID string, date ResolveDate) (*Resolved, error)
}

// ResolveDate is a calendar day in the org's timezone.
type ResolveDate struct {
	Date    string // "2006-01-02"
	Weekday int    // ISO: 1=Monday .. 7=Sunday
}
