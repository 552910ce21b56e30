package shift

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
)

type resolver struct {
	store shift.Store
}

func NewResolver(store shift.Store) shift.Resolver {
	return &resolver{store: store}
}

// Resolve implements shift.Resolver. An assignment applies when its date
// range covers the day and the assigned window is active on that
// weekday. Ties between overlapping assignments are broken
// deterministically: the most recently created assignment wins, and the
// lexically larger ID decides between identical creation times.
func (r *resolver) Resolve(ctx context.Context, employeeID, orgID string, date shift.ResolveDate) (*shift.Resolved, error) {
	assignments, err := r.store.ListAssignments(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}

	var winner *shift.Assignment
	var winnerWindow shift.Window

	for i := range assignments {
		a := assignments[i]
		if a.StartDate > date.Date {
			continue
		}
		if a.EndDate != nil && *a.EndDate < date.Date {
			continue
		}

		w, err := r.store.GetWindow(ctx, a.ShiftID, orgID)
		if err != nil {
			if errors.Is(err, shift.ErrShiftNotFound) {
				// Assignment points at a deleted window; skip it.
				continue
			}
			return nil, fmt.Errorf("failed to get shift window: %w", err)
		}

		if !containsDay(w.DaysOfWeek, date.Weekday) {
			continue
		}

		if winner == nil || assignmentLess(*winner, a) {
			winner = &assignments[i]
			winnerWindow = w
		}
	}

	if winner == nil {
		return nil, nil
	}

	startMinutes, err := shift.ParseClock(winnerWindow.StartTime)
	if err != nil {
		return nil, err
	}
	endMinutes, err := shift.ParseClock(winnerWindow.EndTime)
	if err != nil {
		return nil, err
	}

	return &shift.Resolved{
		ShiftID:      winnerWindow.ID,
		Name:         winnerWindow.Name,
		StartMinutes: startMinutes,
		EndMinutes:   endMinutes,
	}, nil
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// assignmentLess reports whether b should win over a.
func assignmentLess(a, b shift.Assignment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return b.CreatedAt.After(a.CreatedAt)
	}
	return b.ID > a.ID
}
