package attendance

import (
	"context"
	"errors"
	"time"
)

// Repository is the attendance store. The store itself enforces the
// one-record-per-(employee, date) invariant with a unique index;
// read-then-write existence checks are only a fast path and are never
// relied on for correctness under concurrency.
type Repository interface {
	// Create inserts a new record atomically. Returns ErrDuplicateRecord
	// when a record for the same (EmployeeID, Date) already exists.
	Create(ctx context.Context, rec Record) (Record, error)

	// GetByEmployeeAndDate returns (nil, nil) when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID, date, orgID string) (*Record, error)

	// GetByID retrieves a record with org isolation.
	GetByID(ctx context.Context, id, orgID string) (Record, error)

	// Transition persists rec only if the stored record is still in the
	// from state; returns ErrStateConflict otherwise. The store is the
	// serialization point, so concurrent transitions on the same day
	// linearize here without in-process locking.
	Transition(ctx context.Context, rec Record, from State) (Record, error)

	// Update persists rec unconditionally. Used by background jobs and
	// administrative corrections, never by the state machine's
	// transition paths.
	Update(ctx context.Context, rec Record) (Record, error)

	// List retrieves records with filters and pagination, org-scoped.
	List(ctx context.Context, filter ListFilter, orgID string) ([]Record, int64, error)

	// ListOpenBefore lists non-completed records whose date is strictly
	// before the given day. Used by the auto-close job.
	ListOpenBefore(ctx context.Context, date string) ([]Record, error)
}

// ErrStateConflict reports a lost Transition race; callers re-read the
// record to produce a specific error.
var ErrStateConflict = errors.New("attendance record changed concurrently")

// Clock abstracts time for the engine so tests can pin it.
type Clock func() time.Time
