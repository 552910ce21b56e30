package qrpass

import "context"

type Repository interface {
	Create(ctx context.Context, p Pass) (Pass, error)
	GetByID(ctx context.Context, id, orgID string) (Pass, error)
	GetByCode(ctx context.Context, code string) (Pass, error)

	// MarkUsed claims the pass for an employee atomically; returns
	// ErrPassUsed when another redemption got there first.
	MarkUsed(ctx context.Context, id, employeeID string) error

	// Release reopens a claimed pass so a rejected attendance action
	// does not burn it.
	Release(ctx context.Context, id string) error
}
