package employee

import "context"

// Store is the read-side employee collaborator. Employee administration
// lives outside this service; the engine only needs identity, timezone
// and login lookups.
type Store interface {
	// GetByID retrieves an employee with org isolation.
	GetByID(ctx context.Context, id, orgID string) (Employee, error)

	// GetByCode retrieves an employee by their globally unique code.
	// Used by login.
	GetByCode(ctx context.Context, code string) (Employee, error)

	// ListActive lists active employees of an org. Used by the absence job.
	ListActive(ctx context.Context, orgID string) ([]Employee, error)

	// ListOrgIDs lists org IDs that have at least one active employee.
	ListOrgIDs(ctx context.Context) ([]string, error)
}
