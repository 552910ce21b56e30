package event

import "context"

// Sink receives audit and notification events, fire-and-forget from the
// engine's perspective. Implementations must honor ctx deadlines; a
// returned error is logged by the caller and never escalated.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// Repository is the durable audit log behind the queued sink.
type Repository interface {
	CreateBatch(ctx context.Context, events []Event) error
	ListByOrg(ctx context.Context, orgID string, limit int) ([]Event, error)
}
