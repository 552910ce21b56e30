package memory

import (
	"context"
	"sync"

	"github.com/chronotrack/attendance-backend-go/internal/domain/event"
)

type eventRepository struct {
	mu     sync.Mutex
	events []event.Event
}

func NewEventRepository() event.Repository {
	return &eventRepository{}
}

func (r *eventRepository) CreateBatch(ctx context.Context, events []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, events...)
	return nil
}

func (r *eventRepository) ListByOrg(ctx context.Context, orgID string, limit int) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []event.Event
	for i := len(r.events) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.events[i].OrgID == orgID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}
