package sse

import (
	"sync"
)

// Event represents an SSE event to be sent to subscribers of an org's
// live attendance feed.
type Event struct {
	OrgID string
	Event string
	Data  interface{}
}

// Hub manages SSE subscribers and event broadcasting, keyed by org.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for an org and returns the event
// channel and cleanup function
func (h *Hub) Subscribe(orgID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[orgID] == nil {
		h.subscribers[orgID] = make(map[chan Event]struct{})
	}
	h.subscribers[orgID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[orgID], ch)
		close(ch)
		if len(h.subscribers[orgID]) == 0 {
			delete(h.subscribers, orgID)
		}
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a specific org
func (h *Hub) Publish(orgID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[orgID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Skip if channel is full (non-blocking to prevent deadlock)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for an org
func (h *Hub) SubscriberCount(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[orgID]; ok {
		return len(subs)
	}
	return 0
}
