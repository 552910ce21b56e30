package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/sse"
	eventsvc "github.com/chronotrack/attendance-backend-go/internal/service/event"
)

type EventHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
	Recent(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	sink *eventsvc.QueuedSink
	hub  *sse.Hub
}

func NewEventHandler(sink *eventsvc.QueuedSink, hub *sse.Hub) EventHandler {
	return &eventHandlerImpl{sink: sink, hub: hub}
}

// Stream implements EventHandler: the org's live attendance feed over
// SSE.
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(identity.OrgID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"org_id\":%q}\n\n", identity.OrgID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(e.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// Recent implements EventHandler: the latest persisted events for
// catching up after a reconnect.
func (h *eventHandlerImpl) Recent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.sink.Recent(r.Context(), identity.OrgID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}
