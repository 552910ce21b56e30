package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronotrack/attendance-backend-go/internal/domain/event"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/sse"
	"github.com/chronotrack/attendance-backend-go/internal/repository/memory"
)

func TestQueuedSink_PersistsAndPublishes(t *testing.T) {
	repo := memory.NewEventRepository()
	hub := sse.NewHub()

	ch, cleanup := hub.Subscribe("org-1")
	defer cleanup()

	sink := NewQueuedSink(repo, hub, Config{BatchSize: 1, FlushInterval: 50 * time.Millisecond})
	defer sink.Stop()

	err := sink.Emit(context.Background(), event.Event{
		OrgID:      "org-1",
		EmployeeID: "emp-1",
		Type:       event.TypeCheckIn,
		Message:    "checked in at 09:00",
	})
	require.NoError(t, err)

	select {
	case e := <-ch:
		assert.Equal(t, string(event.TypeCheckIn), e.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("no SSE event received")
	}

	assert.Eventually(t, func() bool {
		events, err := repo.ListByOrg(context.Background(), "org-1", 10)
		return err == nil && len(events) == 1
	}, 2*time.Second, 20*time.Millisecond)

	events, err := repo.ListByOrg(context.Background(), "org-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestQueuedSink_BatchSizeFlush(t *testing.T) {
	repo := memory.NewEventRepository()
	sink := NewQueuedSink(repo, sse.NewHub(), Config{BatchSize: 5, FlushInterval: time.Minute, WorkerCount: 1})
	defer sink.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, sink.Emit(context.Background(), event.Event{
			OrgID: "org-1",
			Type:  event.TypeCheckOut,
		}))
	}

	// FlushInterval is a minute, so seeing all five means the size
	// trigger fired.
	assert.Eventually(t, func() bool {
		events, err := repo.ListByOrg(context.Background(), "org-1", 10)
		return err == nil && len(events) == 5
	}, 2*time.Second, 20*time.Millisecond)
}

func TestQueuedSink_StopDrainsQueue(t *testing.T) {
	repo := memory.NewEventRepository()
	sink := NewQueuedSink(repo, sse.NewHub(), Config{
		BatchSize:     500,
		FlushInterval: time.Hour,
		WorkerCount:   1,
		QueueSize:     1000,
	})

	const emitted = 200
	for i := 0; i < emitted; i++ {
		require.NoError(t, sink.Emit(context.Background(), event.Event{
			OrgID: "org-1",
			Type:  event.TypeCheckIn,
		}))
	}

	// Nothing has flushed yet: the batch is under size and the interval
	// is an hour out. Stop must persist every queued event anyway.
	sink.Stop()

	events, err := repo.ListByOrg(context.Background(), "org-1", emitted+1)
	require.NoError(t, err)
	assert.Len(t, events, emitted)
}
