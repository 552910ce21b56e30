package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chronotrack/attendance-backend-go/internal/domain/event"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/sse"
)

// Config holds event sink configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

// QueuedSink buffers events and persists them in batches from background
// workers. Emit is cheap on the engine's hot path; durability and SSE
// fan-out happen off it.
type QueuedSink struct {
	repo   event.Repository
	hub    *sse.Hub
	config Config

	queue  chan event.Event
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewQueuedSink creates an event sink with background workers
func NewQueuedSink(repo event.Repository, hub *sse.Hub, cfg Config) *QueuedSink {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &QueuedSink{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan event.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Event sink started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval)

	return s
}

// worker drains the queue, flushing on batch size, interval, or stop.
func (s *QueuedSink) worker(id int) {
	defer s.wg.Done()

	batch := make([]event.Event, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("Event worker failed to batch insert", "worker", id, "error", err)
		} else {
			for _, e := range batch {
				s.hub.Publish(e.OrgID, sse.Event{
					OrgID: e.OrgID,
					Event: string(e.Type),
					Data:  e,
				})
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain whatever is still buffered before exiting; select
			// picks arbitrarily between a ready queue and the closed
			// stop channel, so events can be left behind otherwise.
			for {
				select {
				case e := <-s.queue:
					batch = append(batch, e)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Emit implements event.Sink. Events get their ID and timestamp here so
// callers only describe what happened.
func (s *QueuedSink) Emit(ctx context.Context, e event.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	select {
	case s.queue <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, insert directly
		return s.directInsert(ctx, e)
	}
}

func (s *QueuedSink) directInsert(ctx context.Context, e event.Event) error {
	if err := s.repo.CreateBatch(ctx, []event.Event{e}); err != nil {
		return err
	}

	s.hub.Publish(e.OrgID, sse.Event{
		OrgID: e.OrgID,
		Event: string(e.Type),
		Data:  e,
	})
	return nil
}

// Recent returns the latest persisted events for an org.
func (s *QueuedSink) Recent(ctx context.Context, orgID string, limit int) ([]event.Event, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByOrg(ctx, orgID, limit)
}

// Stop drains the queue and stops all workers.
func (s *QueuedSink) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("Event sink stopped")
}
