package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/event"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/database"
)

type eventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.Repository {
	return &eventRepository{db: db}
}

// CreateBatch implements event.Repository using a single batched
// round-trip.
func (r *eventRepository) CreateBatch(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	query := `
		INSERT INTO attendance_events (id, org_id, employee_id, type, message, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, e := range events {
		batch.Queue(query, e.ID, e.OrgID, e.EmployeeID, e.Type, e.Message, e.Data, e.CreatedAt)
	}

	sender, ok := q.(interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	})
	if !ok {
		sender = r.db.Pool
	}
	br := sender.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert event batch: %w", err)
		}
	}

	return nil
}

// ListByOrg implements event.Repository.
func (r *eventRepository) ListByOrg(ctx context.Context, orgID string, limit int) ([]event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, org_id, employee_id, type, message, data, created_at
		FROM attendance_events
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(
			&e.ID, &e.OrgID, &e.EmployeeID, &e.Type, &e.Message, &e.Data, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
