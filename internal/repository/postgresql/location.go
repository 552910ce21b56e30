package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/database"
)

type locationStore struct {
	db *database.DB
}

func NewLocationStore(db *database.DB) location.Store {
	return &locationStore{db: db}
}

// Create implements location.Store.
func (s *locationStore) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO locations (org_id, name, latitude, longitude, radius_meters)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		loc.OrgID, loc.Name, loc.Latitude, loc.Longitude, loc.RadiusMeters,
	).Scan(&loc.ID, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return location.Location{}, fmt.Errorf("failed to create location: %w", err)
	}

	return loc, nil
}

// Get implements location.Store.
func (s *locationStore) Get(ctx context.Context, id, orgID string) (location.Location, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, org_id, name, latitude, longitude, radius_meters, created_at, updated_at
		FROM locations
		WHERE id = $1 AND org_id = $2
	`

	var loc location.Location
	err := q.QueryRow(ctx, query, id, orgID).Scan(
		&loc.ID, &loc.OrgID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.RadiusMeters,
		&loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, fmt.Errorf("failed to get location: %w", err)
	}

	return loc, nil
}

// ListByOrg implements location.Store.
func (s *locationStore) ListByOrg(ctx context.Context, orgID string) ([]location.Location, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, org_id, name, latitude, longitude, radius_meters, created_at, updated_at
		FROM locations
		WHERE org_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []location.Location
	for rows.Next() {
		var loc location.Location
		if err := rows.Scan(
			&loc.ID, &loc.OrgID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.RadiusMeters,
			&loc.CreatedAt, &loc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}

	return locations, nil
}

// Update implements location.Store.
func (s *locationStore) Update(ctx context.Context, loc location.Location) (location.Location, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE locations SET
			name = $1,
			latitude = $2,
			longitude = $3,
			radius_meters = $4,
			updated_at = NOW()
		WHERE id = $5 AND org_id = $6
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		loc.Name, loc.Latitude, loc.Longitude, loc.RadiusMeters, loc.ID, loc.OrgID,
	).Scan(&loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, fmt.Errorf("failed to update location: %w", err)
	}

	return loc, nil
}

// Delete implements location.Store.
func (s *locationStore) Delete(ctx context.Context, id, orgID string) error {
	q := GetQuerier(ctx, s.db)

	tag, err := q.Exec(ctx, `DELETE FROM locations WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return location.ErrLocationNotFound
	}
	return nil
}
