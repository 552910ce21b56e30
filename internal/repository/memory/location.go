package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/google/uuid"
)

type locationStore struct {
	mu        sync.Mutex
	locations map[string]location.Location
}

func NewLocationStore() location.Store {
	return &locationStore{locations: make(map[string]location.Location)}
}

func (s *locationStore) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc.ID = uuid.New().String()
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = loc.CreatedAt
	s.locations[loc.ID] = loc
	return loc, nil
}

func (s *locationStore) Get(ctx context.Context, id, orgID string) (location.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[id]
	if !ok || loc.OrgID != orgID {
		return location.Location{}, location.ErrLocationNotFound
	}
	return loc, nil
}

func (s *locationStore) ListByOrg(ctx context.Context, orgID string) ([]location.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []location.Location
	for _, loc := range s.locations {
		if loc.OrgID == orgID {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *locationStore) Update(ctx context.Context, loc location.Location) (location.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.locations[loc.ID]
	if !ok || stored.OrgID != loc.OrgID {
		return location.Location{}, location.ErrLocationNotFound
	}
	loc.CreatedAt = stored.CreatedAt
	loc.UpdatedAt = time.Now()
	s.locations[loc.ID] = loc
	return loc, nil
}

func (s *locationStore) Delete(ctx context.Context, id, orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[id]
	if !ok || loc.OrgID != orgID {
		return location.ErrLocationNotFound
	}
	delete(s.locations, id)
	return nil
}
