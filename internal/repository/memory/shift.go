package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/shift"
	"github.com/google/uuid"
)

type shiftStore struct {
	mu          sync.Mutex
	windows     map[string]shift.Window
	assignments map[string]shift.Assignment
}

func NewShiftStore() shift.Store {
	return &shiftStore{
		windows:     make(map[string]shift.Window),
		assignments: make(map[string]shift.Assignment),
	}
}

func (s *shiftStore) CreateWindow(ctx context.Context, w shift.Window) (shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.ID = uuid.New().String()
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	s.windows[w.ID] = w
	return w, nil
}

func (s *shiftStore) GetWindow(ctx context.Context, id, orgID string) (shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok || w.OrgID != orgID {
		return shift.Window{}, shift.ErrShiftNotFound
	}
	return w, nil
}

func (s *shiftStore) ListWindows(ctx context.Context, orgID string) ([]shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []shift.Window
	for _, w := range s.windows {
		if w.OrgID == orgID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *shiftStore) UpdateWindow(ctx context.Context, w shift.Window) (shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.windows[w.ID]
	if !ok || stored.OrgID != w.OrgID {
		return shift.Window{}, shift.ErrShiftNotFound
	}
	w.CreatedAt = stored.CreatedAt
	w.UpdatedAt = time.Now()
	s.windows[w.ID] = w
	return w, nil
}

func (s *shiftStore) DeleteWindow(ctx context.Context, id, orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok || w.OrgID != orgID {
		return shift.ErrShiftNotFound
	}
	delete(s.windows, id)
	return nil
}

func (s *shiftStore) CreateAssignment(ctx context.Context, a shift.Assignment) (shift.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = uuid.New().String()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.assignments[a.ID] = a
	return a, nil
}

func (s *shiftStore) ListAssignments(ctx context.Context, employeeID string) ([]shift.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []shift.Assignment
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *shiftStore) DeleteAssignment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assignments[id]; !ok {
		return shift.ErrAssignmentNotFound
	}
	delete(s.assignments, id)
	return nil
}
