package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
)

type employeeStore struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
}

// NewEmployeeStore seeds an employee store. Employee administration is
// outside this service, so the memory store is load-then-read.
func NewEmployeeStore(seed ...employee.Employee) employee.Store {
	s := &employeeStore{employees: make(map[string]employee.Employee)}
	for _, e := range seed {
		s.employees[e.ID] = e
	}
	return s
}

func (s *employeeStore) GetByID(ctx context.Context, id, orgID string) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || e.OrgID != orgID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *employeeStore) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.Code == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *employeeStore) ListActive(ctx context.Context, orgID string) ([]employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []employee.Employee
	for _, e := range s.employees {
		if e.OrgID == orgID && e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *employeeStore) ListOrgIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, e := range s.employees {
		if !e.IsActive {
			continue
		}
		if _, ok := seen[e.OrgID]; ok {
			continue
		}
		seen[e.OrgID] = struct{}{}
		out = append(out, e.OrgID)
	}
	sort.Strings(out)
	return out, nil
}
