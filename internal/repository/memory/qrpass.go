package memory

import (
	"context"
	"sync"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/qrpass"
	"github.com/google/uuid"
)

type qrPassRepository struct {
	mu     sync.Mutex
	passes map[string]qrpass.Pass
}

func NewQRPassRepository() qrpass.Repository {
	return &qrPassRepository{passes: make(map[string]qrpass.Pass)}
}

func (r *qrPassRepository) Create(ctx context.Context, p qrpass.Pass) (qrpass.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()
	r.passes[p.ID] = p
	return p, nil
}

func (r *qrPassRepository) GetByID(ctx context.Context, id, orgID string) (qrpass.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passes[id]
	if !ok || p.OrgID != orgID {
		return qrpass.Pass{}, qrpass.ErrPassNotFound
	}
	return p, nil
}

func (r *qrPassRepository) GetByCode(ctx context.Context, code string) (qrpass.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.passes {
		if p.Code == code {
			return p, nil
		}
	}
	return qrpass.Pass{}, qrpass.ErrPassNotFound
}

func (r *qrPassRepository) MarkUsed(ctx context.Context, id, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passes[id]
	if !ok {
		return qrpass.ErrPassNotFound
	}
	if p.UsedAt != nil {
		return qrpass.ErrPassUsed
	}
	now := time.Now()
	p.UsedAt = &now
	p.UsedBy = &employeeID
	r.passes[id] = p
	return nil
}

func (r *qrPassRepository) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passes[id]
	if !ok {
		return qrpass.ErrPassNotFound
	}
	p.UsedAt = nil
	p.UsedBy = nil
	r.passes[id] = p
	return nil
}
