package memory

import (
	"context"

	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación en memoria de BusinessRepository.
type BusinessRepo struct{ s *Store }

// NewBusinessRepository construye el repositorio sobre el store.
func NewBusinessRepository(s *Store) *BusinessRepo { return &BusinessRepo{s: s} }

func (r *BusinessRepo) Create(_ context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[b.ID]; ok {
		return domain.ErrConflict
	}
	c := *b
	c.Accountants, c.FinancialMetrics, c.Metrics = nil, nil, nil
	r.s.businesses[b.ID] = &c
	r.s.order = append(r.s.order, b.ID)
	return nil
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.businessLocked(id), nil
}

func (r *BusinessRepo) List(_ context.Context) ([]*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Business, 0, len(r.s.order))
	for _, id := range r.s.order {
		out = append(out, r.s.businessLocked(id))
	}
	return out, nil
}

func (r *BusinessRepo) ListLinkedToUser(_ context.Context, userID string) ([]*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	accountantID := ""
	for _, a := range r.s.accountants {
		if a.UserID == userID {
			accountantID = a.ID
			break
		}
	}
	out := make([]*entity.Business, 0)
	for _, id := range r.s.order {
		b := r.s.businesses[id]
		if b.OwnerID == userID || (accountantID != "" && r.s.assigned[id][accountantID]) {
			out = append(out, r.s.businessLocked(id))
		}
	}
	return out, nil
}

func (r *BusinessRepo) AssignAccountant(_ context.Context, businessID, accountantID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[businessID]; !ok {
		return domain.ErrBusinessNotFound
	}
	if _, ok := r.s.accountants[accountantID]; !ok {
		return domain.ErrAccountantNotFound
	}
	set := r.s.assigned[businessID]
	if set == nil {
		set = make(map[string]bool)
		r.s.assigned[businessID] = set
	}
	if set[accountantID] {
		return nil
	}
	set[accountantID] = true
	r.s.assignOrder[businessID] = append(r.s.assignOrder[businessID], accountantID)
	return nil
}

func (r *BusinessRepo) RemoveAccountant(_ context.Context, businessID, accountantID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[businessID]; !ok {
		return domain.ErrBusinessNotFound
	}
	delete(r.s.assigned[businessID], accountantID)
	ids := r.s.assignOrder[businessID]
	for i, id := range ids {
		if id == accountantID {
			r.s.assignOrder[businessID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *BusinessRepo) SaveFinancialMetrics(_ context.Context, m *entity.BusinessFinancialMetrics) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.financial[m.BusinessID] = &cp
	return nil
}

func (r *BusinessRepo) SaveMetrics(_ context.Context, m *entity.BusinessMetrics) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.metrics[m.BusinessID] = &cp
	return nil
}
