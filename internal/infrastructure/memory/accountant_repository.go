package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/repository"
)

var _ repository.AccountantRepository = (*AccountantRepo)(nil)

// AccountantRepo implementación en memoria de AccountantRepository.
type AccountantRepo struct{ s *Store }

// NewAccountantRepository construye el repositorio sobre el store.
func NewAccountantRepository(s *Store) *AccountantRepo { return &AccountantRepo{s: s} }

func (r *AccountantRepo) Create(_ context.Context, a *entity.Accountant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accountants {
		if existing.UserID == a.UserID {
			return domain.ErrConflict
		}
	}
	r.insertLocked(a)
	return nil
}

func (r *AccountantRepo) insertLocked(a *entity.Accountant) {
	c := *a
	c.User = nil
	r.s.accountants[a.ID] = &c
	r.s.accOrder = append(r.s.accOrder, a.ID)
}

func (r *AccountantRepo) GetByID(_ context.Context, id string) (*entity.Accountant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.accountantLocked(id), nil
}

func (r *AccountantRepo) GetByUserID(_ context.Context, userID string) (*entity.Accountant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.accOrder {
		if r.s.accountants[id].UserID == userID {
			return r.s.accountantLocked(id), nil
		}
	}
	return nil, nil
}

func (r *AccountantRepo) List(ctx context.Context) ([]*entity.Accountant, error) {
	return r.filter(func(*entity.Accountant) bool { return true }), nil
}

func (r *AccountantRepo) ListManagedOrIndependent(_ context.Context, superID string) ([]*entity.Accountant, error) {
	return r.filter(func(a *entity.Accountant) bool {
		return a.SuperAccountantID == nil || *a.SuperAccountantID == superID
	}), nil
}

func (r *AccountantRepo) filter(keep func(*entity.Accountant) bool) []*entity.Accountant {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Accountant, 0)
	for _, id := range r.s.accOrder {
		if keep(r.s.accountants[id]) {
			out = append(out, r.s.accountantLocked(id))
		}
	}
	return out
}

func (r *AccountantRepo) Upsert(_ context.Context, a *entity.Accountant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for _, existing := range r.s.accountants {
		if existing.UserID == a.UserID {
			existing.IsSuperAccountant = a.IsSuperAccountant
			existing.SuperAccountantID = a.SuperAccountantID
			if a.FirstName != "" {
				existing.FirstName = a.FirstName
			}
			if a.LastName != "" {
				existing.LastName = a.LastName
			}
			existing.UpdatedAt = now
			a.ID = existing.ID
			return nil
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt, a.UpdatedAt = now, now
	r.insertLocked(a)
	return nil
}

func (r *AccountantRepo) SetSuperAccountant(_ context.Context, id string, superID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accountants[id]
	if !ok {
		return domain.ErrAccountantNotFound
	}
	a.SuperAccountantID = superID
	a.UpdatedAt = time.Now()
	return nil
}
