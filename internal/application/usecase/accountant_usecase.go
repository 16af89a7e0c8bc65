package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/policy"
	"github.com/jhoicas/apex-am/internal/domain/repository"
)

// AccountantUseCase consulta y gestión de contables con alcance por rol.
type AccountantUseCase struct {
	repo repository.AccountantRepository
}

// NewAccountantUseCase construye el caso de uso.
func NewAccountantUseCase(repo repository.AccountantRepository) *AccountantUseCase {
	return &AccountantUseCase{repo: repo}
}

// List aplica el alcance de contables del rol (policy.AccountantScopeFor).
func (uc *AccountantUseCase) List(ctx context.Context, actor *entity.User) ([]dto.AccountantResponse, error) {
	var (
		list []*entity.Accountant
		err  error
	)
	switch policy.AccountantScopeFor(actor.Role) {
	case policy.ScopeAll:
		list, err = uc.repo.List(ctx)
	case policy.ScopeManaged:
		self, e := uc.repo.GetByUserID(ctx, actor.ID)
		if e != nil {
			return nil, e
		}
		if self == nil {
			// Super sin perfil contable: solo los independientes.
			list, err = uc.repo.ListManagedOrIndependent(ctx, "")
		} else {
			list, err = uc.repo.ListManagedOrIndependent(ctx, self.ID)
		}
	case policy.ScopeSelf:
		self, e := uc.repo.GetByUserID(ctx, actor.ID)
		if e != nil {
			return nil, e
		}
		if self != nil {
			list = []*entity.Accountant{self}
		}
	default:
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return dto.FromAccountants(list), nil
}

// GetByID con alcance ScopeSelf solo se puede consultar el propio registro.
func (uc *AccountantUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*dto.AccountantResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAccountantNotFound
	}
	switch policy.AccountantScopeFor(actor.Role) {
	case policy.ScopeAll, policy.ScopeManaged:
	case policy.ScopeSelf:
		if a.UserID != actor.ID {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}
	out := dto.FromAccountant(a)
	return &out, nil
}

// AssignSuper asigna el super contable que gestiona al contable id.
func (uc *AccountantUseCase) AssignSuper(ctx context.Context, id string, in dto.AssignSuperRequest) (*dto.AccountantResponse, error) {
	superID := strings.TrimSpace(in.SuperAccountantID)
	if superID == "" {
		return nil, domain.ErrInvalidInput
	}
	target, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrAccountantNotFound
	}
	if superID == target.ID {
		return nil, domain.ErrInvalidInput
	}
	sup, err := uc.repo.GetByID(ctx, superID)
	if err != nil {
		return nil, err
	}
	if sup == nil || !sup.IsSuperAccountant {
		return nil, domain.ErrNotSuperAccountant
	}
	if err := uc.repo.SetSuperAccountant(ctx, target.ID, &sup.ID); err != nil {
		return nil, err
	}
	return uc.reload(ctx, target.ID)
}

// RemoveSuper deja al contable como independiente.
func (uc *AccountantUseCase) RemoveSuper(ctx context.Context, id string) (*dto.AccountantResponse, error) {
	target, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrAccountantNotFound
	}
	if err := uc.repo.SetSuperAccountant(ctx, target.ID, nil); err != nil {
		return nil, err
	}
	return uc.reload(ctx, target.ID)
}

func (uc *AccountantUseCase) reload(ctx context.Context, id string) (*dto.AccountantResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAccountantNotFound
	}
	out := dto.FromAccountant(a)
	return &out, nil
}
