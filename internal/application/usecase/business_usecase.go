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

// Mensajes de confirmación de asignación.
const (
	MsgAccountantAssigned = "Accountant assigned successfully"
	MsgAccountantRemoved  = "Accountant removed successfully"
)

// BusinessUseCase consulta de negocios con alcance por rol y asignación de contables.
type BusinessUseCase struct {
	repo        repository.BusinessRepository
	accountants repository.AccountantRepository
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(repo repository.BusinessRepository, accountants repository.AccountantRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo, accountants: accountants}
}

// List negocios visibles para el actor según su alcance.
func (uc *BusinessUseCase) List(ctx context.Context, actor *entity.User) ([]dto.BusinessResponse, error) {
	list, err := uc.scoped(ctx, actor)
	if err != nil {
		return nil, err
	}
	return dto.FromBusinesses(list), nil
}

func (uc *BusinessUseCase) scoped(ctx context.Context, actor *entity.User) ([]*entity.Business, error) {
	switch policy.BusinessScopeFor(actor.Role) {
	case policy.ScopeAll:
		return uc.repo.List(ctx)
	case policy.ScopeLinked:
		return uc.repo.ListLinkedToUser(ctx, actor.ID)
	default:
		return nil, domain.ErrForbidden
	}
}

// ListForUser negocios propios o asignados del usuario userID.
// Un accountant solo puede consultar los suyos.
func (uc *BusinessUseCase) ListForUser(ctx context.Context, actor *entity.User, userID string) ([]dto.BusinessResponse, error) {
	switch policy.BusinessScopeFor(actor.Role) {
	case policy.ScopeAll:
	case policy.ScopeLinked:
		if userID != actor.ID {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.ListLinkedToUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.FromBusinesses(list), nil
}

// GetByID detalle de un negocio; con alcance Linked el actor debe ser dueño o estar asignado.
func (uc *BusinessUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*dto.BusinessResponse, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBusinessNotFound
	}
	switch policy.BusinessScopeFor(actor.Role) {
	case policy.ScopeAll:
	case policy.ScopeLinked:
		ok, err := uc.isLinked(ctx, actor, b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}
	out := dto.FromBusiness(b)
	return &out, nil
}

func (uc *BusinessUseCase) isLinked(ctx context.Context, actor *entity.User, b *entity.Business) (bool, error) {
	if b.OwnerID == actor.ID {
		return true, nil
	}
	self, err := uc.accountants.GetByUserID(ctx, actor.ID)
	if err != nil {
		return false, err
	}
	return self != nil && b.HasAccountant(self.ID), nil
}

// AssignAccountant vincula el contable al negocio. Repetir la operación no duplica.
func (uc *BusinessUseCase) AssignAccountant(ctx context.Context, businessID string, in dto.AssignAccountantRequest) (*dto.MessageResponse, error) {
	accountantID, err := uc.validateAssignment(ctx, businessID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.AssignAccountant(ctx, businessID, accountantID); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: MsgAccountantAssigned}, nil
}

// RemoveAccountant desvincula el contable; quitar uno no asignado no es error.
func (uc *BusinessUseCase) RemoveAccountant(ctx context.Context, businessID string, in dto.AssignAccountantRequest) (*dto.MessageResponse, error) {
	accountantID, err := uc.validateAssignment(ctx, businessID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.RemoveAccountant(ctx, businessID, accountantID); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: MsgAccountantRemoved}, nil
}

func (uc *BusinessUseCase) validateAssignment(ctx context.Context, businessID string, in dto.AssignAccountantRequest) (string, error) {
	accountantID := strings.TrimSpace(in.AccountantID)
	if accountantID == "" {
		return "", domain.ErrInvalidInput
	}
	b, err := uc.repo.GetByID(ctx, businessID)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", domain.ErrBusinessNotFound
	}
	a, err := uc.accountants.GetByID(ctx, accountantID)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", domain.ErrAccountantNotFound
	}
	return accountantID, nil
}
