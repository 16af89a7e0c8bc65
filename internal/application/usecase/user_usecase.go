package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/policy"
	"github.com/jhoicas/apex-am/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios y cambio de rol.
type UserUseCase struct {
	repo repository.UserRepository
	tx   TxRunner
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia y el runner transaccional.
func NewUserUseCase(repo repository.UserRepository, tx TxRunner) *UserUseCase {
	return &UserUseCase{repo: repo, tx: tx}
}

// List devuelve todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromUsers(users), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.FromUser(user)
	return &out, nil
}

// AssignRole cambia el rol de un usuario entre accountant y super_accountant y
// sincroniza su perfil contable en la misma transacción.
// root_admin no es asignable ni modificable.
func (uc *UserUseCase) AssignRole(ctx context.Context, actor *entity.User, targetID string, in dto.AssignRoleRequest) (*dto.UserResponse, error) {
	if actor == nil || !policy.CanPromote(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if !policy.IsAssignableRole(in.NewRole) {
		return nil, domain.ErrInvalidRole
	}
	target, err := uc.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.Role == entity.RoleRootAdmin {
		return nil, domain.ErrImmutableRole
	}

	err = uc.tx.RunInTx(ctx, func(users repository.UserRepository, accountants repository.AccountantRepository) error {
		profile := &entity.Accountant{
			UserID:    target.ID,
			FirstName: target.FirstName,
			LastName:  target.LastName,
		}
		if in.NewRole == entity.RoleSuperAccountant {
			profile.IsSuperAccountant = true
		} else if in.SuperAccountantID != nil && *in.SuperAccountantID != "" {
			sup, err := accountants.GetByID(ctx, *in.SuperAccountantID)
			if err != nil {
				return err
			}
			if sup == nil || !sup.IsSuperAccountant || sup.UserID == target.ID {
				return domain.ErrNotSuperAccountant
			}
			sid := sup.ID
			profile.SuperAccountantID = &sid
		}
		if err := users.UpdateRole(ctx, target.ID, in.NewRole); err != nil {
			return fmt.Errorf("actualizar rol: %w", err)
		}
		if err := accountants.Upsert(ctx, profile); err != nil {
			return fmt.Errorf("sincronizar perfil contable: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, target.ID)
}
