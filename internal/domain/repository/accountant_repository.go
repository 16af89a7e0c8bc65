package repository

import (
	"context"

	"github.com/jhoicas/apex-am/internal/domain/entity"
)

// AccountantRepository puerto de persistencia para Accountant.
// Los listados cargan el User embebido.
type AccountantRepository interface {
	Create(ctx context.Context, a *entity.Accountant) error
	GetByID(ctx context.Context, id string) (*entity.Accountant, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Accountant, error)
	List(ctx context.Context) ([]*entity.Accountant, error)
	// ListManagedOrIndependent contables gestionados por superID más los que no tienen super.
	ListManagedOrIndependent(ctx context.Context, superID string) ([]*entity.Accountant, error)
	// Upsert crea o actualiza el perfil contable asociado a a.UserID.
	Upsert(ctx context.Context, a *entity.Accountant) error
	SetSuperAccountant(ctx context.Context, id string, superID *string) error
}
