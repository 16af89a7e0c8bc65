package repository

import (
	"context"

	"github.com/jhoicas/apex-am/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos de búsqueda devuelven (nil, nil) cuando no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, id, role string) error
}
