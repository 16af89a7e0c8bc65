package repository

import (
	"context"

	"github.com/jhoicas/apex-am/internal/domain/entity"
)

// BusinessRepository puerto de persistencia para Business y sus asignaciones.
// Los negocios devueltos traen contables asignados y el último snapshot de métricas.
type BusinessRepository interface {
	Create(ctx context.Context, b *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	List(ctx context.Context) ([]*entity.Business, error)
	// ListLinkedToUser negocios propios del usuario unidos a los asignados a su perfil contable, sin duplicados.
	ListLinkedToUser(ctx context.Context, userID string) ([]*entity.Business, error)
	// AssignAccountant es idempotente (ON CONFLICT DO NOTHING).
	AssignAccountant(ctx context.Context, businessID, accountantID string) error
	// RemoveAccountant es idempotente.
	RemoveAccountant(ctx context.Context, businessID, accountantID string) error
	SaveFinancialMetrics(ctx context.Context, m *entity.BusinessFinancialMetrics) error
	SaveMetrics(ctx context.Context, m *entity.BusinessMetrics) error
}
