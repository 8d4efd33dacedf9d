package repository

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// AdjustmentFilter filtros de listado. Status nil = todos los estados;
// el filtro es siempre explícito, el repositorio no oculta ningún estado por defecto.
type AdjustmentFilter struct {
	Status *entity.AdjustmentStatus
}

// AdjustmentRepository define el puerto de persistencia para ajustes QoE.
// Get* devuelven (nil, nil) cuando el registro no existe.
type AdjustmentRepository interface {
	Create(ctx context.Context, a *entity.Adjustment) error
	GetByID(ctx context.Context, id string) (*entity.Adjustment, error)
	// GetForUpdate lee y bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error)
	// Update guarda a si la versión persistida sigue siendo expectedVersion y deja a.Version = expectedVersion+1.
	// Si otro escritor ganó la carrera retorna domain.ErrConflict.
	Update(ctx context.Context, a *entity.Adjustment, expectedVersion int) error
	ListByProject(ctx context.Context, projectID string, filter AdjustmentFilter) ([]*entity.Adjustment, error)
	Delete(ctx context.Context, id string) error
}
