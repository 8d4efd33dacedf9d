package repository

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// AuditLogRepository bitácora de mutaciones sobre ajustes. Se escribe en la misma tx que la mutación.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error)
}
