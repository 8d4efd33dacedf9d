package repository

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// FirmRepository define el puerto de persistencia para Firm (DIP).
// La implementación vive en infrastructure.
type FirmRepository interface {
	Create(ctx context.Context, firm *entity.Firm) error
	GetByID(ctx context.Context, id string) (*entity.Firm, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Firm, error)
}
