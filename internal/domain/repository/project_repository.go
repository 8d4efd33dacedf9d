package repository

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para Project (DIP).
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]*entity.Project, error)
	Delete(ctx context.Context, id string) error
}
