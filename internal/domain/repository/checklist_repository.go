package repository

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// ChecklistRepository checklist de QA por proyecto.
type ChecklistRepository interface {
	// CreateBatch siembra los ítems de un proyecto nuevo.
	CreateBatch(ctx context.Context, items []entity.ChecklistItem) error
	ListByProject(ctx context.Context, projectID string) ([]entity.ChecklistItem, error)
	GetByID(ctx context.Context, projectID, itemID string) (*entity.ChecklistItem, error)
	UpdateStatus(ctx context.Context, projectID, itemID, status string) error
}
