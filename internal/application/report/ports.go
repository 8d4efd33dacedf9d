package report

import (
	"context"
	"time"

	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
)

// SnapshotRunner ejecuta lecturas dentro de una transacción REPEATABLE READ READ ONLY,
// de modo que ajustes y checklist se lean del mismo snapshot.
type SnapshotRunner interface {
	RunSnapshot(ctx context.Context, fn func(
		projectRepo repository.ProjectRepository,
		adjRepo repository.AdjustmentRepository,
		checklistRepo repository.ChecklistRepository,
	) error) error
}

// Document datos ya filtrados por materialidad que recibe un generador.
type Document struct {
	FirmName    string
	Currency    string
	Project     *entity.Project
	Summary     adjustment.Summary
	Checklist   []entity.ChecklistItem
	GeneratedBy string
	GeneratedAt time.Time
}

// Generator produce un archivo de reporte a partir de Document.
type Generator interface {
	Generate(ctx context.Context, doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}
