package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	adjrules "github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
)

// ProjectTxRunner crea el proyecto y siembra su checklist en la misma transacción.
type ProjectTxRunner interface {
	RunProject(ctx context.Context, fn func(
		projectRepo repository.ProjectRepository,
		checklistRepo repository.ChecklistRepository,
	) error) error
}

// MaterialityDefaults umbrales de un proyecto creado sin umbrales explícitos.
type MaterialityDefaults struct {
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

var maxPercentage = decimal.NewFromInt(100)

// percentageScale decimales de materiality_percentage (NUMERIC(7,4)).
const percentageScale int32 = 4

// ProjectUseCase proyectos de QoE de una firma y el estado de su checklist de QA.
type ProjectUseCase struct {
	txRunner      ProjectTxRunner
	projectRepo   repository.ProjectRepository
	checklistRepo repository.ChecklistRepository
	defaults      MaterialityDefaults
	log           *logger.Logger
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(
	txRunner ProjectTxRunner,
	projectRepo repository.ProjectRepository,
	checklistRepo repository.ChecklistRepository,
	defaults MaterialityDefaults,
	log *logger.Logger,
) *ProjectUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectUseCase{
		txRunner:      txRunner,
		projectRepo:   projectRepo,
		checklistRepo: checklistRepo,
		defaults:      defaults,
		log:           log.Named("projects"),
	}
}

// Create crea un proyecto con los umbrales indicados (o los defaults) y siembra el checklist de QA.
func (uc *ProjectUseCase) Create(ctx context.Context, firmID, userID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	now := time.Now()
	p := &entity.Project{
		ID:                    uuid.New().String(),
		FirmID:                firmID,
		Name:                  strings.TrimSpace(in.Name),
		Description:           in.Description,
		ClientName:            in.ClientName,
		CreatedBy:             userID,
		IsActive:              true,
		MaterialityAmount:     uc.defaults.Amount,
		MaterialityPercentage: uc.defaults.Percentage,
		BaseValue:             in.BaseValue,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if in.MaterialityAmount != nil {
		p.MaterialityAmount = *in.MaterialityAmount
	}
	if in.MaterialityPercentage != nil {
		p.MaterialityPercentage = *in.MaterialityPercentage
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}

	items := entity.DefaultChecklist()
	for i := range items {
		items[i].ID = uuid.New().String()
		items[i].ProjectID = p.ID
		items[i].UpdatedAt = now
	}
	err := uc.txRunner.RunProject(ctx, func(projectRepo repository.ProjectRepository, checklistRepo repository.ChecklistRepository) error {
		if err := projectRepo.Create(ctx, p); err != nil {
			return err
		}
		return checklistRepo.CreateBatch(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("project_id", p.ID).Str("firm_id", firmID).Msg("proyecto creado")
	return EntityToProjectResponse(p), nil
}

// GetByID obtiene un proyecto de la firma.
func (uc *ProjectUseCase) GetByID(ctx context.Context, firmID, id string) (*dto.ProjectResponse, error) {
	p, err := uc.load(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	return EntityToProjectResponse(p), nil
}

// List lista los proyectos de la firma con paginación.
func (uc *ProjectUseCase) List(ctx context.Context, firmID string, limit, offset int) (*dto.ProjectListResponse, error) {
	list, err := uc.projectRepo.ListByFirm(ctx, firmID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *EntityToProjectResponse(p))
	}
	return &dto.ProjectListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza datos y umbrales del proyecto.
func (uc *ProjectUseCase) Update(ctx context.Context, firmID, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	p, err := uc.load(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ClientName != nil {
		p.ClientName = *in.ClientName
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.MaterialityAmount != nil {
		p.MaterialityAmount = *in.MaterialityAmount
	}
	if in.MaterialityPercentage != nil {
		p.MaterialityPercentage = *in.MaterialityPercentage
	}
	if in.BaseValue != nil {
		p.BaseValue = in.BaseValue
	}
	if in.ClearBaseValue {
		p.BaseValue = nil
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return EntityToProjectResponse(p), nil
}

// Delete elimina el proyecto con sus ajustes y checklist.
func (uc *ProjectUseCase) Delete(ctx context.Context, firmID, id string) error {
	if _, err := uc.load(ctx, firmID, id); err != nil {
		return err
	}
	if err := uc.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("project_id", id).Msg("proyecto eliminado")
	return nil
}

// UpdateChecklistItem cambia el estado de un ítem del checklist de QA.
// La condición derivada de los ajustes no se guarda y no puede editarse.
func (uc *ProjectUseCase) UpdateChecklistItem(ctx context.Context, firmID, projectID, itemID string, in dto.UpdateChecklistItemRequest) (*dto.ChecklistItemResp, error) {
	if _, err := uc.load(ctx, firmID, projectID); err != nil {
		return nil, err
	}
	switch in.Status {
	case entity.ChecklistComplete, entity.ChecklistPending, entity.ChecklistFailed:
	default:
		return nil, domain.NewValidationError("status", "debe ser complete, pending o failed")
	}
	item, err := uc.checklistRepo.GetByID(ctx, projectID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checklistRepo.UpdateStatus(ctx, projectID, itemID, in.Status); err != nil {
		return nil, err
	}
	return &dto.ChecklistItemResp{
		ID:          item.ID,
		Description: item.Description,
		Required:    item.Required,
		Status:      in.Status,
	}, nil
}

func (uc *ProjectUseCase) load(ctx context.Context, firmID, id string) (*entity.Project, error) {
	p, err := uc.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.FirmID != firmID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func validateProject(p *entity.Project) error {
	if p.Name == "" {
		return domain.NewValidationError("name", "requerido")
	}
	if p.MaterialityAmount.IsNegative() {
		return domain.NewValidationError("materiality_amount", "no puede ser negativo")
	}
	if err := adjrules.ValidateAmount("materiality_amount", p.MaterialityAmount); err != nil {
		return err
	}
	if p.MaterialityPercentage.IsNegative() || p.MaterialityPercentage.GreaterThan(maxPercentage) {
		return domain.NewValidationError("materiality_percentage", "debe estar en [0, 100]")
	}
	if err := adjrules.ValidateDecimal("materiality_percentage", p.MaterialityPercentage, percentageScale, maxPercentage.Add(decimal.NewFromInt(1))); err != nil {
		return err
	}
	if p.BaseValue != nil {
		if err := adjrules.ValidateAmount("base_value", *p.BaseValue); err != nil {
			return err
		}
	}
	return nil
}

// EntityToProjectResponse convierte Project en su salida.
func EntityToProjectResponse(p *entity.Project) *dto.ProjectResponse {
	if p == nil {
		return nil
	}
	return &dto.ProjectResponse{
		ID:                    p.ID,
		FirmID:                p.FirmID,
		Name:                  p.Name,
		Description:           p.Description,
		ClientName:            p.ClientName,
		CreatedBy:             p.CreatedBy,
		IsActive:              p.IsActive,
		MaterialityAmount:     p.MaterialityAmount,
		MaterialityPercentage: p.MaterialityPercentage,
		BaseValue:             p.BaseValue,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
