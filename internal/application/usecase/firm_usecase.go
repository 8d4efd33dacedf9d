package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
)

// FirmUseCase aplica reglas de negocio para firmas (casos de uso).
type FirmUseCase struct {
	repo repository.FirmRepository
}

// NewFirmUseCase construye el caso de uso con el puerto de persistencia.
func NewFirmUseCase(repo repository.FirmRepository) *FirmUseCase {
	return &FirmUseCase{repo: repo}
}

// Create crea una nueva firma. Genera ID y estado inicial. El repositorio devuelve domain.ErrDuplicate
// si el nombre ya existe.
func (uc *FirmUseCase) Create(ctx context.Context, in dto.CreateFirmRequest) (*dto.FirmResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	now := time.Now()
	firm := &entity.Firm{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, firm); err != nil {
		return nil, err
	}
	return entityToFirmResponse(firm), nil
}

// GetByID obtiene una firma por ID.
func (uc *FirmUseCase) GetByID(ctx context.Context, id string) (*dto.FirmResponse, error) {
	firm, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if firm == nil {
		return nil, domain.ErrNotFound
	}
	return entityToFirmResponse(firm), nil
}

// List lista firmas con paginación.
func (uc *FirmUseCase) List(ctx context.Context, limit, offset int) (*dto.FirmListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FirmResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *entityToFirmResponse(f))
	}
	return &dto.FirmListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func entityToFirmResponse(f *entity.Firm) *dto.FirmResponse {
	if f == nil {
		return nil
	}
	return &dto.FirmResponse{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
