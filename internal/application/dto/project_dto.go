package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProjectRequest entrada para crear un proyecto. Umbrales nil = defaults de configuración.
type CreateProjectRequest struct {
	Name                  string           `json:"name" validate:"required,min=1,max=200"`
	Description           string           `json:"description" validate:"omitempty,max=2000"`
	ClientName            string           `json:"client_name" validate:"omitempty,max=200"`
	MaterialityAmount     *decimal.Decimal `json:"materiality_amount"`
	MaterialityPercentage *decimal.Decimal `json:"materiality_percentage"`
	BaseValue             *decimal.Decimal `json:"base_value"`
}

// UpdateProjectRequest entrada para actualizar un proyecto (campos opcionales).
type UpdateProjectRequest struct {
	Name                  *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description           *string          `json:"description" validate:"omitempty,max=2000"`
	ClientName            *string          `json:"client_name" validate:"omitempty,max=200"`
	IsActive              *bool            `json:"is_active"`
	MaterialityAmount     *decimal.Decimal `json:"materiality_amount"`
	MaterialityPercentage *decimal.Decimal `json:"materiality_percentage"`
	BaseValue             *decimal.Decimal `json:"base_value"`
	// ClearBaseValue vuelve la base a "desconocida" (solo aplica el umbral absoluto).
	ClearBaseValue bool `json:"clear_base_value"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID                    string           `json:"id"`
	FirmID                string           `json:"firm_id"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	ClientName            string           `json:"client_name"`
	CreatedBy             string           `json:"created_by"`
	IsActive              bool             `json:"is_active"`
	MaterialityAmount     decimal.Decimal  `json:"materiality_amount"`
	MaterialityPercentage decimal.Decimal  `json:"materiality_percentage"`
	BaseValue             *decimal.Decimal `json:"base_value,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// ProjectListResponse lista paginada de proyectos.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
