package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChecklistItemResp ítem del checklist de QA.
type ChecklistItemResp struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Status      string `json:"status"`
	// Derived = true para la condición calculada desde los ajustes (no editable).
	Derived bool `json:"derived,omitempty"`
}

// UpdateChecklistItemRequest cambia el estado de un ítem.
type UpdateChecklistItemRequest struct {
	Status string `json:"status" validate:"required,oneof=complete pending failed"`
}

// ChecklistResponse checklist de un proyecto.
type ChecklistResponse struct {
	ProjectID string              `json:"project_id"`
	Items     []ChecklistItemResp `json:"items"`
}

// ReadinessResponse evaluación de la compuerta de reportes.
type ReadinessResponse struct {
	ProjectID  string              `json:"project_id"`
	Ready      bool                `json:"ready"`
	Items      []ChecklistItemResp `json:"items"`
	Incomplete []ChecklistItemResp `json:"incomplete"`
	Unreviewed int                 `json:"unreviewed"`
}

// SummaryRow ajuste incluido o excluido del reporte.
type SummaryRow struct {
	AdjustmentResponse
	Material bool `json:"material"`
	Forced   bool `json:"forced"`
}

// StatusCountsResponse estadísticas internas por estado.
type StatusCountsResponse struct {
	Total         int `json:"total"`
	Suggested     int `json:"suggested"`
	PendingReview int `json:"pending_review"`
	Accepted      int `json:"accepted"`
	Rejected      int `json:"rejected"`
	Modified      int `json:"modified"`
	Material      int `json:"material"`
}

// SummaryResponse resumen de materialidad e impacto total de un proyecto.
type SummaryResponse struct {
	ProjectID             string               `json:"project_id"`
	MaterialityAmount     decimal.Decimal      `json:"materiality_amount"`
	MaterialityPercentage decimal.Decimal      `json:"materiality_percentage"`
	BaseValue             *decimal.Decimal     `json:"base_value,omitempty"`
	PercentageFloor       *decimal.Decimal     `json:"percentage_floor,omitempty"`
	Included              []SummaryRow         `json:"included"`
	Excluded              []SummaryRow         `json:"excluded"`
	TotalImpact           decimal.Decimal      `json:"total_impact"`
	Counts                StatusCountsResponse `json:"counts"`
	GeneratedAt           time.Time            `json:"generated_at"`
}
