package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceDataDTO origen del ajuste (línea contable, extracto de documento o entrada manual).
type SourceDataDTO struct {
	Kind      string                     `json:"kind" validate:"required,oneof=ledger_line document_excerpt manual_entry"`
	Reference string                     `json:"reference,omitempty" validate:"omitempty,max=500"`
	Period    string                     `json:"period,omitempty" validate:"omitempty,max=50"`
	Excerpt   string                     `json:"excerpt,omitempty" validate:"omitempty,max=4000"`
	Figures   map[string]decimal.Decimal `json:"figures,omitempty"`
}

// CreateManualAdjustmentRequest alta manual de un ajuste por un analista.
// Status: accepted (default) o pending_review.
type CreateManualAdjustmentRequest struct {
	AdjustmentType    string           `json:"adjustment_type" validate:"required"`
	Title             string           `json:"title" validate:"required,min=1,max=255"`
	Description       string           `json:"description" validate:"omitempty,max=4000"`
	Amount            *decimal.Decimal `json:"amount" validate:"required"`
	CalculationMethod string           `json:"calculation_method" validate:"omitempty,max=2000"`
	SourceDocumentID  string           `json:"source_document_id" validate:"omitempty,uuid"`
	SourceData        *SourceDataDTO   `json:"source_data"`
	Status            string           `json:"status" validate:"omitempty,oneof=accepted pending_review"`
	ForceInclude      bool             `json:"force_include"`
}

// SuggestionCandidate ajuste candidato producido por el servicio de ingesta de documentos.
// Amount llega como número flotante; se convierte a decimal rechazando NaN/Inf.
type SuggestionCandidate struct {
	AdjustmentType    string         `json:"adjustment_type" validate:"required"`
	Title             string         `json:"title" validate:"required,min=1,max=255"`
	Description       string         `json:"description" validate:"omitempty,max=4000"`
	Amount            float64        `json:"amount"`
	AINarrative       string         `json:"ai_narrative"`
	CalculationMethod string         `json:"calculation_method"`
	ConfidenceScore   *float64       `json:"confidence_score" validate:"required"`
	PrecisionScore    *float64       `json:"precision_score"`
	SourceDocumentID  string         `json:"source_document_id" validate:"omitempty,uuid"`
	SourceData        *SourceDataDTO `json:"source_data"`
}

// IngestSuggestionsRequest lote de candidatos de un documento.
type IngestSuggestionsRequest struct {
	Candidates []SuggestionCandidate `json:"candidates" validate:"required,min=1,max=500,dive"`
}

// ReviewAdjustmentRequest decisión de revisión.
type ReviewAdjustmentRequest struct {
	Decision  string           `json:"decision" validate:"required,oneof=accept reject modify"`
	Notes     string           `json:"notes" validate:"omitempty,max=4000"`
	NewAmount *decimal.Decimal `json:"new_amount"`
}

// UpdateAdjustmentRequest edición de contenido de un ajuste sin revisar (campos opcionales).
// Amount solo aplica a ajustes manuales.
type UpdateAdjustmentRequest struct {
	AdjustmentType    *string          `json:"adjustment_type" validate:"omitempty,min=1"`
	Title             *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description       *string          `json:"description" validate:"omitempty,max=4000"`
	CalculationMethod *string          `json:"calculation_method" validate:"omitempty,max=2000"`
	SourceData        *SourceDataDTO   `json:"source_data"`
	Amount            *decimal.Decimal `json:"amount"`
}

// ForceIncludeRequest marca/desmarca la inclusión forzada de un ajuste no material.
type ForceIncludeRequest struct {
	ForceInclude bool `json:"force_include"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID                string           `json:"id"`
	ProjectID         string           `json:"project_id"`
	SourceDocumentID  string           `json:"source_document_id,omitempty"`
	CreatedBy         string           `json:"created_by,omitempty"`
	AdjustmentType    string           `json:"adjustment_type"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Amount            decimal.Decimal  `json:"amount"`
	AINarrative       string           `json:"ai_narrative,omitempty"`
	CalculationMethod string           `json:"calculation_method,omitempty"`
	ConfidenceScore   *float64         `json:"confidence_score,omitempty"`
	PrecisionScore    *float64         `json:"precision_score,omitempty"`
	SourceData        *SourceDataDTO   `json:"source_data,omitempty"`
	IsManual          bool             `json:"is_manual"`
	ForceInclude      bool             `json:"force_include"`
	Status            string           `json:"status"`
	ReviewedBy        *string          `json:"reviewed_by"`
	ReviewNotes       *string          `json:"review_notes"`
	ReviewedAt        *time.Time       `json:"reviewed_at"`
	OriginalAmount    *decimal.Decimal `json:"original_amount"`
	OverrideReason    string           `json:"override_reason,omitempty"`
	Version           int              `json:"version"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// AdjustmentListResponse ajustes de un proyecto.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Total int                  `json:"total"`
}

// IngestSuggestionsResponse ajustes creados a partir de un lote.
type IngestSuggestionsResponse struct {
	Created []AdjustmentResponse `json:"created"`
}

// AuditLogResponse entrada de la bitácora de un ajuste.
type AuditLogResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Action     string           `json:"action"`
	FromStatus string           `json:"from_status,omitempty"`
	ToStatus   string           `json:"to_status,omitempty"`
	FromAmount *decimal.Decimal `json:"from_amount,omitempty"`
	ToAmount   *decimal.Decimal `json:"to_amount,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// AdjustmentHistoryResponse historial de un ajuste, más antiguo primero.
type AdjustmentHistoryResponse struct {
	AdjustmentID string             `json:"adjustment_id"`
	Items        []AuditLogResponse `json:"items"`
}
