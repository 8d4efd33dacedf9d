package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType categoría cerrada de ajuste de normalización (QoE).
type AdjustmentType string

const (
	AdjustmentExecutiveCompensation  AdjustmentType = "executive_compensation"
	AdjustmentSeverance              AdjustmentType = "severance"
	AdjustmentOneTimeRevenue         AdjustmentType = "one_time_revenue"
	AdjustmentDepreciation           AdjustmentType = "depreciation"
	AdjustmentStockCompensation      AdjustmentType = "stock_compensation"
	AdjustmentLitigationCosts        AdjustmentType = "litigation_costs"
	AdjustmentRestructuring          AdjustmentType = "restructuring"
	AdjustmentAcquisitionCosts       AdjustmentType = "acquisition_costs"
	AdjustmentIPOCosts               AdjustmentType = "ipo_costs"
	AdjustmentConsultantFees         AdjustmentType = "consultant_fees"
	AdjustmentTravelEntertainment    AdjustmentType = "travel_entertainment"
	AdjustmentRentNormalization      AdjustmentType = "rent_normalization"
	AdjustmentRelatedParty           AdjustmentType = "related_party"
	AdjustmentInsuranceNormalization AdjustmentType = "insurance_normalization"
	AdjustmentBadDebt                AdjustmentType = "bad_debt"
	AdjustmentInventoryAdjustment    AdjustmentType = "inventory_adjustment"
	AdjustmentWarrantyReserve        AdjustmentType = "warranty_reserve"
	AdjustmentAccrualAdjustment      AdjustmentType = "accrual_adjustment"
	AdjustmentAccountingPolicy       AdjustmentType = "accounting_policy"
	AdjustmentSeasonalAdjustment     AdjustmentType = "seasonal_adjustment"
	AdjustmentCustomerConcentration  AdjustmentType = "customer_concentration"
	AdjustmentSupplierConcentration  AdjustmentType = "supplier_concentration"
	AdjustmentContractAdjustment     AdjustmentType = "contract_adjustment"
	AdjustmentRevenueRecognition     AdjustmentType = "revenue_recognition"
	AdjustmentCostAllocation         AdjustmentType = "cost_allocation"
	AdjustmentAssetImpairment        AdjustmentType = "asset_impairment"
	AdjustmentTaxAdjustment          AdjustmentType = "tax_adjustment"
	AdjustmentOther                  AdjustmentType = "other"
)

// AdjustmentTypes lista completa, en el orden de presentación de los reportes.
var AdjustmentTypes = []AdjustmentType{
	AdjustmentExecutiveCompensation, AdjustmentSeverance, AdjustmentOneTimeRevenue,
	AdjustmentDepreciation, AdjustmentStockCompensation, AdjustmentLitigationCosts,
	AdjustmentRestructuring, AdjustmentAcquisitionCosts, AdjustmentIPOCosts,
	AdjustmentConsultantFees, AdjustmentTravelEntertainment, AdjustmentRentNormalization,
	AdjustmentRelatedParty, AdjustmentInsuranceNormalization, AdjustmentBadDebt,
	AdjustmentInventoryAdjustment, AdjustmentWarrantyReserve, AdjustmentAccrualAdjustment,
	AdjustmentAccountingPolicy, AdjustmentSeasonalAdjustment, AdjustmentCustomerConcentration,
	AdjustmentSupplierConcentration, AdjustmentContractAdjustment, AdjustmentRevenueRecognition,
	AdjustmentCostAllocation, AdjustmentAssetImpairment, AdjustmentTaxAdjustment, AdjustmentOther,
}

// Valid indica si t pertenece a la enumeración cerrada.
func (t AdjustmentType) Valid() bool {
	for _, v := range AdjustmentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// AdjustmentStatus estado de revisión del ajuste.
type AdjustmentStatus string

// Deben coincidir con el CHECK de la tabla adjustments.
const (
	StatusSuggested     AdjustmentStatus = "suggested"
	StatusPendingReview AdjustmentStatus = "pending_review"
	StatusAccepted      AdjustmentStatus = "accepted"
	StatusRejected      AdjustmentStatus = "rejected"
	StatusModified      AdjustmentStatus = "modified"
)

// Valid indica si s es un estado conocido.
func (s AdjustmentStatus) Valid() bool {
	switch s {
	case StatusSuggested, StatusPendingReview, StatusAccepted, StatusRejected, StatusModified:
		return true
	}
	return false
}

// IsEntry estados desde los que se puede revisar.
func (s AdjustmentStatus) IsEntry() bool {
	return s == StatusSuggested || s == StatusPendingReview
}

// IsFinal estados que cierran un ciclo de revisión (solo salen con reopen).
func (s AdjustmentStatus) IsFinal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusModified
}

// CountsTowardImpact estados cuyo monto suma al impacto total del reporte.
func (s AdjustmentStatus) CountsTowardImpact() bool {
	return s == StatusAccepted || s == StatusModified
}

// SourceKind origen del dato que soporta el ajuste.
type SourceKind string

const (
	SourceLedgerLine      SourceKind = "ledger_line"
	SourceDocumentExcerpt SourceKind = "document_excerpt"
	SourceManualEntry     SourceKind = "manual_entry"
)

// Valid indica si k es un origen conocido.
func (k SourceKind) Valid() bool {
	return k == SourceLedgerLine || k == SourceDocumentExcerpt || k == SourceManualEntry
}

// SourceData payload tipado con la evidencia del ajuste (reemplaza el JSON libre).
type SourceData struct {
	Kind      SourceKind                 `json:"kind"`
	Reference string                     `json:"reference,omitempty"` // cuenta contable, página, etc.
	Period    string                     `json:"period,omitempty"`    // ej. "FY2024", "2024-Q3"
	Excerpt   string                     `json:"excerpt,omitempty"`
	Figures   map[string]decimal.Decimal `json:"figures,omitempty"`
}

// Adjustment ajuste propuesto o final a los resultados reportados de un proyecto.
// Status solo cambia mediante las transiciones de revisión (review / reopen).
type Adjustment struct {
	ID                string
	ProjectID         string
	SourceDocumentID  string // vacío si no proviene de un documento
	CreatedBy         string
	Type              AdjustmentType
	Title             string
	Description       string
	Amount            decimal.Decimal
	AINarrative       string
	CalculationMethod string
	ConfidenceScore   *float64 // solo ajustes sugeridos por IA
	PrecisionScore    *float64 // solo ajustes sugeridos por IA
	SourceData        *SourceData
	IsManual          bool
	ForceInclude      bool // incluir en reportes aunque no sea material
	Status            AdjustmentStatus
	ReviewedBy        *string
	ReviewNotes       *string
	ReviewedAt        *time.Time
	OriginalAmount    *decimal.Decimal // solo en estado modified
	OverrideReason    string
	Version           int // token de concurrencia optimista; lo incrementa el repositorio
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone copia profunda de los campos puntero, para aplicar transiciones sin tocar el original.
func (a *Adjustment) Clone() *Adjustment {
	if a == nil {
		return nil
	}
	c := *a
	if a.ConfidenceScore != nil {
		v := *a.ConfidenceScore
		c.ConfidenceScore = &v
	}
	if a.PrecisionScore != nil {
		v := *a.PrecisionScore
		c.PrecisionScore = &v
	}
	if a.SourceData != nil {
		sd := *a.SourceData
		if a.SourceData.Figures != nil {
			sd.Figures = make(map[string]decimal.Decimal, len(a.SourceData.Figures))
			for k, v := range a.SourceData.Figures {
				sd.Figures[k] = v
			}
		}
		c.SourceData = &sd
	}
	if a.ReviewedBy != nil {
		v := *a.ReviewedBy
		c.ReviewedBy = &v
	}
	if a.ReviewNotes != nil {
		v := *a.ReviewNotes
		c.ReviewNotes = &v
	}
	if a.ReviewedAt != nil {
		v := *a.ReviewedAt
		c.ReviewedAt = &v
	}
	if a.OriginalAmount != nil {
		v := *a.OriginalAmount
		c.OriginalAmount = &v
	}
	return &c
}
