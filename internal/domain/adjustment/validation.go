// Package adjustment contiene las reglas de dominio del flujo de revisión de ajustes QoE:
// validación del registro, máquina de estados de revisión, filtro de materialidad y
// compuerta de preparación de reportes. No depende de infraestructura.
package adjustment

import (
	"fmt"
	"math"
	"strings"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AmountFromFloat convierte un monto recibido como float (ej. salida del servicio de ingesta)
// a decimal. Rechaza NaN e ±Inf.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, domain.NewValidationError("amount", "debe ser un número real finito")
	}
	return decimal.NewFromFloat(f), nil
}

// MaxAmountScale decimales admitidos en un monto (columnas NUMERIC(20,2)).
const MaxAmountScale int32 = 2

// maxAmount cota exclusiva del valor absoluto: 18 dígitos enteros.
var maxAmount = decimal.New(1, 18)

// ValidateAmount rechaza montos que la base de datos redondearía o no podría guardar.
func ValidateAmount(field string, d decimal.Decimal) error {
	return ValidateDecimal(field, d, MaxAmountScale, maxAmount)
}

// ValidateDecimal exige como máximo scale decimales y |d| < limit.
func ValidateDecimal(field string, d decimal.Decimal, scale int32, limit decimal.Decimal) error {
	if !d.Equal(d.Truncate(scale)) {
		return domain.NewValidationError(field, fmt.Sprintf("admite como máximo %d decimales", scale))
	}
	if d.Abs().GreaterThanOrEqual(limit) {
		return domain.NewValidationError(field, "excede el máximo admitido")
	}
	return nil
}

// Validate valida los campos de un ajuste ya existente (actualización).
// Retorna *domain.ValidationError con el primer campo inválido.
func Validate(a *entity.Adjustment) error {
	if a == nil {
		return domain.NewValidationError("adjustment", "registro nulo")
	}
	if strings.TrimSpace(a.ProjectID) == "" {
		return domain.NewValidationError("project_id", "requerido")
	}
	if !a.Type.Valid() {
		return domain.NewValidationError("adjustment_type", "tipo de ajuste desconocido: "+string(a.Type))
	}
	if strings.TrimSpace(a.Title) == "" {
		return domain.NewValidationError("title", "requerido")
	}
	if !a.Status.Valid() {
		return domain.NewValidationError("status", "estado desconocido: "+string(a.Status))
	}
	if err := ValidateAmount("amount", a.Amount); err != nil {
		return err
	}
	if a.OriginalAmount != nil {
		if err := ValidateAmount("original_amount", *a.OriginalAmount); err != nil {
			return err
		}
	}
	if err := validateScore("confidence_score", a.ConfidenceScore); err != nil {
		return err
	}
	if err := validateScore("precision_score", a.PrecisionScore); err != nil {
		return err
	}
	if a.IsManual && a.ConfidenceScore != nil {
		return domain.NewValidationError("confidence_score", "un ajuste manual no lleva confidence score")
	}
	if a.IsManual && a.PrecisionScore != nil {
		return domain.NewValidationError("precision_score", "un ajuste manual no lleva precision score")
	}
	if a.SourceData != nil && !a.SourceData.Kind.Valid() {
		return domain.NewValidationError("source_data.kind", "origen desconocido: "+string(a.SourceData.Kind))
	}
	return nil
}

// ValidateNew valida un ajuste en su creación: además de Validate aplica las reglas
// de estado inicial (IA → suggested; manual → accepted | pending_review).
func ValidateNew(a *entity.Adjustment) error {
	if err := Validate(a); err != nil {
		return err
	}
	if a.IsManual {
		if a.Status != entity.StatusAccepted && a.Status != entity.StatusPendingReview {
			return domain.NewValidationError("status", "un ajuste manual se crea como accepted o pending_review")
		}
		return nil
	}
	if a.Status != entity.StatusSuggested {
		return domain.NewValidationError("status", "un ajuste sugerido por IA se crea en estado suggested")
	}
	return nil
}

func validateScore(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 || *v > 1 {
		return domain.NewValidationError(field, "debe estar en [0, 1]")
	}
	return nil
}
