package adjustment

import (
	"strings"
	"time"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const actionEdit = "edit"

// Edit cambios de contenido de un ajuste. Campos nil no cambian.
type Edit struct {
	Type              *entity.AdjustmentType
	Title             *string
	Description       *string
	CalculationMethod *string
	SourceData        *entity.SourceData
	Amount            *decimal.Decimal
	Now               time.Time
}

// Empty indica si la edición no trae ningún campo.
func (e Edit) Empty() bool {
	return e.Type == nil && e.Title == nil && e.Description == nil &&
		e.CalculationMethod == nil && e.SourceData == nil && e.Amount == nil
}

// ApplyEdit aplica e sobre un ajuste todavía sin revisar (suggested o pending_review).
// Un ajuste finalizado devuelve *domain.InvalidTransitionError: hay que reabrirlo primero.
// El monto de una sugerencia de IA no se edita; se corrige con modify al revisar.
// El resultado se valida con Validate; a nunca se modifica.
func ApplyEdit(a *entity.Adjustment, e Edit) (*entity.Adjustment, error) {
	if a == nil {
		return nil, domain.NewValidationError("adjustment", "registro nulo")
	}
	if !a.Status.IsEntry() {
		return nil, &domain.InvalidTransitionError{AdjustmentID: a.ID, From: string(a.Status), Action: actionEdit}
	}
	if e.Empty() {
		return nil, domain.NewValidationError("body", "sin campos para actualizar")
	}
	if e.Amount != nil && !a.IsManual {
		return nil, domain.NewValidationError("amount", "el monto de una sugerencia se corrige con modify")
	}

	out := a.Clone()
	if e.Type != nil {
		out.Type = *e.Type
	}
	if e.Title != nil {
		out.Title = strings.TrimSpace(*e.Title)
	}
	if e.Description != nil {
		out.Description = *e.Description
	}
	if e.CalculationMethod != nil {
		out.CalculationMethod = *e.CalculationMethod
	}
	if e.SourceData != nil {
		sd := *e.SourceData
		out.SourceData = &sd
	}
	if e.Amount != nil {
		out.Amount = *e.Amount
	}
	now := e.Now
	if now.IsZero() {
		now = time.Now()
	}
	out.UpdatedAt = now
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
