package adjustment

import (
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Thresholds umbrales de materialidad de un proyecto.
// Amount: piso absoluto en moneda. Percentage: piso relativo en % de la base (ej. 3.0 = 3 %).
type Thresholds struct {
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// ThresholdsFor extrae los umbrales configurados en el proyecto.
func ThresholdsFor(p *entity.Project) Thresholds {
	return Thresholds{Amount: p.MaterialityAmount, Percentage: p.MaterialityPercentage}
}

// PercentageFloor piso relativo = Percentage/100 * base.
// ok=false cuando la base es nil, cero o negativa: la cláusula porcentual no aplica.
func (t Thresholds) PercentageFloor(base *decimal.Decimal) (floor decimal.Decimal, ok bool) {
	if base == nil || !base.IsPositive() {
		return decimal.Zero, false
	}
	return t.Percentage.Div(hundred).Mul(*base), true
}

// IsMaterial |amount| >= Amount  O  |amount| >= Percentage/100 * base.
// Sin base válida solo aplica el umbral absoluto (nunca divide por cero ni asume "siempre material").
func IsMaterial(amount decimal.Decimal, t Thresholds, base *decimal.Decimal) bool {
	abs := amount.Abs()
	if abs.GreaterThanOrEqual(t.Amount) {
		return true
	}
	floor, ok := t.PercentageFloor(base)
	return ok && abs.GreaterThanOrEqual(floor)
}

// Row ajuste evaluado contra los umbrales.
type Row struct {
	Adjustment *entity.Adjustment
	Material   bool
	Forced     bool // no material pero incluido por decisión del usuario
}

// StatusCounts estadísticas internas; cuentan todos los ajustes, materiales o no.
type StatusCounts struct {
	Total         int
	Suggested     int
	PendingReview int
	Accepted      int
	Rejected      int
	Modified      int
	Material      int
}

// Summary resultado del filtro de materialidad sobre el conjunto de ajustes de un proyecto.
type Summary struct {
	Thresholds      Thresholds
	Base            *decimal.Decimal
	PercentageFloor *decimal.Decimal // nil si la cláusula porcentual no aplica
	// Included filas del reporte externo: accepted|modified y (materiales o forzadas).
	Included []Row
	// Excluded accepted|modified no materiales sin forzar: quedan fuera del reporte y del total.
	Excluded    []Row
	TotalImpact decimal.Decimal
	Counts      StatusCounts
}

// Apply evalúa la materialidad de cada ajuste y calcula el impacto total del reporte.
// Rejected, suggested y pending_review nunca suman al total, sea cual sea su monto.
func Apply(adjustments []*entity.Adjustment, t Thresholds, base *decimal.Decimal) Summary {
	s := Summary{Thresholds: t, Base: base, TotalImpact: decimal.Zero}
	if floor, ok := t.PercentageFloor(base); ok {
		s.PercentageFloor = &floor
	}

	for _, a := range adjustments {
		if a == nil {
			continue
		}
		material := IsMaterial(a.Amount, t, base)
		s.Counts.Total++
		if material {
			s.Counts.Material++
		}
		switch a.Status {
		case entity.StatusSuggested:
			s.Counts.Suggested++
		case entity.StatusPendingReview:
			s.Counts.PendingReview++
		case entity.StatusAccepted:
			s.Counts.Accepted++
		case entity.StatusRejected:
			s.Counts.Rejected++
		case entity.StatusModified:
			s.Counts.Modified++
		}

		if !a.Status.CountsTowardImpact() {
			continue
		}
		row := Row{Adjustment: a, Material: material, Forced: !material && a.ForceInclude}
		if material || a.ForceInclude {
			s.Included = append(s.Included, row)
			s.TotalImpact = s.TotalImpact.Add(a.Amount)
		} else {
			s.Excluded = append(s.Excluded, row)
		}
	}
	return s
}
