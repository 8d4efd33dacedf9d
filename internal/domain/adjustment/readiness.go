package adjustment

import (
	"fmt"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// ReviewedItemID id de la condición derivada "ajustes sugeridos por IA revisados".
const ReviewedItemID = "ai-suggestions-reviewed"

// ReviewedItemDescription texto de la condición derivada.
const ReviewedItemDescription = "AI-suggested adjustments have been reviewed"

// Readiness evaluación de la compuerta de reportes.
type Readiness struct {
	Ready bool
	// Items checklist evaluado: ítems externos + la condición derivada de los ajustes.
	Items      []entity.ChecklistItem
	Incomplete []entity.ChecklistItem // requeridos que no están complete
	Unreviewed int                   // ajustes aún en suggested
}

// CheckReadiness ready = todo ítem requerido está complete Y ningún ajuste sigue en suggested.
// La condición de revisión se aplica siempre, aunque el checklist externo no la incluya.
func CheckReadiness(checklist []entity.ChecklistItem, adjustments []*entity.Adjustment) Readiness {
	unreviewed := 0
	for _, a := range adjustments {
		if a != nil && a.Status == entity.StatusSuggested {
			unreviewed++
		}
	}
	derived := entity.ChecklistItem{
		ID:          ReviewedItemID,
		Description: ReviewedItemDescription,
		Required:    true,
		Status:      entity.ChecklistComplete,
		Position:    len(checklist) + 1,
	}
	if unreviewed > 0 {
		derived.Status = entity.ChecklistPending
		derived.Description = fmt.Sprintf("%s (%d pendientes)", ReviewedItemDescription, unreviewed)
	}

	r := Readiness{Unreviewed: unreviewed}
	r.Items = make([]entity.ChecklistItem, 0, len(checklist)+1)
	r.Items = append(r.Items, checklist...)
	r.Items = append(r.Items, derived)
	for _, it := range r.Items {
		if it.Required && it.Status != entity.ChecklistComplete {
			r.Incomplete = append(r.Incomplete, it)
		}
	}
	r.Ready = len(r.Incomplete) == 0
	return r
}

// RequireReady retorna *domain.NotReadyError con los ítems pendientes si la compuerta está cerrada.
// Los casos de uso de reportes la invocan antes de cualquier generador de documentos.
func RequireReady(projectID string, checklist []entity.ChecklistItem, adjustments []*entity.Adjustment) error {
	r := CheckReadiness(checklist, adjustments)
	if r.Ready {
		return nil
	}
	items := make([]domain.NotReadyItem, 0, len(r.Incomplete))
	for _, it := range r.Incomplete {
		items = append(items, domain.NotReadyItem{ID: it.ID, Description: it.Description, Status: it.Status})
	}
	return &domain.NotReadyError{ProjectID: projectID, Items: items}
}
