package entity

import "time"

// Estados de un ítem del checklist de QA.
const (
	ChecklistComplete = "complete"
	ChecklistPending  = "pending"
	ChecklistFailed   = "failed"
)

// ChecklistKeyQuestionnaires ítem que se completa solo al responder los cuestionarios.
const ChecklistKeyQuestionnaires = "questionnaire_responses"

// ChecklistItem condición de preparación para generar reportes de un proyecto.
type ChecklistItem struct {
	ID          string
	ProjectID   string
	Key         string // vacío salvo en ítems que mantiene el sistema
	Description string
	Required    bool
	Status      string // complete, pending, failed
	Position    int
	UpdatedAt   time.Time
}

// DefaultChecklist filas con las que se siembra un proyecto nuevo.
// La condición "ajustes sugeridos por IA revisados" no se guarda: se deriva de los ajustes.
func DefaultChecklist() []ChecklistItem {
	return []ChecklistItem{
		{Description: "All documents have been uploaded and processed", Required: true, Status: ChecklistPending, Position: 1},
		{Description: "Manual adjustments have narratives", Required: true, Status: ChecklistPending, Position: 2},
		{Key: ChecklistKeyQuestionnaires, Description: "Questionnaire responses are complete", Required: false, Status: ChecklistPending, Position: 3},
		{Description: "Materiality thresholds are confirmed", Required: true, Status: ChecklistPending, Position: 4},
		{Description: "All adjustments have been categorized", Required: true, Status: ChecklistPending, Position: 5},
	}
}
