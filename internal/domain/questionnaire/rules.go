// Package questionnaire reglas de los cuestionarios de un proyecto: forma de las preguntas,
// normalización de respuestas, reglas de seguimiento y avance de respuestas requeridas.
package questionnaire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Validate valida un cuestionario con sus preguntas. Los campos se reportan con su nombre JSON.
func Validate(q *entity.Questionnaire) error {
	if q == nil {
		return domain.NewValidationError("questionnaire", "registro nulo")
	}
	if strings.TrimSpace(q.ProjectID) == "" {
		return domain.NewValidationError("project_id", "requerido")
	}
	if strings.TrimSpace(q.Title) == "" {
		return domain.NewValidationError("title", "requerido")
	}
	if len(q.Questions) == 0 {
		return domain.NewValidationError("questions", "al menos una pregunta")
	}
	for i, qu := range q.Questions {
		if err := validateQuestion(qu); err != nil {
			return prefixed(fmt.Sprintf("questions[%d]", i), err)
		}
	}
	return nil
}

func validateQuestion(q entity.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return domain.NewValidationError("question_text", "requerido")
	}
	if !q.Type.Valid() {
		return domain.NewValidationError("question_type", "tipo desconocido: "+string(q.Type))
	}
	if q.Type == entity.QuestionMultipleChoice {
		if len(q.Options) < 2 {
			return domain.NewValidationError("options", "multiple_choice requiere al menos dos opciones")
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			key := strings.ToLower(strings.TrimSpace(o))
			if key == "" {
				return domain.NewValidationError("options", "opción vacía")
			}
			if seen[key] {
				return domain.NewValidationError("options", "opción repetida: "+o)
			}
			seen[key] = true
		}
	} else if len(q.Options) > 0 {
		return domain.NewValidationError("options", "solo aplica a multiple_choice")
	}
	for j, f := range q.Followups {
		if err := validateFollowup(q, f); err != nil {
			return prefixed(fmt.Sprintf("followup_conditions[%d]", j), err)
		}
	}
	return nil
}

func validateFollowup(q entity.Question, f entity.FollowupCondition) error {
	if !f.Operator.Valid() {
		return domain.NewValidationError("operator", "operador desconocido: "+string(f.Operator))
	}
	if strings.TrimSpace(f.Prompt) == "" {
		return domain.NewValidationError("prompt", "requerido")
	}
	switch f.Operator {
	case entity.FollowupAnswered:
		if f.Value != "" {
			return domain.NewValidationError("value", "answered no lleva valor")
		}
	case entity.FollowupGreaterThan, entity.FollowupLessThan:
		if q.Type != entity.QuestionNumber {
			return domain.NewValidationError("operator", "solo aplica a preguntas number")
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(f.Value)); err != nil {
			return domain.NewValidationError("value", "debe ser numérico")
		}
	default:
		if _, err := NormalizeAnswer(q, f.Value); err != nil {
			return domain.NewValidationError("value", "no es una respuesta válida para la pregunta")
		}
	}
	return nil
}

// NormalizeAnswer valida raw contra el tipo de la pregunta y devuelve su forma canónica:
// boolean → "true" | "false"; number → decimal sin ceros de más; multiple_choice → la opción tal cual
// está definida; text → sin espacios en los extremos.
func NormalizeAnswer(q entity.Question, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", domain.NewValidationError("response_text", "requerido")
	}
	switch q.Type {
	case entity.QuestionBoolean:
		switch strings.ToLower(v) {
		case "true", "yes", "si", "sí":
			return "true", nil
		case "false", "no":
			return "false", nil
		}
		return "", domain.NewValidationError("response_text", "debe ser true o false")
	case entity.QuestionNumber:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return "", domain.NewValidationError("response_text", "debe ser numérico")
		}
		return d.String(), nil
	case entity.QuestionMultipleChoice:
		for _, o := range q.Options {
			if strings.EqualFold(strings.TrimSpace(o), v) {
				return o, nil
			}
		}
		return "", domain.NewValidationError("response_text", "no es una de las opciones")
	}
	return v, nil
}

// Followups prompts de seguimiento que dispara answer (ya normalizada), en el orden definido.
func Followups(q entity.Question, answer string) []string {
	var out []string
	for _, f := range q.Followups {
		if matches(q, f, answer) {
			out = append(out, f.Prompt)
		}
	}
	return out
}

func matches(q entity.Question, f entity.FollowupCondition, answer string) bool {
	switch f.Operator {
	case entity.FollowupAnswered:
		return answer != ""
	case entity.FollowupEquals, entity.FollowupNotEquals:
		want, err := NormalizeAnswer(q, f.Value)
		if err != nil {
			return false
		}
		eq := want == answer
		if q.Type == entity.QuestionText {
			eq = strings.EqualFold(want, answer)
		}
		return eq == (f.Operator == entity.FollowupEquals)
	case entity.FollowupGreaterThan, entity.FollowupLessThan:
		got, err := decimal.NewFromString(answer)
		if err != nil {
			return false
		}
		limit, err := decimal.NewFromString(strings.TrimSpace(f.Value))
		if err != nil {
			return false
		}
		if f.Operator == entity.FollowupGreaterThan {
			return got.GreaterThan(limit)
		}
		return got.LessThan(limit)
	}
	return false
}

// Progress avance de respuestas de los cuestionarios activos de un proyecto.
type Progress struct {
	Total            int
	Answered         int
	RequiredTotal    int
	RequiredAnswered int
}

// Complete todas las preguntas requeridas tienen al menos una respuesta (vacuo si no hay requeridas).
func (p Progress) Complete() bool { return p.RequiredAnswered == p.RequiredTotal }

// Compute cuenta preguntas y respuestas de los cuestionarios activos. answered: IDs de preguntas con respuesta.
func Compute(list []*entity.Questionnaire, answered map[string]bool) Progress {
	var p Progress
	for _, qn := range list {
		if qn == nil || !qn.IsActive {
			continue
		}
		for _, q := range qn.Questions {
			p.Total++
			if answered[q.ID] {
				p.Answered++
			}
			if q.Required {
				p.RequiredTotal++
				if answered[q.ID] {
					p.RequiredAnswered++
				}
			}
		}
	}
	return p
}

// ChecklistStatus estado que corresponde al ítem de cuestionarios del checklist.
// Un ítem marcado failed por un revisor se respeta; ok=false si no hay cambio.
func ChecklistStatus(current string, p Progress) (status string, ok bool) {
	if current == entity.ChecklistFailed {
		return current, false
	}
	want := entity.ChecklistPending
	if p.Complete() {
		want = entity.ChecklistComplete
	}
	return want, want != current
}

// prefixed antepone path al campo de un *domain.ValidationError.
func prefixed(path string, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return domain.NewValidationError(path+"."+vErr.Field, vErr.Reason)
	}
	return err
}
