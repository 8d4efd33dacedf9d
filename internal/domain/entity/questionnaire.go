package entity

import "time"

// QuestionType forma de la respuesta esperada.
type QuestionType string

// Deben coincidir con el CHECK de la tabla questions.
const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionBoolean        QuestionType = "boolean"
	QuestionNumber         QuestionType = "number"
)

// Valid indica si t es un tipo conocido.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMultipleChoice, QuestionBoolean, QuestionNumber:
		return true
	}
	return false
}

// FollowupOperator comparación entre la respuesta y FollowupCondition.Value.
type FollowupOperator string

const (
	FollowupEquals      FollowupOperator = "equals"
	FollowupNotEquals   FollowupOperator = "not_equals"
	FollowupGreaterThan FollowupOperator = "greater_than" // solo preguntas number
	FollowupLessThan    FollowupOperator = "less_than"    // solo preguntas number
	FollowupAnswered    FollowupOperator = "answered"     // cualquier respuesta
)

// Valid indica si o es un operador conocido.
func (o FollowupOperator) Valid() bool {
	switch o {
	case FollowupEquals, FollowupNotEquals, FollowupGreaterThan, FollowupLessThan, FollowupAnswered:
		return true
	}
	return false
}

// FollowupCondition si la respuesta cumple Operator contra Value, corresponde preguntar Prompt.
type FollowupCondition struct {
	Operator FollowupOperator `json:"operator"`
	Value    string           `json:"value,omitempty"`
	Prompt   string           `json:"prompt"`
}

// Questionnaire cuestionario generado para un proyecto (ej. preguntas al management).
type Questionnaire struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	IsActive    bool
	CreatedBy   string
	Questions   []Question // ordenadas por Position
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question pregunta de un cuestionario.
type Question struct {
	ID              string
	QuestionnaireID string
	ProjectID       string // solo lectura; se resuelve por el cuestionario
	Text            string
	Type            QuestionType
	Options         []string // solo multiple_choice
	Required        bool
	Position        int
	IsAIGenerated   bool
	GeneratedReason string
	Followups       []FollowupCondition
	CreatedAt       time.Time
}

// TriggersFollowup indica si la pregunta tiene reglas de seguimiento.
func (q Question) TriggersFollowup() bool { return len(q.Followups) > 0 }

// QuestionResponse respuesta de un usuario a una pregunta. Una por usuario y pregunta.
type QuestionResponse struct {
	ID         string
	QuestionID string
	UserID     string
	Text       string // normalizada según el tipo de la pregunta
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
