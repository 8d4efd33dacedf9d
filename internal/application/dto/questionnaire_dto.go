package dto

import "time"

// FollowupConditionDTO regla de seguimiento de una pregunta.
type FollowupConditionDTO struct {
	Operator string `json:"operator" validate:"required,oneof=equals not_equals greater_than less_than answered"`
	Value    string `json:"value,omitempty" validate:"omitempty,max=500"`
	Prompt   string `json:"prompt" validate:"required,max=2000"`
}

// QuestionInput pregunta de un cuestionario nuevo. El orden del arreglo es el orden de presentación.
type QuestionInput struct {
	QuestionText    string                 `json:"question_text" validate:"required,max=4000"`
	QuestionType    string                 `json:"question_type" validate:"required,oneof=text multiple_choice boolean number"`
	Options         []string               `json:"options" validate:"omitempty,max=50,dive,max=200"`
	IsRequired      bool                   `json:"is_required"`
	IsAIGenerated   bool                   `json:"is_ai_generated"`
	GeneratedReason string                 `json:"generated_reason" validate:"omitempty,max=2000"`
	Followups       []FollowupConditionDTO `json:"followup_conditions" validate:"omitempty,max=20,dive"`
}

// CreateQuestionnaireRequest cuestionario generado para un proyecto.
type CreateQuestionnaireRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description" validate:"omitempty,max=4000"`
	Questions   []QuestionInput `json:"questions" validate:"required,min=1,max=200,dive"`
}

// SetQuestionnaireActiveRequest activa o desactiva un cuestionario.
type SetQuestionnaireActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// RespondQuestionRequest respuesta a una pregunta.
type RespondQuestionRequest struct {
	ResponseText string `json:"response_text" validate:"required,max=4000"`
}

// QuestionResp salida de una pregunta. Answered = tiene al menos una respuesta.
type QuestionResp struct {
	ID                 string                 `json:"id"`
	QuestionnaireID    string                 `json:"questionnaire_id"`
	QuestionText       string                 `json:"question_text"`
	QuestionType       string                 `json:"question_type"`
	Options            []string               `json:"options,omitempty"`
	IsRequired         bool                   `json:"is_required"`
	Order              int                    `json:"order"`
	IsAIGenerated      bool                   `json:"is_ai_generated"`
	GeneratedReason    string                 `json:"generated_reason,omitempty"`
	TriggersFollowup   bool                   `json:"triggers_followup"`
	FollowupConditions []FollowupConditionDTO `json:"followup_conditions,omitempty"`
	Answered           bool                   `json:"answered"`
}

// QuestionnaireResp salida de un cuestionario con sus preguntas.
type QuestionnaireResp struct {
	ID          string         `json:"id"`
	ProjectID   string         `json:"project_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	IsActive    bool           `json:"is_active"`
	CreatedBy   string         `json:"created_by,omitempty"`
	Questions   []QuestionResp `json:"questions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// QuestionnaireProgress avance de los cuestionarios activos del proyecto.
type QuestionnaireProgress struct {
	Total            int  `json:"total"`
	Answered         int  `json:"answered"`
	RequiredTotal    int  `json:"required_total"`
	RequiredAnswered int  `json:"required_answered"`
	Complete         bool `json:"complete"`
}

// QuestionnaireListResponse cuestionarios de un proyecto.
type QuestionnaireListResponse struct {
	Items    []QuestionnaireResp   `json:"items"`
	Progress QuestionnaireProgress `json:"progress"`
}

// QuestionResponseResp respuesta guardada.
type QuestionResponseResp struct {
	ID           string    `json:"id"`
	QuestionID   string    `json:"question_id"`
	UserID       string    `json:"user_id"`
	ResponseText string    `json:"response_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RespondQuestionResponse respuesta guardada y preguntas de seguimiento que dispara.
type RespondQuestionResponse struct {
	Response  QuestionResponseResp  `json:"response"`
	Followups []string              `json:"followups"`
	Progress  QuestionnaireProgress `json:"progress"`
}

// QuestionResponsesResponse respuestas de una pregunta.
type QuestionResponsesResponse struct {
	QuestionID string                 `json:"question_id"`
	Items      []QuestionResponseResp `json:"items"`
}
