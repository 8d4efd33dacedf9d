package repository

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// QuestionnaireRepository cuestionarios, preguntas y respuestas de un proyecto.
// Los Get* devuelven (nil, nil) si no existe.
type QuestionnaireRepository interface {
	// Create inserta el cuestionario con todas sus preguntas.
	Create(ctx context.Context, q *entity.Questionnaire) error
	GetByID(ctx context.Context, id string) (*entity.Questionnaire, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Questionnaire, error)
	SetActive(ctx context.Context, id string, active bool) error
	// LockProject serializa las escrituras sobre los cuestionarios del proyecto hasta el fin de la tx.
	LockProject(ctx context.Context, projectID string) error

	GetQuestion(ctx context.Context, id string) (*entity.Question, error)
	// SaveResponse inserta o reemplaza la respuesta del usuario a la pregunta.
	SaveResponse(ctx context.Context, r *entity.QuestionResponse) error
	ListResponses(ctx context.Context, questionID string) ([]*entity.QuestionResponse, error)
	// AnsweredQuestionIDs preguntas del proyecto con al menos una respuesta.
	AnsweredQuestionIDs(ctx context.Context, projectID string) (map[string]bool, error)
}
