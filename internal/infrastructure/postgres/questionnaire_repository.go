package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
)

var _ repository.QuestionnaireRepository = (*QuestionnaireRepo)(nil)

// QuestionnaireRepo cuestionarios sobre PostgreSQL.
type QuestionnaireRepo struct {
	q Querier
}

// NewQuestionnaireRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuestionnaireRepository(q Querier) *QuestionnaireRepo {
	return &QuestionnaireRepo{q: q}
}

const questionnaireColumns = `id, project_id, title, description, is_active, COALESCE(created_by, ''), created_at, updated_at`

const questionColumns = `q.id, q.questionnaire_id, qn.project_id, q.question_text, q.question_type, q.options,
	q.is_required, q.position, q.is_ai_generated, q.generated_reason, q.followup_conditions, q.created_at`

func scanQuestionnaire(row pgx.Row) (*entity.Questionnaire, error) {
	var qn entity.Questionnaire
	err := row.Scan(&qn.ID, &qn.ProjectID, &qn.Title, &qn.Description, &qn.IsActive, &qn.CreatedBy, &qn.CreatedAt, &qn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &qn, nil
}

func scanQuestion(row pgx.Row) (*entity.Question, error) {
	var q entity.Question
	err := row.Scan(&q.ID, &q.QuestionnaireID, &q.ProjectID, &q.Text, &q.Type, &q.Options,
		&q.Required, &q.Position, &q.IsAIGenerated, &q.GeneratedReason, &q.Followups, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserta cuestionario y preguntas en un solo round-trip.
func (r *QuestionnaireRepo) Create(ctx context.Context, qn *entity.Questionnaire) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO questionnaires (id, project_id, title, description, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`,
		qn.ID, qn.ProjectID, qn.Title, qn.Description, qn.IsActive, qn.CreatedBy, qn.CreatedAt, qn.UpdatedAt)
	for _, q := range qn.Questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		followups := q.Followups
		if followups == nil {
			followups = []entity.FollowupCondition{}
		}
		batch.Queue(`
			INSERT INTO questions (id, questionnaire_id, question_text, question_type, options, is_required,
				position, is_ai_generated, generated_reason, followup_conditions, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			q.ID, qn.ID, q.Text, string(q.Type), options, q.Required,
			q.Position, q.IsAIGenerated, q.GeneratedReason, followups, q.CreatedAt)
	}
	res := r.q.SendBatch(ctx, batch)
	defer res.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := res.Exec(); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert questionnaire: %w", err)
		}
	}
	return nil
}

// GetByID cuestionario con sus preguntas.
func (r *QuestionnaireRepo) GetByID(ctx context.Context, id string) (*entity.Questionnaire, error) {
	qn, err := scanQuestionnaire(r.q.QueryRow(ctx, `SELECT `+questionnaireColumns+` FROM questionnaires WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get questionnaire: %w", err)
	}
	if err := r.attachQuestions(ctx, []*entity.Questionnaire{qn}); err != nil {
		return nil, err
	}
	return qn, nil
}

// ListByProject cuestionarios del proyecto en orden de creación, con sus preguntas.
func (r *QuestionnaireRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Questionnaire, error) {
	rows, err := r.q.Query(ctx, `SELECT `+questionnaireColumns+`
		FROM questionnaires WHERE project_id = $1 ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	defer rows.Close()
	var list []*entity.Questionnaire
	for rows.Next() {
		qn, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, fmt.Errorf("scan questionnaire: %w", err)
		}
		list = append(list, qn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if err := r.attachQuestions(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachQuestions carga las preguntas de todos los cuestionarios con una sola consulta.
func (r *QuestionnaireRepo) attachQuestions(ctx context.Context, list []*entity.Questionnaire) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	byID := make(map[string]*entity.Questionnaire, len(list))
	for _, qn := range list {
		ids = append(ids, qn.ID)
		byID[qn.ID] = qn
	}
	rows, err := r.q.Query(ctx, `SELECT `+questionColumns+`
		FROM questions q JOIN questionnaires qn ON qn.id = q.questionnaire_id
		WHERE q.questionnaire_id = ANY($1)
		ORDER BY q.questionnaire_id, q.position, q.id`, ids)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return fmt.Errorf("scan question: %w", err)
		}
		if qn := byID[q.QuestionnaireID]; qn != nil {
			qn.Questions = append(qn.Questions, *q)
		}
	}
	return rows.Err()
}

// SetActive activa o desactiva un cuestionario.
func (r *QuestionnaireRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE questionnaires SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update questionnaire: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockProject bloquea la fila del proyecto (FOR UPDATE) hasta el fin de la tx.
func (r *QuestionnaireRepo) LockProject(ctx context.Context, projectID string) error {
	var id string
	err := r.q.QueryRow(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock project: %w", err)
	}
	return nil
}

// GetQuestion pregunta con el proyecto de su cuestionario.
func (r *QuestionnaireRepo) GetQuestion(ctx context.Context, id string) (*entity.Question, error) {
	q, err := scanQuestion(r.q.QueryRow(ctx, `SELECT `+questionColumns+`
		FROM questions q JOIN questionnaires qn ON qn.id = q.questionnaire_id
		WHERE q.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// SaveResponse upsert por (question_id, user_id); devuelve en resp el ID y created_at vigentes.
func (r *QuestionnaireRepo) SaveResponse(ctx context.Context, resp *entity.QuestionResponse) error {
	query := `
		INSERT INTO question_responses (id, question_id, user_id, response_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (question_id, user_id) DO UPDATE
			SET response_text = EXCLUDED.response_text, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, resp.ID, resp.QuestionID, resp.UserID, resp.Text, resp.UpdatedAt).
		Scan(&resp.ID, &resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("save question response: %w", err)
	}
	return nil
}

// ListResponses respuestas de una pregunta, más antigua primero.
func (r *QuestionnaireRepo) ListResponses(ctx context.Context, questionID string) ([]*entity.QuestionResponse, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, question_id, user_id, response_text, created_at, updated_at
		FROM question_responses WHERE question_id = $1 ORDER BY created_at, id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list question responses: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuestionResponse
	for rows.Next() {
		var resp entity.QuestionResponse
		if err := rows.Scan(&resp.ID, &resp.QuestionID, &resp.UserID, &resp.Text, &resp.CreatedAt, &resp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan question response: %w", err)
		}
		list = append(list, &resp)
	}
	return list, rows.Err()
}

// AnsweredQuestionIDs preguntas del proyecto con al menos una respuesta.
func (r *QuestionnaireRepo) AnsweredQuestionIDs(ctx context.Context, projectID string) (map[string]bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT q.id
		FROM question_responses qr
		JOIN questions q ON q.id = qr.question_id
		JOIN questionnaires qn ON qn.id = q.questionnaire_id
		WHERE qn.project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list answered questions: %w", err)
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan answered question: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}
