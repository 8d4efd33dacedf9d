package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/questionnaire"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
)

// QuestionnaireTxRunner escrituras de cuestionarios junto con el ítem del checklist que dependen de ellas.
type QuestionnaireTxRunner interface {
	RunQuestionnaires(ctx context.Context, fn func(
		questionnaireRepo repository.QuestionnaireRepository,
		checklistRepo repository.ChecklistRepository,
	) error) error
}

// QuestionnaireUseCase cuestionarios de un proyecto y sus respuestas. Cada escritura recalcula
// el ítem "Questionnaire responses are complete" del checklist en la misma transacción.
type QuestionnaireUseCase struct {
	txRunner    QuestionnaireTxRunner
	repo        repository.QuestionnaireRepository
	projectRepo repository.ProjectRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewQuestionnaireUseCase construye el caso de uso.
func NewQuestionnaireUseCase(
	txRunner QuestionnaireTxRunner,
	repo repository.QuestionnaireRepository,
	projectRepo repository.ProjectRepository,
	log *logger.Logger,
) *QuestionnaireUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &QuestionnaireUseCase{
		txRunner:    txRunner,
		repo:        repo,
		projectRepo: projectRepo,
		log:         log.Named("questionnaires"),
		now:         time.Now,
	}
}

// Create registra un cuestionario generado para el proyecto.
func (uc *QuestionnaireUseCase) Create(ctx context.Context, firmID, userID, projectID string, in dto.CreateQuestionnaireRequest) (*dto.QuestionnaireResp, error) {
	if err := uc.checkProject(ctx, firmID, projectID); err != nil {
		return nil, err
	}
	now := uc.now()
	qn := &entity.Questionnaire{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		IsActive:    true,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, q := range in.Questions {
		qn.Questions = append(qn.Questions, entity.Question{
			ID:              uuid.New().String(),
			QuestionnaireID: qn.ID,
			ProjectID:       projectID,
			Text:            strings.TrimSpace(q.QuestionText),
			Type:            entity.QuestionType(q.QuestionType),
			Options:         q.Options,
			Required:        q.IsRequired,
			Position:        i + 1,
			IsAIGenerated:   q.IsAIGenerated,
			GeneratedReason: q.GeneratedReason,
			Followups:       followupsFromDTO(q.Followups),
			CreatedAt:       now,
		})
	}
	if err := questionnaire.Validate(qn); err != nil {
		return nil, err
	}

	err := uc.txRunner.RunQuestionnaires(ctx, func(repo repository.QuestionnaireRepository, checklistRepo repository.ChecklistRepository) error {
		if err := repo.LockProject(ctx, projectID); err != nil {
			return err
		}
		if err := repo.Create(ctx, qn); err != nil {
			return err
		}
		_, err := uc.syncChecklist(ctx, repo, checklistRepo, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("questionnaire_id", qn.ID).
		Str("project_id", projectID).
		Int("questions", len(qn.Questions)).
		Msg("cuestionario creado")
	return questionnaireToResp(qn, nil), nil
}

// ListByProject cuestionarios del proyecto con el avance de respuestas.
func (uc *QuestionnaireUseCase) ListByProject(ctx context.Context, firmID, projectID string) (*dto.QuestionnaireListResponse, error) {
	if err := uc.checkProject(ctx, firmID, projectID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	answered, err := uc.repo.AnsweredQuestionIDs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuestionnaireResp, 0, len(list))
	for _, qn := range list {
		items = append(items, *questionnaireToResp(qn, answered))
	}
	return &dto.QuestionnaireListResponse{
		Items:    items,
		Progress: progressToResp(questionnaire.Compute(list, answered)),
	}, nil
}

// Get cuestionario de la firma con sus preguntas.
func (uc *QuestionnaireUseCase) Get(ctx context.Context, firmID, id string) (*dto.QuestionnaireResp, error) {
	qn, err := uc.load(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	answered, err := uc.repo.AnsweredQuestionIDs(ctx, qn.ProjectID)
	if err != nil {
		return nil, err
	}
	return questionnaireToResp(qn, answered), nil
}

// SetActive activa o desactiva un cuestionario; uno inactivo no cuenta para el checklist.
func (uc *QuestionnaireUseCase) SetActive(ctx context.Context, firmID, id string, active bool) (*dto.QuestionnaireResp, error) {
	qn, err := uc.load(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunQuestionnaires(ctx, func(repo repository.QuestionnaireRepository, checklistRepo repository.ChecklistRepository) error {
		if err := repo.LockProject(ctx, qn.ProjectID); err != nil {
			return err
		}
		if err := repo.SetActive(ctx, id, active); err != nil {
			return err
		}
		_, err := uc.syncChecklist(ctx, repo, checklistRepo, qn.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	qn.IsActive = active
	return questionnaireToResp(qn, nil), nil
}

// Respond guarda (o reemplaza) la respuesta del usuario y devuelve las preguntas de seguimiento que dispara.
// Responder a un cuestionario inactivo devuelve domain.ErrConflict.
func (uc *QuestionnaireUseCase) Respond(ctx context.Context, firmID, userID, questionID string, in dto.RespondQuestionRequest) (*dto.RespondQuestionResponse, error) {
	q, err := uc.loadQuestion(ctx, firmID, questionID)
	if err != nil {
		return nil, err
	}
	answer, err := questionnaire.NormalizeAnswer(*q, in.ResponseText)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	resp := &entity.QuestionResponse{
		ID:         uuid.New().String(),
		QuestionID: q.ID,
		UserID:     userID,
		Text:       answer,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var progress questionnaire.Progress
	err = uc.txRunner.RunQuestionnaires(ctx, func(repo repository.QuestionnaireRepository, checklistRepo repository.ChecklistRepository) error {
		if err := repo.LockProject(ctx, q.ProjectID); err != nil {
			return err
		}
		qn, err := repo.GetByID(ctx, q.QuestionnaireID)
		if err != nil {
			return err
		}
		if qn == nil {
			return domain.ErrNotFound
		}
		if !qn.IsActive {
			return domain.ErrConflict
		}
		if err := repo.SaveResponse(ctx, resp); err != nil {
			return err
		}
		progress, err = uc.syncChecklist(ctx, repo, checklistRepo, q.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	followups := questionnaire.Followups(*q, answer)
	uc.log.Info().
		Str("question_id", q.ID).
		Str("user_id", userID).
		Int("followups", len(followups)).
		Msg("pregunta respondida")
	if followups == nil {
		followups = []string{}
	}
	return &dto.RespondQuestionResponse{
		Response:  responseToResp(resp),
		Followups: followups,
		Progress:  progressToResp(progress),
	}, nil
}

// Responses respuestas registradas para una pregunta.
func (uc *QuestionnaireUseCase) Responses(ctx context.Context, firmID, questionID string) (*dto.QuestionResponsesResponse, error) {
	q, err := uc.loadQuestion(ctx, firmID, questionID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListResponses(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuestionResponseResp, 0, len(list))
	for _, r := range list {
		items = append(items, responseToResp(r))
	}
	return &dto.QuestionResponsesResponse{QuestionID: q.ID, Items: items}, nil
}

// syncChecklist recalcula el avance y actualiza el ítem de cuestionarios si corresponde.
// Proyectos sin ese ítem (checklists antiguos) se dejan como están.
func (uc *QuestionnaireUseCase) syncChecklist(ctx context.Context, repo repository.QuestionnaireRepository, checklistRepo repository.ChecklistRepository, projectID string) (questionnaire.Progress, error) {
	list, err := repo.ListByProject(ctx, projectID)
	if err != nil {
		return questionnaire.Progress{}, err
	}
	answered, err := repo.AnsweredQuestionIDs(ctx, projectID)
	if err != nil {
		return questionnaire.Progress{}, err
	}
	progress := questionnaire.Compute(list, answered)

	items, err := checklistRepo.ListByProject(ctx, projectID)
	if err != nil {
		return progress, err
	}
	for _, it := range items {
		if it.Key != entity.ChecklistKeyQuestionnaires {
			continue
		}
		status, changed := questionnaire.ChecklistStatus(it.Status, progress)
		if !changed {
			return progress, nil
		}
		if err := checklistRepo.UpdateStatus(ctx, projectID, it.ID, status); err != nil {
			return progress, err
		}
		uc.log.Info().Str("project_id", projectID).Str("status", status).Msg("checklist de cuestionarios actualizado")
		return progress, nil
	}
	return progress, nil
}

func (uc *QuestionnaireUseCase) checkProject(ctx context.Context, firmID, projectID string) error {
	p, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.FirmID != firmID {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *QuestionnaireUseCase) load(ctx context.Context, firmID, id string) (*entity.Questionnaire, error) {
	qn, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if qn == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkProject(ctx, firmID, qn.ProjectID); err != nil {
		return nil, err
	}
	return qn, nil
}

func (uc *QuestionnaireUseCase) loadQuestion(ctx context.Context, firmID, id string) (*entity.Question, error) {
	q, err := uc.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkProject(ctx, firmID, q.ProjectID); err != nil {
		return nil, err
	}
	return q, nil
}

func followupsFromDTO(in []dto.FollowupConditionDTO) []entity.FollowupCondition {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.FollowupCondition, 0, len(in))
	for _, f := range in {
		out = append(out, entity.FollowupCondition{
			Operator: entity.FollowupOperator(f.Operator),
			Value:    strings.TrimSpace(f.Value),
			Prompt:   strings.TrimSpace(f.Prompt),
		})
	}
	return out
}

func questionnaireToResp(qn *entity.Questionnaire, answered map[string]bool) *dto.QuestionnaireResp {
	out := &dto.QuestionnaireResp{
		ID:          qn.ID,
		ProjectID:   qn.ProjectID,
		Title:       qn.Title,
		Description: qn.Description,
		IsActive:    qn.IsActive,
		CreatedBy:   qn.CreatedBy,
		Questions:   make([]dto.QuestionResp, 0, len(qn.Questions)),
		CreatedAt:   qn.CreatedAt,
		UpdatedAt:   qn.UpdatedAt,
	}
	for _, q := range qn.Questions {
		r := dto.QuestionResp{
			ID:               q.ID,
			QuestionnaireID:  qn.ID,
			QuestionText:     q.Text,
			QuestionType:     string(q.Type),
			Options:          q.Options,
			IsRequired:       q.Required,
			Order:            q.Position,
			IsAIGenerated:    q.IsAIGenerated,
			GeneratedReason:  q.GeneratedReason,
			TriggersFollowup: q.TriggersFollowup(),
			Answered:         answered[q.ID],
		}
		for _, f := range q.Followups {
			r.FollowupConditions = append(r.FollowupConditions, dto.FollowupConditionDTO{
				Operator: string(f.Operator),
				Value:    f.Value,
				Prompt:   f.Prompt,
			})
		}
		out.Questions = append(out.Questions, r)
	}
	return out
}

func responseToResp(r *entity.QuestionResponse) dto.QuestionResponseResp {
	return dto.QuestionResponseResp{
		ID:           r.ID,
		QuestionID:   r.QuestionID,
		UserID:       r.UserID,
		ResponseText: r.Text,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func progressToResp(p questionnaire.Progress) dto.QuestionnaireProgress {
	return dto.QuestionnaireProgress{
		Total:            p.Total,
		Answered:         p.Answered,
		RequiredTotal:    p.RequiredTotal,
		RequiredAnswered: p.RequiredAnswered,
		Complete:         p.Complete(),
	}
}
