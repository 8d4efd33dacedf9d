package usecase_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/application/usecase"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
)

type memQuestionnaires struct {
	items     map[string]*entity.Questionnaire
	responses map[string]*entity.QuestionResponse // clave question_id|user_id
	locked    []string
}

func newMemQuestionnaires() *memQuestionnaires {
	return &memQuestionnaires{items: map[string]*entity.Questionnaire{}, responses: map[string]*entity.QuestionResponse{}}
}

func cloneQuestionnaire(qn *entity.Questionnaire) *entity.Questionnaire {
	cp := *qn
	cp.Questions = append([]entity.Question(nil), qn.Questions...)
	return &cp
}

func (m *memQuestionnaires) Create(_ context.Context, qn *entity.Questionnaire) error {
	m.items[qn.ID] = cloneQuestionnaire(qn)
	return nil
}

func (m *memQuestionnaires) GetByID(_ context.Context, id string) (*entity.Questionnaire, error) {
	qn, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return cloneQuestionnaire(qn), nil
}

func (m *memQuestionnaires) ListByProject(_ context.Context, projectID string) ([]*entity.Questionnaire, error) {
	var out []*entity.Questionnaire
	for _, qn := range m.items {
		if qn.ProjectID == projectID {
			out = append(out, cloneQuestionnaire(qn))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memQuestionnaires) SetActive(_ context.Context, id string, active bool) error {
	qn, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	qn.IsActive = active
	return nil
}

func (m *memQuestionnaires) LockProject(_ context.Context, projectID string) error {
	m.locked = append(m.locked, projectID)
	return nil
}

func (m *memQuestionnaires) GetQuestion(_ context.Context, id string) (*entity.Question, error) {
	for _, qn := range m.items {
		for _, q := range qn.Questions {
			if q.ID == id {
				cp := q
				cp.ProjectID = qn.ProjectID
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (m *memQuestionnaires) SaveResponse(_ context.Context, r *entity.QuestionResponse) error {
	key := r.QuestionID + "|" + r.UserID
	if prev, ok := m.responses[key]; ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
	}
	cp := *r
	m.responses[key] = &cp
	return nil
}

func (m *memQuestionnaires) ListResponses(_ context.Context, questionID string) ([]*entity.QuestionResponse, error) {
	var out []*entity.QuestionResponse
	for _, r := range m.responses {
		if r.QuestionID == questionID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memQuestionnaires) AnsweredQuestionIDs(_ context.Context, projectID string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, r := range m.responses {
		for _, qn := range m.items {
			if qn.ProjectID != projectID {
				continue
			}
			for _, q := range qn.Questions {
				if q.ID == r.QuestionID {
					out[q.ID] = true
				}
			}
		}
	}
	return out, nil
}

type questionnaireTxFake struct {
	repo      *memQuestionnaires
	checklist *memChecklist
}

func (tx questionnaireTxFake) RunQuestionnaires(_ context.Context, fn func(repository.QuestionnaireRepository, repository.ChecklistRepository) error) error {
	return fn(tx.repo, tx.checklist)
}

type questionnaireFixture struct {
	uc        *usecase.QuestionnaireUseCase
	repo      *memQuestionnaires
	checklist *memChecklist
	projectID string
}

func newQuestionnaireFixture(t *testing.T) questionnaireFixture {
	t.Helper()
	projectUC, projects, checklist := newProjectUC()
	p, err := projectUC.Create(context.Background(), "firm-1", "u", dto.CreateProjectRequest{Name: "Acme"})
	require.NoError(t, err)
	repo := newMemQuestionnaires()
	uc := usecase.NewQuestionnaireUseCase(questionnaireTxFake{repo, checklist}, repo, projects, logger.Nop())
	return questionnaireFixture{uc: uc, repo: repo, checklist: checklist, projectID: p.ID}
}

func (f questionnaireFixture) questionnaireItemStatus(t *testing.T) string {
	t.Helper()
	for _, it := range f.checklist.items {
		if it.ProjectID == f.projectID && it.Key == entity.ChecklistKeyQuestionnaires {
			return it.Status
		}
	}
	t.Fatal("el checklist no tiene el ítem de cuestionarios")
	return ""
}

func managementRequest() dto.CreateQuestionnaireRequest {
	return dto.CreateQuestionnaireRequest{
		Title: "Preguntas a la gerencia",
		Questions: []dto.QuestionInput{
			{
				QuestionText: "¿Hubo pagos a partes relacionadas?", QuestionType: "boolean", IsRequired: true, IsAIGenerated: true,
				GeneratedReason: "Transferencias recurrentes a una sociedad del dueño",
				Followups: []dto.FollowupConditionDTO{{Operator: "equals", Value: "true", Prompt: "Detalle montos y contrapartes"}},
			},
			{QuestionText: "Política de reconocimiento de ingresos", QuestionType: "multiple_choice", Options: []string{"Devengado", "Caja"}},
		},
	}
}

func TestQuestionnaireCreate_OrdenYValidacion(t *testing.T) {
	f := newQuestionnaireFixture(t)

	out, err := f.uc.Create(context.Background(), "firm-1", "u", f.projectID, managementRequest())
	require.NoError(t, err)
	require.Len(t, out.Questions, 2)
	assert.Equal(t, 1, out.Questions[0].Order)
	assert.True(t, out.Questions[0].TriggersFollowup)
	assert.False(t, out.Questions[1].TriggersFollowup)
	assert.Equal(t, []string{f.projectID}, f.repo.locked)
	assert.Equal(t, entity.ChecklistPending, f.questionnaireItemStatus(t))

	bad := managementRequest()
	bad.Questions[1].Options = []string{"Devengado"}
	_, err = f.uc.Create(context.Background(), "firm-1", "u", f.projectID, bad)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "questions[1].options", vErr.Field)
	assert.Len(t, f.repo.items, 1)

	_, err = f.uc.Create(context.Background(), "firm-2", "u", f.projectID, managementRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestQuestionnaireRespond_CompletaChecklistYDisparaSeguimiento(t *testing.T) {
	f := newQuestionnaireFixture(t)
	qn, err := f.uc.Create(context.Background(), "firm-1", "u", f.projectID, managementRequest())
	require.NoError(t, err)
	required, optional := qn.Questions[0].ID, qn.Questions[1].ID

	out, err := f.uc.Respond(context.Background(), "firm-1", "u-1", optional, dto.RespondQuestionRequest{ResponseText: "caja"})
	require.NoError(t, err)
	assert.Equal(t, "Caja", out.Response.ResponseText)
	assert.Empty(t, out.Followups)
	assert.False(t, out.Progress.Complete)
	assert.Equal(t, entity.ChecklistPending, f.questionnaireItemStatus(t))

	out, err = f.uc.Respond(context.Background(), "firm-1", "u-1", required, dto.RespondQuestionRequest{ResponseText: "sí"})
	require.NoError(t, err)
	assert.Equal(t, "true", out.Response.ResponseText)
	assert.Equal(t, []string{"Detalle montos y contrapartes"}, out.Followups)
	assert.True(t, out.Progress.Complete)
	assert.Equal(t, entity.ChecklistComplete, f.questionnaireItemStatus(t))

	// un cuestionario nuevo con preguntas requeridas vuelve el ítem a pending
	_, err = f.uc.Create(context.Background(), "firm-1", "u", f.projectID, managementRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.ChecklistPending, f.questionnaireItemStatus(t))
}

func TestQuestionnaireRespond_ReemplazaRespuestaDelMismoUsuario(t *testing.T) {
	f := newQuestionnaireFixture(t)
	qn, err := f.uc.Create(context.Background(), "firm-1", "u", f.projectID, managementRequest())
	require.NoError(t, err)
	qID := qn.Questions[0].ID

	first, err := f.uc.Respond(context.Background(), "firm-1", "u-1", qID, dto.RespondQuestionRequest{ResponseText: "no"})
	require.NoError(t, err)
	second, err := f.uc.Respond(context.Background(), "firm-1", "u-1", qID, dto.RespondQuestionRequest{ResponseText: "yes"})
	require.NoError(t, err)
	assert.Equal(t, first.Response.ID, second.Response.ID)

	_, err = f.uc.Respond(context.Background(), "firm-1", "u-2", qID, dto.RespondQuestionRequest{ResponseText: "false"})
	require.NoError(t, err)

	list, err := f.uc.Responses(context.Background(), "firm-1", qID)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "true", list.Items[0].ResponseText)
	assert.Equal(t, "false", list.Items[1].ResponseText)
}

func TestQuestionnaireRespond_RespuestaInvalidaOInactivo(t *testing.T) {
	f := newQuestionnaireFixture(t)
	qn, err := f.uc.Create(context.Background(), "firm-1", "u", f.projectID, managementRequest())
	require.NoError(t, err)
	qID := qn.Questions[0].ID

	_, err = f.uc.Respond(context.Background(), "firm-1", "u-1", qID, dto.RespondQuestionRequest{ResponseText: "quizás"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "response_text", vErr.Field)

	_, err = f.uc.Respond(context.Background(), "firm-1", "u-1", "no-existe", dto.RespondQuestionRequest{ResponseText: "true"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Respond(context.Background(), "firm-2", "u-1", qID, dto.RespondQuestionRequest{ResponseText: "true"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.SetActive(context.Background(), "firm-1", qn.ID, false)
	require.NoError(t, err)
	_, err = f.uc.Respond(context.Background(), "firm-1", "u-1", qID, dto.RespondQuestionRequest{ResponseText: "true"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.repo.responses)
}

func TestQuestionnaireSync_RespetaFailedDelRevisor(t *testing.T) {
	f := newQuestionnaireFixture(t)
	qn, err := f.uc.Create(context.Background(), "firm-1", "u", f.projectID, managementRequest())
	require.NoError(t, err)
	for i := range f.checklist.items {
		if f.checklist.items[i].Key == entity.ChecklistKeyQuestionnaires {
			f.checklist.items[i].Status = entity.ChecklistFailed
		}
	}

	_, err = f.uc.Respond(context.Background(), "firm-1", "u-1", qn.Questions[0].ID, dto.RespondQuestionRequest{ResponseText: "true"})
	require.NoError(t, err)
	assert.Equal(t, entity.ChecklistFailed, f.questionnaireItemStatus(t))
}

func TestQuestionnaireList_Avance(t *testing.T) {
	f := newQuestionnaireFixture(t)
	qn, err := f.uc.Create(context.Background(), "firm-1", "u", f.projectID, managementRequest())
	require.NoError(t, err)
	_, err = f.uc.Respond(context.Background(), "firm-1", "u-1", qn.Questions[1].ID, dto.RespondQuestionRequest{ResponseText: "Devengado"})
	require.NoError(t, err)

	list, err := f.uc.ListByProject(context.Background(), "firm-1", f.projectID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.False(t, list.Items[0].Questions[0].Answered)
	assert.True(t, list.Items[0].Questions[1].Answered)
	assert.Equal(t, dto.QuestionnaireProgress{Total: 2, Answered: 1, RequiredTotal: 1, RequiredAnswered: 0}, list.Progress)

	got, err := f.uc.Get(context.Background(), "firm-1", qn.ID)
	require.NoError(t, err)
	assert.Equal(t, qn.Title, got.Title)
	_, err = f.uc.Get(context.Background(), "firm-2", qn.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
