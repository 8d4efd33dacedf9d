package questionnaire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/questionnaire"
)

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, field, vErr.Field)
}

func managementQuestionnaire() *entity.Questionnaire {
	return &entity.Questionnaire{
		ID:        "qn-1",
		ProjectID: "prj-1",
		Title:     "Preguntas a la gerencia",
		IsActive:  true,
		Questions: []entity.Question{
			{
				ID: "q-1", Text: "¿Hubo pagos a partes relacionadas?", Type: entity.QuestionBoolean, Required: true,
				Followups: []entity.FollowupCondition{
					{Operator: entity.FollowupEquals, Value: "true", Prompt: "Detalle montos y contrapartes"},
				},
			},
			{
				ID: "q-2", Text: "Honorarios de consultoría no recurrentes", Type: entity.QuestionNumber, Required: true,
				Followups: []entity.FollowupCondition{
					{Operator: entity.FollowupGreaterThan, Value: "50000", Prompt: "Adjunte los contratos"},
					{Operator: entity.FollowupAnswered, Prompt: "Indique el período"},
				},
			},
			{
				ID: "q-3", Text: "Política de reconocimiento de ingresos", Type: entity.QuestionMultipleChoice,
				Options: []string{"Devengado", "Caja"},
			},
		},
	}
}

func TestValidate_CuestionarioValido(t *testing.T) {
	require.NoError(t, questionnaire.Validate(managementQuestionnaire()))
}

func TestValidate_ReportaRutaDelCampo(t *testing.T) {
	q := managementQuestionnaire()
	q.Questions[1].Text = " "
	requireField(t, questionnaire.Validate(q), "questions[1].question_text")

	q = managementQuestionnaire()
	q.Questions[2].Options = []string{"Devengado"}
	requireField(t, questionnaire.Validate(q), "questions[2].options")

	q = managementQuestionnaire()
	q.Questions[2].Options = []string{"Caja", "caja "}
	requireField(t, questionnaire.Validate(q), "questions[2].options")

	q = managementQuestionnaire()
	q.Questions[0].Options = []string{"a", "b"}
	requireField(t, questionnaire.Validate(q), "questions[0].options")

	q = managementQuestionnaire()
	q.Questions[0].Type = "free"
	requireField(t, questionnaire.Validate(q), "questions[0].question_type")

	q = managementQuestionnaire()
	q.Questions = nil
	requireField(t, questionnaire.Validate(q), "questions")
}

func TestValidate_ReglasDeSeguimiento(t *testing.T) {
	q := managementQuestionnaire()
	q.Questions[0].Followups[0].Operator = "contains"
	requireField(t, questionnaire.Validate(q), "questions[0].followup_conditions[0].operator")

	q = managementQuestionnaire()
	q.Questions[0].Followups[0].Operator = entity.FollowupGreaterThan
	requireField(t, questionnaire.Validate(q), "questions[0].followup_conditions[0].operator")

	q = managementQuestionnaire()
	q.Questions[0].Followups[0].Value = "tal vez"
	requireField(t, questionnaire.Validate(q), "questions[0].followup_conditions[0].value")

	q = managementQuestionnaire()
	q.Questions[1].Followups[0].Value = "mucho"
	requireField(t, questionnaire.Validate(q), "questions[1].followup_conditions[0].value")

	q = managementQuestionnaire()
	q.Questions[1].Followups[1].Prompt = ""
	requireField(t, questionnaire.Validate(q), "questions[1].followup_conditions[1].prompt")
}

func TestNormalizeAnswer(t *testing.T) {
	q := managementQuestionnaire()
	cases := []struct {
		question entity.Question
		raw      string
		want     string
	}{
		{q.Questions[0], " Sí ", "true"},
		{q.Questions[0], "no", "false"},
		{q.Questions[1], "1500.50", "1500.5"},
		{q.Questions[2], "caja", "Caja"},
		{entity.Question{Type: entity.QuestionText}, "  texto libre ", "texto libre"},
	}
	for _, tc := range cases {
		got, err := questionnaire.NormalizeAnswer(tc.question, tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got)
	}

	for _, bad := range []struct {
		question entity.Question
		raw      string
	}{
		{q.Questions[0], "quizás"},
		{q.Questions[1], "mil"},
		{q.Questions[2], "Mixto"},
		{q.Questions[2], "   "},
	} {
		_, err := questionnaire.NormalizeAnswer(bad.question, bad.raw)
		requireField(t, err, "response_text")
	}
}

func TestFollowups(t *testing.T) {
	q := managementQuestionnaire()

	assert.Equal(t, []string{"Detalle montos y contrapartes"}, questionnaire.Followups(q.Questions[0], "true"))
	assert.Empty(t, questionnaire.Followups(q.Questions[0], "false"))

	assert.Equal(t, []string{"Adjunte los contratos", "Indique el período"}, questionnaire.Followups(q.Questions[1], "72000"))
	assert.Equal(t, []string{"Indique el período"}, questionnaire.Followups(q.Questions[1], "50000"))
	assert.Empty(t, questionnaire.Followups(q.Questions[2], "Caja"))
}

func TestCompute_SoloActivosYRequeridas(t *testing.T) {
	active := managementQuestionnaire()
	inactive := managementQuestionnaire()
	inactive.IsActive = false
	for i := range inactive.Questions {
		inactive.Questions[i].ID = "x-" + inactive.Questions[i].ID
	}
	list := []*entity.Questionnaire{active, inactive}

	p := questionnaire.Compute(list, map[string]bool{"q-1": true, "q-3": true})
	assert.Equal(t, questionnaire.Progress{Total: 3, Answered: 2, RequiredTotal: 2, RequiredAnswered: 1}, p)
	assert.False(t, p.Complete())

	p = questionnaire.Compute(list, map[string]bool{"q-1": true, "q-2": true})
	assert.True(t, p.Complete(), "la opcional sin responder no bloquea")
}

func TestChecklistStatus(t *testing.T) {
	done := questionnaire.Progress{RequiredTotal: 2, RequiredAnswered: 2}
	pending := questionnaire.Progress{RequiredTotal: 2, RequiredAnswered: 1}

	st, ok := questionnaire.ChecklistStatus(entity.ChecklistPending, done)
	assert.True(t, ok)
	assert.Equal(t, entity.ChecklistComplete, st)

	st, ok = questionnaire.ChecklistStatus(entity.ChecklistComplete, pending)
	assert.True(t, ok)
	assert.Equal(t, entity.ChecklistPending, st)

	_, ok = questionnaire.ChecklistStatus(entity.ChecklistComplete, done)
	assert.False(t, ok)

	st, ok = questionnaire.ChecklistStatus(entity.ChecklistFailed, done)
	assert.False(t, ok, "un failed marcado por un revisor no se pisa")
	assert.Equal(t, entity.ChecklistFailed, st)
}
