package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

func TestMigrationFiles_Ordenadas(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_init.sql", names[0])
	assert.Equal(t, "001_init", migrationVersion(names[0]))
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigrationInit_CheckCoincideConEnums(t *testing.T) {
	script, err := migrationsFS.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	sql := string(script)

	for _, st := range []entity.AdjustmentStatus{
		entity.StatusSuggested, entity.StatusPendingReview, entity.StatusAccepted, entity.StatusRejected, entity.StatusModified,
	} {
		assert.True(t, strings.Contains(sql, "'"+string(st)+"'"), "status %s ausente del CHECK", st)
	}
	for _, role := range []string{entity.RoleAdmin, entity.RoleReviewer, entity.RoleAnalyst} {
		assert.Contains(t, sql, "'"+role+"'")
	}
	for _, st := range []string{entity.ChecklistComplete, entity.ChecklistPending, entity.ChecklistFailed} {
		assert.Contains(t, sql, "'"+st+"'")
	}
}

func TestMigrationCuestionarios_TiposYClaveDeChecklist(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/002_questionnaires.sql")

	script, err := migrationsFS.ReadFile("migrations/002_questionnaires.sql")
	require.NoError(t, err)
	sql := string(script)
	for _, qt := range []entity.QuestionType{
		entity.QuestionText, entity.QuestionMultipleChoice, entity.QuestionBoolean, entity.QuestionNumber,
	} {
		assert.Contains(t, sql, "'"+string(qt)+"'")
	}
	assert.Contains(t, sql, "item_key")
	assert.Contains(t, sql, "'"+entity.ChecklistKeyQuestionnaires+"'")
}
