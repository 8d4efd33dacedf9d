package adjustment_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

func completeChecklist() []entity.ChecklistItem {
	items := entity.DefaultChecklist()
	for i := range items {
		items[i].ID = fmt.Sprintf("item-%d", i+1)
		items[i].ProjectID = "prj-1"
		items[i].Status = entity.ChecklistComplete
	}
	return items
}

func TestCheckReadiness_ListoSinSugeridos(t *testing.T) {
	adjs := []*entity.Adjustment{
		withStatus("a", "2000", entity.StatusAccepted),
		withStatus("b", "100", entity.StatusRejected),
	}
	r := adjustment.CheckReadiness(completeChecklist(), adjs)

	assert.True(t, r.Ready)
	assert.Empty(t, r.Incomplete)
	assert.Zero(t, r.Unreviewed)
	last := r.Items[len(r.Items)-1]
	assert.Equal(t, adjustment.ReviewedItemID, last.ID)
	assert.Equal(t, entity.ChecklistComplete, last.Status)
}

func TestCheckReadiness_SugeridoBloquea(t *testing.T) {
	adjs := []*entity.Adjustment{
		withStatus("a", "2000", entity.StatusAccepted),
		withStatus("b", "10", entity.StatusSuggested),
		withStatus("c", "20", entity.StatusSuggested),
	}
	r := adjustment.CheckReadiness(completeChecklist(), adjs)

	assert.False(t, r.Ready, "aunque el checklist externo esté completo")
	assert.Equal(t, 2, r.Unreviewed)
	require.Len(t, r.Incomplete, 1)
	assert.Equal(t, adjustment.ReviewedItemID, r.Incomplete[0].ID)
	assert.Contains(t, r.Incomplete[0].Description, "(2 pendientes)")
}

func TestCheckReadiness_PendingReviewNoBloquea(t *testing.T) {
	r := adjustment.CheckReadiness(completeChecklist(), []*entity.Adjustment{
		withStatus("a", "2000", entity.StatusPendingReview),
	})
	assert.True(t, r.Ready)
}

func TestCheckReadiness_OpcionalPendienteNoBloquea(t *testing.T) {
	items := completeChecklist()
	var optional, required int
	for i := range items {
		if !items[i].Required {
			optional = i
		} else {
			required = i
		}
	}
	items[optional].Status = entity.ChecklistPending
	assert.True(t, adjustment.CheckReadiness(items, nil).Ready)

	items[required].Status = entity.ChecklistFailed
	r := adjustment.CheckReadiness(items, nil)
	assert.False(t, r.Ready)
	require.Len(t, r.Incomplete, 1)
	assert.Equal(t, items[required].ID, r.Incomplete[0].ID)
}

func TestRequireReady_DevuelveItemsPendientes(t *testing.T) {
	items := completeChecklist()
	items[0].Status = entity.ChecklistPending

	err := adjustment.RequireReady("prj-1", items, []*entity.Adjustment{
		withStatus("x", "1", entity.StatusSuggested),
	})
	var notReady *domain.NotReadyError
	require.True(t, errors.As(err, &notReady))
	assert.Equal(t, "prj-1", notReady.ProjectID)
	require.Len(t, notReady.Items, 2)
	assert.Equal(t, items[0].ID, notReady.Items[0].ID)
	assert.Equal(t, adjustment.ReviewedItemID, notReady.Items[1].ID)

	assert.NoError(t, adjustment.RequireReady("prj-1", completeChecklist(), nil))
}
