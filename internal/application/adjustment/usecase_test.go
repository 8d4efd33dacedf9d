package adjustment_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appadj "github.com/jhoicas/qoe-review-api/internal/application/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
)

const (
	firmID    = "firm-1"
	otherFirm = "firm-2"
	projectID = "prj-1"
	analyst   = "user-analyst"
	reviewer  = "user-reviewer"
)

var fixedNow = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*appadj.AdjustmentUseCase, *memStore, *lockerSpy) {
	t.Helper()
	store := newMemStore()
	store.projects[projectID] = &entity.Project{
		ID:                    projectID,
		FirmID:                firmID,
		Name:                  "Acme QoE",
		MaterialityAmount:     decimal.NewFromInt(1000),
		MaterialityPercentage: decimal.NewFromFloat(3.0),
	}
	locker := &lockerSpy{}
	uc := appadj.NewAdjustmentUseCase(store, memAdjustments{store}, memProjects{store}, locker, logger.Nop()).
		WithClock(func() time.Time { return fixedNow })
	return uc, store, locker
}

func score(v float64) *float64 { return &v }

func ingestOne(t *testing.T, uc *appadj.AdjustmentUseCase, amount float64) dto.AdjustmentResponse {
	t.Helper()
	out, err := uc.IngestSuggestions(context.Background(), firmID, analyst, projectID, dto.IngestSuggestionsRequest{
		Candidates: []dto.SuggestionCandidate{{
			AdjustmentType:  string(entity.AdjustmentExecutiveCompensation),
			Title:           "Salario del dueño sobre mercado",
			Amount:          amount,
			AINarrative:     "El dueño cobra 2x el salario de mercado",
			ConfidenceScore: score(0.9),
		}},
	})
	require.NoError(t, err)
	require.Len(t, out.Created, 1)
	return out.Created[0]
}

func TestCreateManual_AcceptedQuedaSellado(t *testing.T) {
	uc, store, _ := setup(t)
	amount := decimal.NewFromInt(-4200)

	out, err := uc.CreateManual(context.Background(), firmID, analyst, projectID, dto.CreateManualAdjustmentRequest{
		AdjustmentType: string(entity.AdjustmentOther),
		Title:          "  Reclasificación de renta  ",
		Amount:         &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.StatusAccepted), out.Status)
	assert.True(t, out.IsManual)
	assert.Equal(t, "Reclasificación de renta", out.Title)
	require.NotNil(t, out.ReviewedAt)
	assert.True(t, out.ReviewedAt.Equal(fixedNow))
	require.NotNil(t, out.ReviewedBy)
	assert.Equal(t, analyst, *out.ReviewedBy)
	assert.Nil(t, out.ConfidenceScore)
	assert.Equal(t, 1, out.Version)

	require.Len(t, store.audit, 1)
	assert.Equal(t, entity.AuditActionCreate, store.audit[0].Action)
}

func TestCreateManual_PendingReviewSinRevision(t *testing.T) {
	uc, _, _ := setup(t)
	amount := decimal.NewFromInt(100)

	out, err := uc.CreateManual(context.Background(), firmID, analyst, projectID, dto.CreateManualAdjustmentRequest{
		AdjustmentType: string(entity.AdjustmentOther), Title: "x", Amount: &amount, Status: "pending_review",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPendingReview), out.Status)
	assert.Nil(t, out.ReviewedAt)
}

func TestCreateManual_TipoDesconocido(t *testing.T) {
	uc, store, _ := setup(t)
	amount := decimal.NewFromInt(100)

	_, err := uc.CreateManual(context.Background(), firmID, analyst, projectID, dto.CreateManualAdjustmentRequest{
		AdjustmentType: "bogus", Title: "x", Amount: &amount,
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "adjustment_type", vErr.Field)
	assert.Empty(t, store.adjustments)
}

func TestCreateManual_OtraFirma(t *testing.T) {
	uc, _, _ := setup(t)
	amount := decimal.NewFromInt(100)

	_, err := uc.CreateManual(context.Background(), otherFirm, analyst, projectID, dto.CreateManualAdjustmentRequest{
		AdjustmentType: string(entity.AdjustmentOther), Title: "x", Amount: &amount,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.CreateManual(context.Background(), firmID, analyst, "no-existe", dto.CreateManualAdjustmentRequest{
		AdjustmentType: string(entity.AdjustmentOther), Title: "x", Amount: &amount,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngest_LoteAtomico(t *testing.T) {
	uc, store, _ := setup(t)

	_, err := uc.IngestSuggestions(context.Background(), firmID, analyst, projectID, dto.IngestSuggestionsRequest{
		Candidates: []dto.SuggestionCandidate{
			{AdjustmentType: string(entity.AdjustmentRentNormalization), Title: "ok", Amount: 1500, ConfidenceScore: score(0.7)},
			{AdjustmentType: string(entity.AdjustmentRentNormalization), Title: "nan", Amount: math.NaN(), ConfidenceScore: score(0.7)},
		},
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "candidates[1].amount", vErr.Field)
	assert.Empty(t, store.adjustments, "ningún candidato del lote se persiste")

	_, err = uc.IngestSuggestions(context.Background(), firmID, analyst, projectID, dto.IngestSuggestionsRequest{
		Candidates: []dto.SuggestionCandidate{
			{AdjustmentType: string(entity.AdjustmentRentNormalization), Title: "score", Amount: 10, ConfidenceScore: score(1.5)},
		},
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "candidates[0].confidence_score", vErr.Field)
}

func TestIngest_MontoFueraDeEscalaSeRechaza(t *testing.T) {
	uc, store, _ := setup(t)

	for _, amount := range []float64{1000.005, 1e30} {
		_, err := uc.IngestSuggestions(context.Background(), firmID, analyst, projectID, dto.IngestSuggestionsRequest{
			Candidates: []dto.SuggestionCandidate{
				{AdjustmentType: string(entity.AdjustmentSeverance), Title: "indemnización", Amount: amount, ConfidenceScore: score(0.8)},
			},
		})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr, "monto %v", amount)
		assert.Equal(t, "candidates[0].amount", vErr.Field)
	}
	assert.Empty(t, store.adjustments)
}

func TestIngest_CreaSugeridos(t *testing.T) {
	uc, store, _ := setup(t)
	created := ingestOne(t, uc, 2500.75)

	assert.Equal(t, string(entity.StatusSuggested), created.Status)
	assert.False(t, created.IsManual)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("2500.75")))
	assert.Nil(t, created.ReviewedAt)
	require.Len(t, store.audit, 1)
	assert.Equal(t, entity.AuditActionIngest, store.audit[0].Action)
}

func TestReview_AcceptYLuegoYaRevisado(t *testing.T) {
	uc, store, locker := setup(t)
	created := ingestOne(t, uc, 2500)

	out, err := uc.Review(context.Background(), firmID, reviewer, created.ID, dto.ReviewAdjustmentRequest{Decision: "accept", Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusAccepted), out.Status)
	assert.Equal(t, 2, out.Version)
	assert.Equal(t, []string{appadj.LockKey(created.ID)}, locker.keys)

	_, err = uc.Review(context.Background(), firmID, reviewer, created.ID, dto.ReviewAdjustmentRequest{Decision: "accept", Notes: "ok"})
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "accepted", invalid.From)

	stored := store.adjustments[created.ID]
	assert.Equal(t, 2, stored.Version, "el segundo intento no guarda nada")
	assert.Len(t, store.audit, 2)
}

func TestReview_ModifyYReopen(t *testing.T) {
	uc, store, _ := setup(t)
	created := ingestOne(t, uc, 2500)
	newAmount := decimal.NewFromInt(1800)

	out, err := uc.Review(context.Background(), firmID, reviewer, created.ID, dto.ReviewAdjustmentRequest{
		Decision: "modify", Notes: "solo parte no recurrente", NewAmount: &newAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusModified), out.Status)
	require.NotNil(t, out.OriginalAmount)
	assert.True(t, out.OriginalAmount.Equal(decimal.NewFromInt(2500)))
	assert.True(t, out.Amount.Equal(newAmount))

	reopened, err := uc.Reopen(context.Background(), firmID, "user-admin", created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPendingReview), reopened.Status)
	assert.Nil(t, reopened.OriginalAmount)
	assert.Nil(t, reopened.ReviewedAt)
	assert.True(t, reopened.Amount.Equal(decimal.NewFromInt(2500)))

	last := store.audit[len(store.audit)-1]
	assert.Equal(t, entity.AuditActionReopen, last.Action)
	assert.Equal(t, entity.StatusModified, last.Change.FromStatus)
	assert.Equal(t, entity.StatusPendingReview, last.Change.ToStatus)
}

func TestReview_ConflictoDeVersion(t *testing.T) {
	uc, store, _ := setup(t)
	created := ingestOne(t, uc, 2500)

	// otro escritor guarda entre la lectura y el CAS
	store.updateHook = func(id string) {
		store.mu.Lock()
		store.adjustments[id].Version++
		store.mu.Unlock()
	}
	_, err := uc.Review(context.Background(), firmID, reviewer, created.ID, dto.ReviewAdjustmentRequest{Decision: "reject"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, store.audit, 1, "la auditoría de la revisión fallida se descarta")
}

func TestReview_LockOcupado(t *testing.T) {
	uc, store, locker := setup(t)
	created := ingestOne(t, uc, 2500)
	locker.busy = true

	_, err := uc.Review(context.Background(), firmID, reviewer, created.ID, dto.ReviewAdjustmentRequest{Decision: "accept"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.StatusSuggested, store.adjustments[created.ID].Status)
}

func TestReview_NoExisteYOtraFirma(t *testing.T) {
	uc, _, _ := setup(t)
	created := ingestOne(t, uc, 2500)

	_, err := uc.Review(context.Background(), firmID, reviewer, "nope", dto.ReviewAdjustmentRequest{Decision: "accept"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Review(context.Background(), otherFirm, reviewer, created.ID, dto.ReviewAdjustmentRequest{Decision: "accept"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Dos revisores concurrentes: exactamente uno gana, el otro ve "ya revisado".
func TestReview_ConcurrenteUnSoloGanador(t *testing.T) {
	uc, _, _ := setup(t)
	created := ingestOne(t, uc, 2500)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Review(context.Background(), firmID, fmt.Sprintf("rev-%d", i), created.ID, dto.ReviewAdjustmentRequest{Decision: "accept"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		var invalid *domain.InvalidTransitionError
		assert.True(t, errors.As(err, &invalid) || errors.Is(err, domain.ErrConflict), "error inesperado: %v", err)
	}
	assert.Equal(t, 1, ok)
}

func TestList_FiltroExplicito(t *testing.T) {
	uc, _, _ := setup(t)
	a := ingestOne(t, uc, 100)
	ingestOne(t, uc, 200)
	_, err := uc.Review(context.Background(), firmID, reviewer, a.ID, dto.ReviewAdjustmentRequest{Decision: "reject"})
	require.NoError(t, err)

	all, err := uc.List(context.Background(), firmID, projectID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total, "sin filtro se devuelven también los rechazados")

	rejected, err := uc.List(context.Background(), firmID, projectID, "rejected")
	require.NoError(t, err)
	require.Len(t, rejected.Items, 1)
	assert.Equal(t, a.ID, rejected.Items[0].ID)

	_, err = uc.List(context.Background(), firmID, projectID, "archived")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
}

func TestDelete_RegistraAuditoria(t *testing.T) {
	uc, store, _ := setup(t)
	a := ingestOne(t, uc, 100)

	require.NoError(t, uc.Delete(context.Background(), firmID, "user-admin", a.ID))
	assert.Empty(t, store.adjustments)
	last := store.audit[len(store.audit)-1]
	assert.Equal(t, entity.AuditActionDelete, last.Action)
	assert.Equal(t, a.ID, last.EntityID)

	assert.ErrorIs(t, uc.Delete(context.Background(), firmID, "user-admin", a.ID), domain.ErrNotFound)
}

func TestSetForceInclude(t *testing.T) {
	uc, _, _ := setup(t)
	a := ingestOne(t, uc, 100)

	out, err := uc.SetForceInclude(context.Background(), firmID, reviewer, a.ID, true)
	require.NoError(t, err)
	assert.True(t, out.ForceInclude)
	assert.Equal(t, string(entity.StatusSuggested), out.Status)

	got, err := uc.Get(context.Background(), firmID, a.ID)
	require.NoError(t, err)
	assert.True(t, got.ForceInclude)
}

func TestHistory_OrdenDeAcciones(t *testing.T) {
	uc, _, _ := setup(t)
	a := ingestOne(t, uc, 2500)
	_, err := uc.Review(context.Background(), firmID, reviewer, a.ID, dto.ReviewAdjustmentRequest{Decision: "reject", Notes: "recurrente"})
	require.NoError(t, err)

	h, err := uc.History(context.Background(), firmID, a.ID)
	require.NoError(t, err)
	require.Len(t, h.Items, 2)
	assert.Equal(t, entity.AuditActionIngest, h.Items[0].Action)
	assert.Equal(t, entity.AuditActionReview, h.Items[1].Action)
	assert.Equal(t, string(entity.StatusSuggested), h.Items[1].FromStatus)
	assert.Equal(t, string(entity.StatusRejected), h.Items[1].ToStatus)
	assert.Equal(t, "recurrente", h.Items[1].Notes)

	_, err = uc.History(context.Background(), otherFirm, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdate_EditaSinRevisarYBloqueaRevisados(t *testing.T) {
	uc, store, _ := setup(t)
	created := ingestOne(t, uc, 2500)
	title := "Bono extraordinario del dueño"
	typ := string(entity.AdjustmentOther)

	out, err := uc.Update(context.Background(), firmID, analyst, created.ID, dto.UpdateAdjustmentRequest{
		Title: &title, AdjustmentType: &typ,
	})
	require.NoError(t, err)
	assert.Equal(t, title, out.Title)
	assert.Equal(t, typ, out.AdjustmentType)
	assert.Equal(t, string(entity.StatusSuggested), out.Status)
	assert.Equal(t, 2, out.Version)
	assert.Equal(t, entity.AuditActionUpdate, store.audit[len(store.audit)-1].Action)

	amount := decimal.NewFromInt(10)
	_, err = uc.Update(context.Background(), firmID, analyst, created.ID, dto.UpdateAdjustmentRequest{Amount: &amount})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amount", vErr.Field)

	_, err = uc.Review(context.Background(), firmID, reviewer, created.ID, dto.ReviewAdjustmentRequest{Decision: "accept"})
	require.NoError(t, err)
	_, err = uc.Update(context.Background(), firmID, analyst, created.ID, dto.UpdateAdjustmentRequest{Title: &title})
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 3, store.adjustments[created.ID].Version, "la edición rechazada no guarda nada")

	_, err = uc.Update(context.Background(), otherFirm, analyst, created.ID, dto.UpdateAdjustmentRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
