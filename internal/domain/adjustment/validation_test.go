package adjustment_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, field, vErr.Field)
}

func TestAmountFromFloat(t *testing.T) {
	d, err := adjustment.AmountFromFloat(1234.5)
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("1234.5")))

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := adjustment.AmountFromFloat(f)
		requireField(t, err, "amount")
	}
}

func TestValidate_CamposObligatorios(t *testing.T) {
	a := suggestedAdjustment()
	require.NoError(t, adjustment.Validate(a))

	a.Title = "   "
	requireField(t, adjustment.Validate(a), "title")

	a = suggestedAdjustment()
	a.ProjectID = ""
	requireField(t, adjustment.Validate(a), "project_id")

	a = suggestedAdjustment()
	a.Type = "made_up_type"
	requireField(t, adjustment.Validate(a), "adjustment_type")

	a = suggestedAdjustment()
	a.Status = "approved"
	requireField(t, adjustment.Validate(a), "status")

	requireField(t, adjustment.Validate(nil), "adjustment")
}

func TestValidate_ScoresFueraDeRango(t *testing.T) {
	for _, v := range []float64{-0.01, 1.01, math.NaN()} {
		a := suggestedAdjustment()
		score := v
		a.ConfidenceScore = &score
		requireField(t, adjustment.Validate(a), "confidence_score")

		a = suggestedAdjustment()
		a.PrecisionScore = &score
		requireField(t, adjustment.Validate(a), "precision_score")
	}

	a := suggestedAdjustment()
	zero, one := 0.0, 1.0
	a.ConfidenceScore = &zero
	a.PrecisionScore = &one
	assert.NoError(t, adjustment.Validate(a), "los extremos 0 y 1 son válidos")
}

func TestValidate_ManualSinScores(t *testing.T) {
	a := suggestedAdjustment()
	a.IsManual = true
	a.Status = entity.StatusAccepted
	requireField(t, adjustment.Validate(a), "confidence_score")

	a.ConfidenceScore = nil
	assert.NoError(t, adjustment.Validate(a))
}

func TestValidate_SourceKind(t *testing.T) {
	a := suggestedAdjustment()
	a.SourceData = &entity.SourceData{Kind: entity.SourceLedgerLine, Reference: "GL 6105"}
	require.NoError(t, adjustment.Validate(a))

	a.SourceData.Kind = "email"
	requireField(t, adjustment.Validate(a), "source_data.kind")
}

func TestValidateNew_EstadoInicial(t *testing.T) {
	a := suggestedAdjustment()
	require.NoError(t, adjustment.ValidateNew(a))

	a.Status = entity.StatusAccepted
	requireField(t, adjustment.ValidateNew(a), "status")

	m := suggestedAdjustment()
	m.IsManual = true
	m.ConfidenceScore = nil
	for _, st := range []entity.AdjustmentStatus{entity.StatusAccepted, entity.StatusPendingReview} {
		m.Status = st
		assert.NoError(t, adjustment.ValidateNew(m), "manual en %s", st)
	}
	m.Status = entity.StatusSuggested
	requireField(t, adjustment.ValidateNew(m), "status")
}

func TestValidate_MontoEscalaYMagnitud(t *testing.T) {
	for _, ok := range []string{"100", "100.1", "100.10", "-4200.55", "999999999999999999.99"} {
		a := suggestedAdjustment()
		a.Amount = dec(ok)
		assert.NoError(t, adjustment.Validate(a), "monto %s", ok)
	}

	for _, bad := range []string{"100.004", "1000.005", "0.001", "1000000000000000000", "-1e30"} {
		a := suggestedAdjustment()
		a.Amount = dec(bad)
		requireField(t, adjustment.Validate(a), "amount")
	}

	a := suggestedAdjustment()
	a.Status = entity.StatusModified
	a.OriginalAmount = decPtr("2500.123")
	requireField(t, adjustment.Validate(a), "original_amount")
}

func TestAmountFromFloat_ConMasDecimalesNoPasaValidate(t *testing.T) {
	d, err := adjustment.AmountFromFloat(1000.005)
	require.NoError(t, err)
	a := suggestedAdjustment()
	a.Amount = d
	requireField(t, adjustment.ValidateNew(a), "amount")
}
