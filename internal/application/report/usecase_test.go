package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qoe-review-api/internal/application/report"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
)

// snapshotFake sirve un estado fijo; los repos solo implementan lo que el caso de uso lee.
type snapshotFake struct {
	project     *entity.Project
	adjustments []*entity.Adjustment
	checklist   []entity.ChecklistItem
}

func (f *snapshotFake) RunSnapshot(ctx context.Context, fn func(
	projectRepo repository.ProjectRepository,
	adjRepo repository.AdjustmentRepository,
	checklistRepo repository.ChecklistRepository,
) error) error {
	return fn(projectReader{f}, adjReader{f}, checklistReader{f})
}

type projectReader struct {
	repository.ProjectRepository
	f *snapshotFake
}

func (r projectReader) GetByID(_ context.Context, id string) (*entity.Project, error) {
	if r.f.project == nil || r.f.project.ID != id {
		return nil, nil
	}
	return r.f.project, nil
}

type adjReader struct {
	repository.AdjustmentRepository
	f *snapshotFake
}

func (r adjReader) ListByProject(_ context.Context, _ string, _ repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	return r.f.adjustments, nil
}

type checklistReader struct {
	repository.ChecklistRepository
	f *snapshotFake
}

func (r checklistReader) ListByProject(_ context.Context, _ string) ([]entity.ChecklistItem, error) {
	return r.f.checklist, nil
}

type generatorSpy struct {
	calls int
	last  report.Document
	err   error
}

func (g *generatorSpy) Generate(_ context.Context, doc report.Document) ([]byte, error) {
	g.calls++
	g.last = doc
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func (g *generatorSpy) ContentType() string { return "application/pdf" }
func (g *generatorSpy) Extension() string   { return "pdf" }

var now = time.Date(2026, 6, 30, 18, 0, 0, 0, time.UTC)

func fixture() *snapshotFake {
	base := decimal.NewFromInt(50000)
	checklist := entity.DefaultChecklist()
	for i := range checklist {
		checklist[i].ID = string(rune('a' + i))
		checklist[i].Status = entity.ChecklistComplete
	}
	adj := func(id, amount string, st entity.AdjustmentStatus) *entity.Adjustment {
		return &entity.Adjustment{
			ID: id, ProjectID: "prj-1", Type: entity.AdjustmentOther, Title: id,
			Amount: decimal.RequireFromString(amount), Status: st,
		}
	}
	return &snapshotFake{
		project: &entity.Project{
			ID: "prj-1", FirmID: "firm-1", Name: "Acme Holdings, Inc.",
			MaterialityAmount: decimal.NewFromInt(1000), MaterialityPercentage: decimal.NewFromInt(3), BaseValue: &base,
		},
		adjustments: []*entity.Adjustment{
			adj("a", "2000", entity.StatusAccepted),
			adj("b", "500", entity.StatusRejected),
			adj("c", "-3000", entity.StatusModified),
			adj("d", "800", entity.StatusAccepted),
		},
		checklist: checklist,
	}
}

func newUC(f *snapshotFake, gen *generatorSpy) *report.ReportUseCase {
	return report.NewReportUseCase(f, map[report.Format]report.Generator{report.FormatPDF: gen},
		report.Options{FirmName: "Firma", Currency: "USD"}, logger.Nop()).
		WithClock(func() time.Time { return now })
}

func TestGenerate_ListoInvocaGenerador(t *testing.T) {
	f := fixture()
	gen := &generatorSpy{}

	file, err := newUC(f, gen).Generate(context.Background(), "firm-1", "user-1", "prj-1", report.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "qoe_acme_holdings_inc_20260630.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, gen.last.Summary.TotalImpact.Equal(decimal.NewFromInt(-1000)), "got %s", gen.last.Summary.TotalImpact)
	require.Len(t, gen.last.Summary.Included, 2)
	require.Len(t, gen.last.Summary.Excluded, 1)
	assert.Equal(t, "d", gen.last.Summary.Excluded[0].Adjustment.ID)
	assert.Equal(t, "user-1", gen.last.GeneratedBy)
}

func TestGenerate_BloqueadoNoInvocaGenerador(t *testing.T) {
	f := fixture()
	f.adjustments = append(f.adjustments, &entity.Adjustment{
		ID: "s", ProjectID: "prj-1", Type: entity.AdjustmentOther, Title: "s",
		Amount: decimal.NewFromInt(10), Status: entity.StatusSuggested,
	})
	gen := &generatorSpy{}

	_, err := newUC(f, gen).Generate(context.Background(), "firm-1", "user-1", "prj-1", report.FormatPDF)
	var notReady *domain.NotReadyError
	require.ErrorAs(t, err, &notReady)
	require.Len(t, notReady.Items, 1)
	assert.Equal(t, adjustment.ReviewedItemID, notReady.Items[0].ID)
	assert.Zero(t, gen.calls, "el generador no debe ejecutarse con la compuerta cerrada")
}

func TestGenerate_FormatoYPermisos(t *testing.T) {
	f := fixture()
	gen := &generatorSpy{}
	uc := newUC(f, gen)

	_, err := uc.Generate(context.Background(), "firm-1", "u", "prj-1", report.FormatExcel)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "format", vErr.Field)

	_, err = uc.Generate(context.Background(), "firm-2", "u", "prj-1", report.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Generate(context.Background(), "firm-1", "u", "otro", report.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	gen.err = errors.New("boom")
	_, err = uc.Generate(context.Background(), "firm-1", "u", "prj-1", report.FormatPDF)
	assert.ErrorIs(t, err, gen.err)
}

func TestSummary_ContadoresYPisoPorcentual(t *testing.T) {
	s, err := newUC(fixture(), &generatorSpy{}).Summary(context.Background(), "firm-1", "prj-1")
	require.NoError(t, err)

	assert.True(t, s.TotalImpact.Equal(decimal.NewFromInt(-1000)))
	require.NotNil(t, s.PercentageFloor)
	assert.True(t, s.PercentageFloor.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 4, s.Counts.Total)
	assert.Equal(t, 2, s.Counts.Accepted)
	assert.Len(t, s.Included, 2)
	assert.True(t, s.GeneratedAt.Equal(now))
}

func TestReadinessYChecklist_IncluyenCondicionDerivada(t *testing.T) {
	f := fixture()
	f.checklist[0].Status = entity.ChecklistPending
	uc := newUC(f, &generatorSpy{})

	r, err := uc.Readiness(context.Background(), "firm-1", "prj-1")
	require.NoError(t, err)
	assert.False(t, r.Ready)
	require.Len(t, r.Incomplete, 1)
	assert.Equal(t, "a", r.Incomplete[0].ID)

	c, err := uc.Checklist(context.Background(), "firm-1", "prj-1")
	require.NoError(t, err)
	last := c.Items[len(c.Items)-1]
	assert.True(t, last.Derived)
	assert.Equal(t, entity.ChecklistComplete, last.Status)
}

func TestGenerate_NombreDeArchivoSinTildes(t *testing.T) {
	f := fixture()
	f.project.Name = "Adquisición Ñandú & Cía."

	file, err := newUC(f, &generatorSpy{}).Generate(context.Background(), "firm-1", "user-1", "prj-1", report.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "qoe_adquisicion_nandu_cia_20260630.pdf", file.Name)
}
