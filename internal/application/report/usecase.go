// Package report arma las vistas de cierre de un proyecto: checklist de QA, compuerta
// de preparación, resumen de materialidad y los archivos de reporte (Excel y PDF).
package report

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	appadj "github.com/jhoicas/qoe-review-api/internal/application/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Format formato de archivo de reporte.
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Options textos fijos de los reportes.
type Options struct {
	FirmName string
	Currency string
}

// File archivo generado listo para descargar.
type File struct {
	Name        string
	ContentType string
	Bytes       []byte
}

// ReportUseCase vistas de cierre de un proyecto.
type ReportUseCase struct {
	snapshot   SnapshotRunner
	generators map[Format]Generator
	opts       Options
	log        *logger.Logger
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso. generators indexa los generadores disponibles por formato.
func NewReportUseCase(snapshot SnapshotRunner, generators map[Format]Generator, opts Options, log *logger.Logger) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		snapshot:   snapshot,
		generators: generators,
		opts:       opts,
		log:        log.Named("reports"),
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// state lectura consistente de un proyecto.
type state struct {
	project     *entity.Project
	adjustments []*entity.Adjustment
	checklist   []entity.ChecklistItem
}

func (uc *ReportUseCase) load(ctx context.Context, firmID, projectID string) (*state, error) {
	var st state
	err := uc.snapshot.RunSnapshot(ctx, func(
		projectRepo repository.ProjectRepository,
		adjRepo repository.AdjustmentRepository,
		checklistRepo repository.ChecklistRepository,
	) error {
		p, err := projectRepo.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.FirmID != firmID {
			return domain.ErrForbidden
		}
		adjs, err := adjRepo.ListByProject(ctx, projectID, repository.AdjustmentFilter{})
		if err != nil {
			return err
		}
		items, err := checklistRepo.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		st = state{project: p, adjustments: adjs, checklist: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Checklist checklist de QA evaluado, incluida la condición derivada de los ajustes.
func (uc *ReportUseCase) Checklist(ctx context.Context, firmID, projectID string) (*dto.ChecklistResponse, error) {
	st, err := uc.load(ctx, firmID, projectID)
	if err != nil {
		return nil, err
	}
	r := adjustment.CheckReadiness(st.checklist, st.adjustments)
	return &dto.ChecklistResponse{ProjectID: projectID, Items: ChecklistToDTO(r.Items)}, nil
}

// Readiness evalúa la compuerta de reportes del proyecto.
func (uc *ReportUseCase) Readiness(ctx context.Context, firmID, projectID string) (*dto.ReadinessResponse, error) {
	st, err := uc.load(ctx, firmID, projectID)
	if err != nil {
		return nil, err
	}
	r := adjustment.CheckReadiness(st.checklist, st.adjustments)
	return &dto.ReadinessResponse{
		ProjectID:  projectID,
		Ready:      r.Ready,
		Items:      ChecklistToDTO(r.Items),
		Incomplete: ChecklistToDTO(r.Incomplete),
		Unreviewed: r.Unreviewed,
	}, nil
}

// Summary resumen de materialidad e impacto total. Es una vista interna: no exige la compuerta.
func (uc *ReportUseCase) Summary(ctx context.Context, firmID, projectID string) (*dto.SummaryResponse, error) {
	st, err := uc.load(ctx, firmID, projectID)
	if err != nil {
		return nil, err
	}
	s := adjustment.Apply(st.adjustments, adjustment.ThresholdsFor(st.project), st.project.BaseValue)
	return summaryToDTO(projectID, s, uc.now()), nil
}

// Generate produce el archivo de reporte en el formato pedido.
// Si la compuerta está cerrada retorna *domain.NotReadyError sin invocar al generador.
func (uc *ReportUseCase) Generate(ctx context.Context, firmID, userID, projectID string, format Format) (*File, error) {
	gen, ok := uc.generators[format]
	if !ok {
		return nil, domain.NewValidationError("format", "formato no soportado: "+string(format))
	}
	st, err := uc.load(ctx, firmID, projectID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.RequireReady(projectID, st.checklist, st.adjustments); err != nil {
		uc.log.Warn().Str("project_id", projectID).Str("format", string(format)).Err(err).Msg("reporte bloqueado")
		return nil, err
	}

	now := uc.now()
	doc := Document{
		FirmName:    uc.opts.FirmName,
		Currency:    uc.opts.Currency,
		Project:     st.project,
		Summary:     adjustment.Apply(st.adjustments, adjustment.ThresholdsFor(st.project), st.project.BaseValue),
		Checklist:   adjustment.CheckReadiness(st.checklist, st.adjustments).Items,
		GeneratedBy: userID,
		GeneratedAt: now,
	}
	data, err := gen.Generate(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("reporte %s: %w", format, err)
	}
	uc.log.Info().
		Str("project_id", projectID).
		Str("format", string(format)).
		Int("rows", len(doc.Summary.Included)).
		Str("total_impact", doc.Summary.TotalImpact.String()).
		Msg("reporte generado")
	return &File{
		Name:        fmt.Sprintf("qoe_%s_%s.%s", slug(st.project.Name), now.Format("20060102"), gen.Extension()),
		ContentType: gen.ContentType(),
		Bytes:       data,
	}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug nombre de archivo ASCII: quita tildes (NFD sin marcas combinantes) y reemplaza el resto por "_".
func slug(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	out := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "_"), "_")
	if out == "" {
		return "proyecto"
	}
	return out
}

// ChecklistToDTO convierte ítems evaluados; marca como derivada la condición de revisión de ajustes.
func ChecklistToDTO(items []entity.ChecklistItem) []dto.ChecklistItemResp {
	out := make([]dto.ChecklistItemResp, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ChecklistItemResp{
			ID:          it.ID,
			Description: it.Description,
			Required:    it.Required,
			Status:      it.Status,
			Derived:     it.ID == adjustment.ReviewedItemID,
		})
	}
	return out
}

func summaryToDTO(projectID string, s adjustment.Summary, now time.Time) *dto.SummaryResponse {
	rows := func(in []adjustment.Row) []dto.SummaryRow {
		out := make([]dto.SummaryRow, 0, len(in))
		for _, r := range in {
			out = append(out, dto.SummaryRow{
				AdjustmentResponse: *appadj.ToResponse(r.Adjustment),
				Material:           r.Material,
				Forced:             r.Forced,
			})
		}
		return out
	}
	return &dto.SummaryResponse{
		ProjectID:             projectID,
		MaterialityAmount:     s.Thresholds.Amount,
		MaterialityPercentage: s.Thresholds.Percentage,
		BaseValue:             s.Base,
		PercentageFloor:       s.PercentageFloor,
		Included:              rows(s.Included),
		Excluded:              rows(s.Excluded),
		TotalImpact:           s.TotalImpact,
		Counts: dto.StatusCountsResponse{
			Total:         s.Counts.Total,
			Suggested:     s.Counts.Suggested,
			PendingReview: s.Counts.PendingReview,
			Accepted:      s.Counts.Accepted,
			Rejected:      s.Counts.Rejected,
			Modified:      s.Counts.Modified,
			Material:      s.Counts.Material,
		},
		GeneratedAt: now,
	}
}
