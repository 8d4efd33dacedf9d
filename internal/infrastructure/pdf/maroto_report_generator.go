// Package pdf implementa el reporte de Quality of Earnings en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Firma + Proyecto/Cliente │ Fecha + Generado por     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MATERIALIDAD: umbral absoluto / % / base / piso relativo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Título | Estado | Monto | Marca               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: impacto total + conteos por estado                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CHECKLIST QA: descripción + estado                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/qoe-review-api/internal/application/report"
	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.Generator = (*ReportGenerator)(nil)

// ReportGenerator implementa report.Generator usando Maroto v2.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

// ContentType MIME del archivo.
func (g *ReportGenerator) ContentType() string { return "application/pdf" }

// Extension extensión del archivo.
func (g *ReportGenerator) Extension() string { return "pdf" }

// Generate genera el PDF y devuelve sus bytes. Solo lista las filas incluidas por materialidad.
func (g *ReportGenerator) Generate(_ context.Context, doc report.Document) ([]byte, error) {
	if doc.Project == nil {
		return nil, fmt.Errorf("pdf: documento sin proyecto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Quality of Earnings - "+doc.Project.Name, true).
		WithAuthor(nonEmpty(doc.FirmName, "QoE"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(materialityRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(doc.Currency))
	m.AddRows(tableDetailRows(doc.Summary.Included)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(checklistRows(doc.Checklist)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: firma + proyecto (izq) y fecha + autor (der).
func headerRow(doc report.Document) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.FirmName, "Quality of Earnings"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Project.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 9}),
			text.New("Cliente: "+nonEmpty(doc.Project.ClientName, "—"), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE AJUSTES QoE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+doc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Generado por: "+nonEmpty(doc.GeneratedBy, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// materialityRow: umbrales usados para filtrar las filas.
func materialityRow(doc report.Document) core.Row {
	s := doc.Summary
	base := "no disponible (solo aplica el umbral absoluto)"
	if s.Base != nil {
		base = money(doc.Currency, *s.Base)
	}
	floor := "—"
	if s.PercentageFloor != nil {
		floor = money(doc.Currency, *s.PercentageFloor)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("MATERIALIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Umbral absoluto: %s   |   Umbral relativo: %s%%   |   Base: %s   |   Piso relativo: %s",
				money(doc.Currency, s.Thresholds.Amount),
				s.Thresholds.Percentage.String(),
				base,
				floor,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ajustes.
func tableHeaderRow(currency string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tipo", 3, align.Left),
		h("Título", 4, align.Left),
		h("Estado", 2, align.Center),
		h("Monto ("+nonEmpty(currency, "—")+")", 2, align.Right),
		h("", 1, align.Center),
	)
}

// tableDetailRows: una fila por ajuste incluido.
func tableDetailRows(rows []adjustment.Row) []core.Row {
	if len(rows) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin ajustes materiales aceptados.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		))}
	}
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		a := r.Adjustment
		mark := ""
		if r.Forced {
			mark = "forzado"
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(typeLabel(a.Type), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(a.Title, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(string(a.Status), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatAmount(a.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(mark, props.Text{Size: 6.5, Align: align.Center, Top: 1.5, Color: colorAlert})),
		))
	}
	return result
}

// totalsRow: impacto total y conteos.
func totalsRow(doc report.Document) core.Row {
	c := doc.Summary.Counts
	return row.New(16).Add(
		col.New(7).Add(
			text.New(fmt.Sprintf("Ajustes: %d   |   Aceptados: %d   |   Modificados: %d   |   Rechazados: %d",
				c.Total, c.Accepted, c.Modified, c.Rejected,
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
			text.New(fmt.Sprintf("Excluidos por materialidad: %d", len(doc.Summary.Excluded)), props.Text{
				Size: 8, Top: 7, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("IMPACTO TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Left, Color: colorPrimary, Top: 2,
			}),
			text.New(money(doc.Currency, doc.Summary.TotalImpact), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
			}),
		),
	)
}

// checklistRows: estado del checklist de QA al momento de generar.
func checklistRows(items []entity.ChecklistItem) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CHECKLIST DE QA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, it := range items {
		req := "opcional"
		if it.Required {
			req = "requerido"
		}
		rows = append(rows, row.New(5).Add(
			col.New(9).Add(text.New(it.Description, props.Text{Size: 7.5, Top: 0.5, Left: 2})),
			col.New(1).Add(text.New(req, props.Text{Size: 6.5, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(it.Status, props.Text{Size: 7.5, Align: align.Right, Top: 0.5, Right: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func typeLabel(t entity.AdjustmentType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

func money(currency string, d decimal.Decimal) string {
	if currency == "" {
		return formatAmount(d)
	}
	return currency + " " + formatAmount(d)
}

// formatAmount monto con dos decimales, puntos de miles y coma decimal.
// Ej: -1234567.5 → "-1.234.567,50"
func formatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := formatMoney(intPart) + "," + frac
	if d.IsNegative() && !d.Round(2).IsZero() {
		out = "-" + out
	}
	return out
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
