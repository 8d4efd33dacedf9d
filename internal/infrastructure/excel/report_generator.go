// Package excel genera el libro de datos del reporte QoE con excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/qoe-review-api/internal/application/report"
	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// Nombres de las hojas del libro.
const (
	SheetSummary   = "Resumen"
	SheetIncluded  = "Ajustes"
	SheetExcluded  = "No materiales"
	SheetChecklist = "Checklist QA"
)

var adjustmentHeaders = []string{
	"ID", "Tipo", "Título", "Estado", "Monto", "Monto original", "Material", "Forzado",
	"Manual", "Confianza", "Revisado por", "Fecha revisión", "Notas",
}

var _ report.Generator = (*ReportGenerator)(nil)

// ReportGenerator implementa report.Generator.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

// ContentType MIME del archivo.
func (g *ReportGenerator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension extensión del archivo.
func (g *ReportGenerator) Extension() string { return "xlsx" }

// Generate arma el libro: resumen, ajustes incluidos, no materiales y checklist.
func (g *ReportGenerator) Generate(_ context.Context, doc report.Document) ([]byte, error) {
	if doc.Project == nil {
		return nil, fmt.Errorf("excel: documento sin proyecto")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	for _, name := range []string{SheetIncluded, SheetExcluded, SheetChecklist} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("excel: crear hoja %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	w := &writer{f: f, bold: bold, amount: amount}
	w.summary(doc)
	w.adjustments(SheetIncluded, doc.Summary.Included)
	w.adjustments(SheetExcluded, doc.Summary.Excluded)
	w.checklist(doc.Checklist)
	if w.err != nil {
		return nil, fmt.Errorf("excel: escribir celdas: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

// writer acumula el primer error de escritura.
type writer struct {
	f      *excelize.File
	bold   int
	amount int
	err    error
}

func (w *writer) set(sheet string, col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(sheet, cell, v)
}

func (w *writer) style(sheet string, fromCol, fromRow, toCol, toRow, style int) {
	if w.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		w.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, from, to, style)
}

func (w *writer) summary(doc report.Document) {
	s := doc.Summary
	rows := [][2]any{
		{"Firma", doc.FirmName},
		{"Proyecto", doc.Project.Name},
		{"Cliente", doc.Project.ClientName},
		{"Moneda", doc.Currency},
		{"Generado por", doc.GeneratedBy},
		{"Fecha", doc.GeneratedAt.Format("2006-01-02 15:04")},
		{"Umbral absoluto", s.Thresholds.Amount.InexactFloat64()},
		{"Umbral relativo (%)", s.Thresholds.Percentage.InexactFloat64()},
		{"Base (EBITDA normalizado)", ""},
		{"Piso relativo", ""},
		{"Impacto total", s.TotalImpact.InexactFloat64()},
		{"Ajustes", s.Counts.Total},
		{"Sugeridos", s.Counts.Suggested},
		{"Pendientes", s.Counts.PendingReview},
		{"Aceptados", s.Counts.Accepted},
		{"Modificados", s.Counts.Modified},
		{"Rechazados", s.Counts.Rejected},
		{"Materiales", s.Counts.Material},
		{"Incluidos en reporte", len(s.Included)},
		{"Excluidos por materialidad", len(s.Excluded)},
	}
	if s.Base != nil {
		rows[8][1] = s.Base.InexactFloat64()
	}
	if s.PercentageFloor != nil {
		rows[9][1] = s.PercentageFloor.InexactFloat64()
	}
	for i, r := range rows {
		w.set(SheetSummary, 1, i+1, r[0])
		w.set(SheetSummary, 2, i+1, r[1])
	}
	w.style(SheetSummary, 1, 1, 1, len(rows), w.bold)
	w.style(SheetSummary, 2, 7, 2, 7, w.amount)
	w.style(SheetSummary, 2, 9, 2, 11, w.amount)
	if w.err == nil {
		w.err = w.f.SetColWidth(SheetSummary, "A", "B", 28)
	}
}

func (w *writer) adjustments(sheet string, rows []adjustment.Row) {
	for i, h := range adjustmentHeaders {
		w.set(sheet, i+1, 1, h)
	}
	w.style(sheet, 1, 1, len(adjustmentHeaders), 1, w.bold)
	for i, r := range rows {
		a := r.Adjustment
		n := i + 2
		w.set(sheet, 1, n, a.ID)
		w.set(sheet, 2, n, string(a.Type))
		w.set(sheet, 3, n, a.Title)
		w.set(sheet, 4, n, string(a.Status))
		w.set(sheet, 5, n, a.Amount.InexactFloat64())
		if a.OriginalAmount != nil {
			w.set(sheet, 6, n, a.OriginalAmount.InexactFloat64())
		}
		w.set(sheet, 7, n, r.Material)
		w.set(sheet, 8, n, r.Forced)
		w.set(sheet, 9, n, a.IsManual)
		if a.ConfidenceScore != nil {
			w.set(sheet, 10, n, *a.ConfidenceScore)
		}
		if a.ReviewedBy != nil {
			w.set(sheet, 11, n, *a.ReviewedBy)
		}
		if a.ReviewedAt != nil {
			w.set(sheet, 12, n, a.ReviewedAt.Format("2006-01-02 15:04"))
		}
		if a.ReviewNotes != nil {
			w.set(sheet, 13, n, *a.ReviewNotes)
		}
	}
	if len(rows) > 0 {
		w.style(sheet, 5, 2, 6, len(rows)+1, w.amount)
	}
}

func (w *writer) checklist(items []entity.ChecklistItem) {
	for i, h := range []string{"Descripción", "Requerido", "Estado"} {
		w.set(SheetChecklist, i+1, 1, h)
	}
	w.style(SheetChecklist, 1, 1, 3, 1, w.bold)
	for i, it := range items {
		w.set(SheetChecklist, 1, i+2, it.Description)
		w.set(SheetChecklist, 2, i+2, it.Required)
		w.set(SheetChecklist, 3, i+2, it.Status)
	}
}
