package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/qoe-review-api/internal/application/report"
)

// ReportHandler checklist, compuerta, resumen y descargas de reportes (protegido).
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Checklist godoc
// @Summary      Checklist de QA del proyecto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ChecklistResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/checklist [get]
func (h *ReportHandler) Checklist(c *fiber.Ctx) error {
	out, err := h.uc.Checklist(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Readiness godoc
// @Summary      Compuerta de reportes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ReadinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/readiness [get]
func (h *ReportHandler) Readiness(c *fiber.Ctx) error {
	out, err := h.uc.Readiness(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de materialidad e impacto total
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Excel godoc
// @Summary      Descargar libro de datos Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {file}    binary
// @Failure      409  {object}  dto.ErrorResponse  "NOT_READY con los ítems pendientes"
// @Router       /api/projects/{id}/reports/excel [get]
func (h *ReportHandler) Excel(c *fiber.Ctx) error {
	return h.download(c, report.FormatExcel)
}

// PDF godoc
// @Summary      Descargar reporte PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {file}    binary
// @Failure      409  {object}  dto.ErrorResponse  "NOT_READY con los ítems pendientes"
// @Router       /api/projects/{id}/reports/pdf [get]
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	return h.download(c, report.FormatPDF)
}

func (h *ReportHandler) download(c *fiber.Ctx, format report.Format) error {
	file, err := h.uc.Generate(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.Send(file.Bytes)
}
