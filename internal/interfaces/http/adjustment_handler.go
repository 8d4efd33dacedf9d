package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/qoe-review-api/internal/application/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
)

// AdjustmentHandler flujo de revisión de ajustes (protegido).
type AdjustmentHandler struct {
	uc *adjustment.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *adjustment.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// ListByProject godoc
// @Summary      Listar ajustes de un proyecto
// @Description  Sin status devuelve todos; el filtro siempre es explícito.
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del proyecto"
// @Param        status  query  string  false  "suggested | pending_review | accepted | rejected | modified"
// @Success      200     {object}  dto.AdjustmentListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/adjustments [get]
func (h *AdjustmentHandler) ListByProject(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetFirmID(c), c.Params("id"), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateManual godoc
// @Summary      Crear ajuste manual
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.CreateManualAdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/adjustments [post]
func (h *AdjustmentHandler) CreateManual(c *fiber.Ctx) error {
	var in dto.CreateManualAdjustmentRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateManual(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// IngestSuggestions godoc
// @Summary      Ingestar ajustes sugeridos
// @Description  Lote atómico de candidatos producidos por la extracción de documentos. Todos quedan en suggested.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.IngestSuggestionsRequest  true  "Candidatos"
// @Success      201   {object}  dto.IngestSuggestionsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/adjustments/suggestions [post]
func (h *AdjustmentHandler) IngestSuggestions(c *fiber.Ctx) error {
	var in dto.IngestSuggestionsRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.IngestSuggestions(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Review godoc
// @Summary      Revisar ajuste (reviewer, admin)
// @Description  accept | reject | modify (new_amount requerido). Un ajuste ya revisado responde 409 INVALID_TRANSITION.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.ReviewAdjustmentRequest  true  "Decisión"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/review [post]
func (h *AdjustmentHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewAdjustmentRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Review(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reopen godoc
// @Summary      Reabrir ajuste revisado (admin)
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/reopen [post]
func (h *AdjustmentHandler) Reopen(c *fiber.Ctx) error {
	out, err := h.uc.Reopen(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar un ajuste sin revisar
// @Description  Un ajuste revisado debe reabrirse antes de editarse. El monto solo se edita en ajustes manuales.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.UpdateAdjustmentRequest  true  "Campos a editar"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [put]
func (h *AdjustmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAdjustmentRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetForceInclude godoc
// @Summary      Forzar inclusión en reportes (reviewer, admin)
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.ForceIncludeRequest  true  "Marca"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/force-include [put]
func (h *AdjustmentHandler) SetForceInclude(c *fiber.Ctx) error {
	var in dto.ForceIncludeRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetForceInclude(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), in.ForceInclude)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ajuste (admin)
// @Tags         adjustments
// @Security     Bearer
// @Param        id   path  string  true  "ID del ajuste"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [delete]
func (h *AdjustmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial de auditoría de un ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/history [get]
func (h *AdjustmentHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
