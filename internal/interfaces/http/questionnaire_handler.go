package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/application/usecase"
)

// QuestionnaireHandler cuestionarios a la gerencia y sus respuestas (protegido).
type QuestionnaireHandler struct {
	uc *usecase.QuestionnaireUseCase
}

// NewQuestionnaireHandler construye el handler.
func NewQuestionnaireHandler(uc *usecase.QuestionnaireUseCase) *QuestionnaireHandler {
	return &QuestionnaireHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cuestionario del proyecto
// @Description  Las condiciones de seguimiento son reglas tipadas (equals, not_equals, greater_than, less_than, answered).
// @Tags         questionnaires
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del proyecto"
// @Param        body  body  dto.CreateQuestionnaireRequest  true  "Cuestionario"
// @Success      201   {object}  dto.QuestionnaireResp
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/questionnaires [post]
func (h *QuestionnaireHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuestionnaireRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByProject godoc
// @Summary      Listar cuestionarios del proyecto
// @Tags         questionnaires
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.QuestionnaireListResponse
// @Router       /api/projects/{id}/questionnaires [get]
func (h *QuestionnaireHandler) ListByProject(c *fiber.Ctx) error {
	out, err := h.uc.ListByProject(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuestionario
// @Tags         questionnaires
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cuestionario"
// @Success      200  {object}  dto.QuestionnaireResp
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/questionnaires/{id} [get]
func (h *QuestionnaireHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Activar o desactivar cuestionario
// @Tags         questionnaires
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                             true  "ID del cuestionario"
// @Param        body  body  dto.SetQuestionnaireActiveRequest  true  "Estado"
// @Success      200   {object}  dto.QuestionnaireResp
// @Router       /api/questionnaires/{id}/active [put]
func (h *QuestionnaireHandler) SetActive(c *fiber.Ctx) error {
	var in dto.SetQuestionnaireActiveRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetActive(c.UserContext(), GetFirmID(c), c.Params("id"), *in.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Respond godoc
// @Summary      Responder pregunta
// @Description  Reemplaza la respuesta previa del usuario. Devuelve las preguntas de seguimiento disparadas.
// @Tags         questionnaires
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la pregunta"
// @Param        body  body  dto.RespondQuestionRequest  true  "Respuesta"
// @Success      200   {object}  dto.RespondQuestionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/questions/{id}/respond [post]
func (h *QuestionnaireHandler) Respond(c *fiber.Ctx) error {
	var in dto.RespondQuestionRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Respond(c.UserContext(), GetFirmID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Responses godoc
// @Summary      Respuestas de una pregunta
// @Tags         questionnaires
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la pregunta"
// @Success      200  {object}  dto.QuestionResponsesResponse
// @Router       /api/questions/{id}/responses [get]
func (h *QuestionnaireHandler) Responses(c *fiber.Ctx) error {
	out, err := h.uc.Responses(c.UserContext(), GetFirmID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
