package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/application/usecase"
)

// FirmHandler maneja las peticiones HTTP para el recurso Firm.
type FirmHandler struct {
	uc *usecase.FirmUseCase
}

// NewFirmHandler construye el handler inyectando el caso de uso.
func NewFirmHandler(uc *usecase.FirmUseCase) *FirmHandler {
	return &FirmHandler{uc: uc}
}

// Create godoc
// @Summary      Crear firma
// @Tags         firms
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFirmRequest  true  "Datos de la firma"
// @Success      201   {object}  dto.FirmResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/firms [post]
func (h *FirmHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFirmRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener firma por ID
// @Tags         firms
// @Produce      json
// @Param        id   path  string  true  "ID de la firma"
// @Success      200  {object}  dto.FirmResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/firms/{id} [get]
func (h *FirmHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar firmas
// @Tags         firms
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.FirmListResponse
// @Router       /api/firms [get]
func (h *FirmHandler) List(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	out, err := h.uc.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// pageFromQuery lee limit/offset con los topes de dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
