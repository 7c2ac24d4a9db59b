package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/settlement"
)

// SettlementHandler maneja /liquidaciones.
type SettlementHandler struct {
	uc *settlement.UseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(uc *settlement.UseCase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// Create godoc
// @Summary      Liquidar ventas de un libro a un cliente en un período
// @Description  Falla con 400 si el período se superpone con una liquidación existente de la misma serie.
// @Tags         liquidaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSettlementRequest  true  "isbn, id_cliente, fecha_inicial, fecha_final"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /liquidaciones [post]
func (h *SettlementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSettlementRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Message: "Liquidación creada", Data: out})
}

// List godoc
// @Summary      Listar liquidaciones
// @Tags         liquidaciones
// @Security     Bearer
// @Produce      json
// @Param        isbn     query  string  false  "Filtrar por libro"
// @Param        cliente  query  int     false  "Filtrar por cliente"
// @Success      200      {array}  dto.SettlementResponse
// @Router       /liquidaciones [get]
func (h *SettlementHandler) List(c *fiber.Ctx) error {
	clientID, err := queryID(c, "cliente")
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), c.Query("isbn"), clientID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de liquidación con libro y ventas
// @Tags         liquidaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la liquidación"
// @Success      200  {object}  dto.SettlementDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /liquidaciones/{id} [get]
func (h *SettlementHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
