package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/epublit/epublit-api/internal/application/consignment"
	"github.com/epublit/epublit-api/internal/application/dto"
)

// ConsignmentHandler maneja /consignaciones.
type ConsignmentHandler struct {
	uc *consignment.UseCase
}

// NewConsignmentHandler construye el handler.
func NewConsignmentHandler(uc *consignment.UseCase) *ConsignmentHandler {
	return &ConsignmentHandler{uc: uc}
}

// Create godoc
// @Summary      Consignar libros a un cliente
// @Description  Descuenta el stock de la editorial, suma el del cliente y genera el remito. Todo o nada.
// @Tags         consignaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsignmentRequest  true  "cliente y libros"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /consignaciones [post]
func (h *ConsignmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConsignmentRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Message: "Consignación creada", Data: out})
}

// List godoc
// @Summary      Listar consignaciones
// @Tags         consignaciones
// @Security     Bearer
// @Produce      json
// @Param        cliente  query  int  false  "Filtrar por cliente"
// @Param        limit    query  int  false  "Límite"  default(20)
// @Param        offset   query  int  false  "Offset"  default(0)
// @Success      200      {array}  dto.ConsignmentSummaryResponse
// @Router       /consignaciones [get]
func (h *ConsignmentHandler) List(c *fiber.Ctx) error {
	clientID, err := queryID(c, "cliente")
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), clientID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de consignación
// @Tags         consignaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la consignación"
// @Success      200  {object}  dto.ConsignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /consignaciones/{id} [get]
func (h *ConsignmentHandler) Get(c *fiber.Ctx) error {
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
