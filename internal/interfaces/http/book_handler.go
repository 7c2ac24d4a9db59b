package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/usecase"
)

// BookHandler maneja /libros.
type BookHandler struct {
	uc *usecase.BookUseCase
}

// NewBookHandler construye el handler.
func NewBookHandler(uc *usecase.BookUseCase) *BookHandler {
	return &BookHandler{uc: uc}
}

// Create godoc
// @Summary      Crear libro
// @Tags         libros
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBookRequest  true  "Datos del libro"
// @Success      201   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /libros [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Message: "Libro creado", Data: out})
}

// Get godoc
// @Summary      Obtener libro por ISBN
// @Tags         libros
// @Security     Bearer
// @Produce      json
// @Param        isbn  path  string  true  "ISBN"
// @Success      200   {object}  dto.BookResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /libros/{isbn} [get]
func (h *BookHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("isbn"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *BookHandler) List(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddStock godoc
// @Summary      Sumar stock de la editorial
// @Tags         libros
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        isbn  path  string               true  "ISBN"
// @Param        body  body  dto.AddStockRequest  true  "Cantidad a sumar"
// @Success      200   {object}  dto.BookResponse
// @Router       /libros/{isbn}/stock [put]
func (h *BookHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddStock(c.UserContext(), GetUserID(c), c.Params("isbn"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
