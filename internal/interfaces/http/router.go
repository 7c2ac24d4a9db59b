package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/epublit/epublit-api/internal/application/auth"
	"github.com/epublit/epublit-api/internal/application/consignment"
	"github.com/epublit/epublit-api/internal/application/sales"
	"github.com/epublit/epublit-api/internal/application/settlement"
	"github.com/epublit/epublit-api/internal/application/usecase"
)

// Pinger verifica la conexión a la base para /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	BookUC        *usecase.BookUseCase
	PersonaUC     *usecase.PersonaUseCase
	ClientUC      *usecase.ClientUseCase
	ConsignmentUC *consignment.UseCase
	SaleUC        *sales.UseCase
	SettlementUC  *settlement.UseCase
	DB            Pinger
	ServiceName   string
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", health(deps.DB, deps.ServiceName))

	// Usuarios (público)
	user := app.Group("/user")
	authHandler := NewAuthHandler(deps.AuthUC)
	user.Post("/register", authHandler.Register)
	user.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	requireAuth := AuthMiddleware(deps.JWTSecret)

	libros := app.Group("/libros", requireAuth)
	bookHandler := NewBookHandler(deps.BookUC)
	libros.Post("/", bookHandler.Create)
	libros.Get("/", bookHandler.List)
	libros.Get("/:isbn", bookHandler.Get)
	libros.Put("/:isbn/stock", bookHandler.AddStock)

	personas := app.Group("/personas", requireAuth)
	personaHandler := NewPersonaHandler(deps.PersonaUC)
	personas.Post("/", personaHandler.Create)
	personas.Get("/", personaHandler.List)
	personas.Get("/:id", personaHandler.Get)

	clientes := app.Group("/clientes", requireAuth)
	clientHandler := NewClientHandler(deps.ClientUC)
	clientes.Post("/", clientHandler.Create)
	clientes.Get("/", clientHandler.List)
	clientes.Get("/:id", clientHandler.Get)
	clientes.Get("/:id/stock", clientHandler.Stock)

	consignaciones := app.Group("/consignaciones", requireAuth)
	consignmentHandler := NewConsignmentHandler(deps.ConsignmentUC)
	consignaciones.Post("/", consignmentHandler.Create)
	consignaciones.Get("/", consignmentHandler.List)
	consignaciones.Get("/:id", consignmentHandler.Get)

	ventas := app.Group("/ventas", requireAuth)
	saleHandler := NewSaleHandler(deps.SaleUC)
	ventas.Post("/", saleHandler.Create)
	ventas.Get("/", saleHandler.List)
	ventas.Get("/:id", saleHandler.Get)

	liquidaciones := app.Group("/liquidaciones", requireAuth)
	settlementHandler := NewSettlementHandler(deps.SettlementUC)
	liquidaciones.Post("/", settlementHandler.Create)
	liquidaciones.Get("/", settlementHandler.List)
	liquidaciones.Get("/:id", settlementHandler.Get)
}

// health responde 200 si la base contesta; 503 si no.
func health(db Pinger, service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
