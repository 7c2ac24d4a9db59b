package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/epublit/epublit-api/internal/application/auth"
	"github.com/epublit/epublit-api/internal/application/consignment"
	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/application/sales"
	"github.com/epublit/epublit-api/internal/application/settlement"
	"github.com/epublit/epublit-api/internal/application/usecase"
	infraafip "github.com/epublit/epublit-api/internal/infrastructure/afip"
	infrapdf "github.com/epublit/epublit-api/internal/infrastructure/pdf"
	"github.com/epublit/epublit-api/internal/infrastructure/postgres"
	"github.com/epublit/epublit-api/internal/infrastructure/storage"
	httpRouter "github.com/epublit/epublit-api/internal/interfaces/http"
	"github.com/epublit/epublit-api/pkg/config"
	"github.com/epublit/epublit-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	timeout := cfg.DB.QueryTimeout
	userRepo := postgres.NewUserRepository(pool, timeout)
	bookRepo := postgres.NewBookRepository(pool, timeout)
	personaRepo := postgres.NewPersonaRepository(pool, timeout)
	clientRepo := postgres.NewClientRepository(pool, timeout)
	consignmentRepo := postgres.NewConsignmentRepository(pool, timeout)
	saleRepo := postgres.NewSaleRepository(pool, timeout)
	settlementRepo := postgres.NewSettlementRepository(pool, timeout)
	txRunner := postgres.NewTxRunner(pool, timeout)

	// Documentos: remitos y liquidaciones en disco local o S3
	var fileStore ports.FileStore
	switch cfg.Files.Driver {
	case "s3":
		fileStore, err = storage.NewS3Store(ctx, cfg.Files, log.Sub("storage"))
	default:
		fileStore, err = storage.NewLocalStore(cfg.Files.Dir, log.Sub("storage"))
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Files.Driver).Msg("almacenamiento de archivos")
	}
	docs := infrapdf.NewMarotoGenerator()

	// Padrón AFIP: sin URL configurada el registro no consulta datos fiscales
	var padron ports.PadronService
	if cfg.AFIP.PadronURL != "" {
		padron = infraafip.NewPadronClient(cfg.AFIP)
	} else {
		log.Warn().Msg("AFIP_PADRON_URL vacío: el registro no validará la CUIT contra el padrón")
	}

	authUC := auth.NewAuthUseCase(userRepo, padron, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	bookUC := usecase.NewBookUseCase(txRunner, bookRepo, personaRepo)
	personaUC := usecase.NewPersonaUseCase(personaRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	consignmentUC := consignment.NewUseCase(
		txRunner, consignmentRepo, personaRepo, userRepo,
		docs, fileStore, cfg.Files.BaseURL, log.Sub("consignaciones"),
	)
	saleUC := sales.NewUseCase(txRunner, saleRepo, log.Sub("ventas"))
	settlementUC := settlement.NewUseCase(
		txRunner, settlementRepo, bookRepo, personaRepo, saleRepo, userRepo,
		docs, fileStore, cfg.Files.BaseURL, log.Sub("liquidaciones"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Sub("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Sub("http")))

	// Swagger UI en local: http://localhost:<port>/docs (sólo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "epublit API",
		}))
	}

	if local, ok := fileStore.(*storage.LocalStore); ok {
		app.Static("/files", local.Root())
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		BookUC:        bookUC,
		PersonaUC:     personaUC,
		ClientUC:      clientUC,
		ConsignmentUC: consignmentUC,
		SaleUC:        saleUC,
		SettlementUC:  settlementUC,
		DB:            txRunner,
		ServiceName:   cfg.App.Name,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
