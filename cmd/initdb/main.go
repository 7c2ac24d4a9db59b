// initdb crea en la base configurada las tablas de epublit que falten.
//
// Uso: go run ./cmd/initdb
// Lee la misma configuración que la API (DATABASE_URL o DB_HOST/DB_PORT/...).
package main

import (
	"context"
	"time"

	"github.com/epublit/epublit-api/internal/infrastructure/postgres"
	"github.com/epublit/epublit-api/pkg/config"
	"github.com/epublit/epublit-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "epublit-initdb"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	log.Info().Str("db", cfg.DB.DBName).Msg("esquema aplicado")
}
