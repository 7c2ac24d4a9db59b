package postgres

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema crea las tablas e índices que falten. No versiona cambios: el esquema
// evoluciona fuera de esta app y schema.sql refleja siempre la versión vigente.
func ApplySchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schemaSQL)
	return wrap("aplicar esquema", err)
}
