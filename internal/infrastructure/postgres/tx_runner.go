package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epublit/epublit-api/internal/application/consignment"
	"github.com/epublit/epublit-api/internal/application/sales"
	"github.com/epublit/epublit-api/internal/application/settlement"
	"github.com/epublit/epublit-api/internal/application/usecase"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

var (
	_ consignment.TxRunner    = (*TxRunner)(nil)
	_ sales.TxRunner          = (*TxRunner)(nil)
	_ settlement.TxRunner     = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// Las invariantes de stock y de períodos se protegen con bloqueos de fila
// (SELECT ... FOR UPDATE) y advisory locks tomados dentro de fn.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool y el timeout por consulta.
func NewTxRunner(pool *pgxpool.Pool, queryTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, timeout: queryTimeout}
}

// run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// RunConsignment repos de libros, personas, clientes y consignaciones atados a la tx.
func (r *TxRunner) RunConsignment(ctx context.Context, fn func(
	books repository.BookRepository,
	personas repository.PersonaRepository,
	clients repository.ClientRepository,
	consignments repository.ConsignmentRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewBookRepository(tx, r.timeout),
			NewPersonaRepository(tx, r.timeout),
			NewClientRepository(tx, r.timeout),
			NewConsignmentRepository(tx, r.timeout),
		)
	})
}

// RunSale repos de libros, clientes, ventas y liquidaciones atados a la tx.
// Las liquidaciones se usan para tomar el lock de serie y rechazar ventas en períodos cerrados.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	books repository.BookRepository,
	clients repository.ClientRepository,
	sales repository.SaleRepository,
	settlements repository.SettlementRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewBookRepository(tx, r.timeout),
			NewClientRepository(tx, r.timeout),
			NewSaleRepository(tx, r.timeout),
			NewSettlementRepository(tx, r.timeout),
		)
	})
}

// RunSettlement repos de libros, clientes, liquidaciones y ventas atados a la tx.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	books repository.BookRepository,
	clients repository.ClientRepository,
	settlements repository.SettlementRepository,
	sales repository.SaleRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewBookRepository(tx, r.timeout),
			NewClientRepository(tx, r.timeout),
			NewSettlementRepository(tx, r.timeout),
			NewSaleRepository(tx, r.timeout),
		)
	})
}

// RunCatalog repos de libros y personas atados a la tx.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	books repository.BookRepository,
	personas repository.PersonaRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewBookRepository(tx, r.timeout), NewPersonaRepository(tx, r.timeout))
	})
}

// Ping verifica la conexión (health check).
func (r *TxRunner) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping DB: %w", err)
	}
	return nil
}
