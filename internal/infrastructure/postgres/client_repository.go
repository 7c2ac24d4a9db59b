package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes y su stock en consignación (tabla stock_cliente).
type ClientRepo struct {
	base
}

func NewClientRepository(q Querier, timeout time.Duration) *ClientRepo {
	return &ClientRepo{base{q: q, timeout: timeout}}
}

const clientColumns = `id, user_id, nombre, cuit, email, cond_fiscal, tipo, domicilio, created_at`

func scanClient(row interface{ Scan(...any) error }) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CUIT, &c.Email, &c.CondFiscal, &c.Type, &c.Address, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO clientes (user_id, nombre, cuit, email, cond_fiscal, tipo, domicilio)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, c.UserID, c.Name, c.CUIT, c.Email, c.CondFiscal, c.Type, c.Address).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un cliente con CUIT %s", domain.ErrDuplicate, c.CUIT)
		}
		return wrap("insert cliente", err)
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, userID, id int64) (*entity.Client, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clientes WHERE user_id = $1 AND id = $2`, userID, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("get cliente", err)
	}
	return c, nil
}

func (r *ClientRepo) GetByCUIT(ctx context.Context, userID int64, cuit string) (*entity.Client, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clientes WHERE user_id = $1 AND cuit = $2`, userID, cuit))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("get cliente por cuit", err)
	}
	return c, nil
}

func (r *ClientRepo) List(ctx context.Context, userID int64, limit, offset int) ([]*entity.Client, error) {
	qb := psql.Select(clientColumns).From("clientes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clientes: %w", err)
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list clientes", err)
	}
	defer rows.Close()
	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrap("scan cliente", err)
		}
		out = append(out, c)
	}
	return out, wrap("list clientes", rows.Err())
}

func (r *ClientRepo) ListStock(ctx context.Context, userID, clientID int64) ([]entity.ClientStock, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		SELECT sc.cliente_id, sc.isbn, l.titulo, sc.stock
		FROM stock_cliente sc
		JOIN clientes c ON c.id = sc.cliente_id
		JOIN libros l ON l.user_id = c.user_id AND l.isbn = sc.isbn
		WHERE c.user_id = $1 AND sc.cliente_id = $2
		ORDER BY sc.isbn`
	rows, err := r.q.Query(ctx, query, userID, clientID)
	if err != nil {
		return nil, wrap("list stock cliente", err)
	}
	defer rows.Close()
	var out []entity.ClientStock
	for rows.Next() {
		var s entity.ClientStock
		if err := rows.Scan(&s.ClientID, &s.ISBN, &s.Title, &s.Stock); err != nil {
			return nil, wrap("scan stock cliente", err)
		}
		out = append(out, s)
	}
	return out, wrap("list stock cliente", rows.Err())
}

// GetStockForUpdate bloquea la fila de stock del cliente (SELECT FOR UPDATE). Sin fila devuelve Stock 0.
func (r *ClientRepo) GetStockForUpdate(ctx context.Context, clientID int64, isbn string) (*entity.ClientStock, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	s := entity.ClientStock{ClientID: clientID, ISBN: isbn}
	err := r.q.QueryRow(ctx, `SELECT stock FROM stock_cliente WHERE cliente_id = $1 AND isbn = $2 FOR UPDATE`, clientID, isbn).
		Scan(&s.Stock)
	if err != nil && !noRows(err) {
		return nil, wrap("get stock cliente for update", err)
	}
	return &s, nil
}

// AddStock suma delta al stock del cliente creando la fila si no existe.
func (r *ClientRepo) AddStock(ctx context.Context, clientID int64, isbn string, delta int) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO stock_cliente (cliente_id, isbn, stock)
		VALUES ($1, $2, $3)
		ON CONFLICT (cliente_id, isbn)
		DO UPDATE SET stock = stock_cliente.stock + EXCLUDED.stock`
	if _, err := r.q.Exec(ctx, query, clientID, isbn, delta); err != nil {
		return wrap("upsert stock cliente", err)
	}
	return nil
}
