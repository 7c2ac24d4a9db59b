package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

var _ repository.ConsignmentRepository = (*ConsignmentRepo)(nil)

// ConsignmentRepo consignaciones (cabecera) y libros_consignaciones (líneas).
type ConsignmentRepo struct {
	base
}

func NewConsignmentRepository(q Querier, timeout time.Duration) *ConsignmentRepo {
	return &ConsignmentRepo{base{q: q, timeout: timeout}}
}

// Create inserta cabecera y líneas. Debe ejecutarse dentro de una transacción.
func (r *ConsignmentRepo) Create(ctx context.Context, c *entity.Consignment) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO consignaciones (user_id, cliente_id, fecha, remito_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, c.UserID, c.ClientID, c.Date, c.RemitoPath).Scan(&c.ID); err != nil {
		return wrap("insert consignacion", err)
	}
	for _, l := range c.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO libros_consignaciones (consignacion_id, user_id, isbn, cantidad)
			VALUES ($1, $2, $3, $4)`,
			c.ID, c.UserID, l.Book.ISBN, l.Quantity,
		)
		if err != nil {
			return wrap("insert libro_consignacion", err)
		}
	}
	return nil
}

func (r *ConsignmentRepo) GetByID(ctx context.Context, userID, id int64) (*entity.Consignment, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var c entity.Consignment
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, cliente_id, fecha, remito_path
		FROM consignaciones WHERE user_id = $1 AND id = $2`, userID, id).
		Scan(&c.ID, &c.UserID, &c.ClientID, &c.Date, &c.RemitoPath)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("get consignacion", err)
	}
	return &c, nil
}

// ListLines devuelve las líneas en el orden en que se cargaron.
func (r *ConsignmentRepo) ListLines(ctx context.Context, consignmentID int64) ([]entity.ConsignmentLine, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		SELECT lc.isbn, lc.user_id, l.titulo, l.precio, lc.cantidad
		FROM libros_consignaciones lc
		JOIN libros l ON l.user_id = lc.user_id AND l.isbn = lc.isbn
		WHERE lc.consignacion_id = $1
		ORDER BY lc.id`
	rows, err := r.q.Query(ctx, query, consignmentID)
	if err != nil {
		return nil, wrap("list libros_consignaciones", err)
	}
	defer rows.Close()
	var out []entity.ConsignmentLine
	for rows.Next() {
		var l entity.ConsignmentLine
		if err := rows.Scan(&l.Book.ISBN, &l.Book.UserID, &l.Book.Title, &l.Book.Price, &l.Quantity); err != nil {
			return nil, wrap("scan libro_consignacion", err)
		}
		out = append(out, l)
	}
	return out, wrap("list libros_consignaciones", rows.Err())
}

func (r *ConsignmentRepo) List(ctx context.Context, userID int64, f repository.ConsignmentFilter) ([]*entity.ConsignmentSummary, error) {
	qb := psql.Select(
		"c.id", "c.fecha", "c.remito_path", "cl.id", "cl.nombre", "cl.cuit", "cl.email", "cl.cond_fiscal", "cl.tipo",
	).From("consignaciones c").
		Join("clientes cl ON cl.id = c.cliente_id").
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("c.fecha DESC", "c.id DESC")
	if f.ClientID > 0 {
		qb = qb.Where(sq.Eq{"c.cliente_id": f.ClientID})
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		qb = qb.Offset(uint64(f.Offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list consignaciones: %w", err)
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list consignaciones", err)
	}
	defer rows.Close()
	var out []*entity.ConsignmentSummary
	for rows.Next() {
		var s entity.ConsignmentSummary
		if err := rows.Scan(&s.ID, &s.Date, &s.RemitoPath, &s.ClientID, &s.ClientName, &s.CUIT, &s.Email, &s.CondFiscal, &s.ClientType); err != nil {
			return nil, wrap("scan consignacion", err)
		}
		out = append(out, &s)
	}
	return out, wrap("list consignaciones", rows.Err())
}
