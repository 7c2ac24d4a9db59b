package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas (cabecera) y libros_ventas (líneas).
type SaleRepo struct {
	base
}

func NewSaleRepository(q Querier, timeout time.Duration) *SaleRepo {
	return &SaleRepo{base{q: q, timeout: timeout}}
}

// Create inserta la venta y sus líneas. Debe ejecutarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	err := r.q.QueryRow(ctx, `
		INSERT INTO ventas (user_id, cliente_id, fecha)
		VALUES ($1, $2, $3)
		RETURNING id`, s.UserID, s.ClientID, s.Date).Scan(&s.ID)
	if err != nil {
		return wrap("insert venta", err)
	}
	for i := range s.Lines {
		l := &s.Lines[i]
		l.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO libros_ventas (venta_id, user_id, isbn, cantidad, precio_venta)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID, s.UserID, l.ISBN, l.Quantity, l.UnitPrice,
		)
		if err != nil {
			return wrap("insert libro_venta", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, userID, id int64) (*entity.Sale, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var s entity.Sale
	err := r.q.QueryRow(ctx, `SELECT id, user_id, cliente_id, fecha FROM ventas WHERE user_id = $1 AND id = $2`, userID, id).
		Scan(&s.ID, &s.UserID, &s.ClientID, &s.Date)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("get venta", err)
	}
	lines, err := r.lines(ctx, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.Lines = lines[s.ID]
	return &s, nil
}

func (r *SaleRepo) List(ctx context.Context, userID int64, f repository.SaleFilter) ([]*entity.Sale, error) {
	qb := psql.Select("v.id", "v.user_id", "v.cliente_id", "v.fecha").From("ventas v").
		Where(sq.Eq{"v.user_id": userID}).
		OrderBy("v.fecha DESC", "v.id DESC")
	if f.ClientID > 0 {
		qb = qb.Where(sq.Eq{"v.cliente_id": f.ClientID})
	}
	if f.ISBN != "" {
		qb = qb.Where(sq.Expr("EXISTS (SELECT 1 FROM libros_ventas lv WHERE lv.venta_id = v.id AND lv.isbn = ?)", f.ISBN))
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		qb = qb.Offset(uint64(f.Offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ventas: %w", err)
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list ventas", err)
	}
	var (
		out []*entity.Sale
		ids []int64
	)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.ClientID, &s.Date); err != nil {
			rows.Close()
			return nil, wrap("scan venta", err)
		}
		out = append(out, &s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list ventas", err)
	}
	if len(ids) == 0 {
		return out, nil
	}
	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range out {
		s.Lines = lines[s.ID]
	}
	return out, nil
}

func (r *SaleRepo) lines(ctx context.Context, saleIDs []int64) (map[int64][]entity.SaleLine, error) {
	query := `
		SELECT lv.venta_id, lv.isbn, l.titulo, lv.cantidad, lv.precio_venta, v.fecha
		FROM libros_ventas lv
		JOIN ventas v ON v.id = lv.venta_id
		JOIN libros l ON l.user_id = lv.user_id AND l.isbn = lv.isbn
		WHERE lv.venta_id = ANY($1)
		ORDER BY lv.venta_id, lv.id`
	rows, err := r.q.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, wrap("list libros_ventas", err)
	}
	defer rows.Close()
	out := make(map[int64][]entity.SaleLine, len(saleIDs))
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.SaleID, &l.ISBN, &l.Title, &l.Quantity, &l.UnitPrice, &l.Date); err != nil {
			return nil, wrap("scan libro_venta", err)
		}
		out[l.SaleID] = append(out[l.SaleID], l)
	}
	return out, wrap("list libros_ventas", rows.Err())
}

// ListLines devuelve las líneas vendidas de la serie con fecha dentro del período (extremos incluidos).
func (r *SaleRepo) ListLines(ctx context.Context, series entity.SettlementSeries, period entity.Period) ([]entity.SaleLine, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		SELECT lv.venta_id, lv.isbn, l.titulo, lv.cantidad, lv.precio_venta, v.fecha
		FROM libros_ventas lv
		JOIN ventas v ON v.id = lv.venta_id
		JOIN libros l ON l.user_id = lv.user_id AND l.isbn = lv.isbn
		WHERE v.user_id = $1 AND v.cliente_id = $2 AND lv.isbn = $3
		  AND v.fecha BETWEEN $4 AND $5
		ORDER BY v.fecha, lv.venta_id, lv.id`
	rows, err := r.q.Query(ctx, query, series.UserID, series.ClientID, series.ISBN, period.Start, period.End)
	if err != nil {
		return nil, wrap("list ventas de la serie", err)
	}
	defer rows.Close()
	var out []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.SaleID, &l.ISBN, &l.Title, &l.Quantity, &l.UnitPrice, &l.Date); err != nil {
			return nil, wrap("scan venta de la serie", err)
		}
		out = append(out, l)
	}
	return out, wrap("list ventas de la serie", rows.Err())
}
