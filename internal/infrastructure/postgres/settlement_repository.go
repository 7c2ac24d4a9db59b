package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo liquidaciones.
type SettlementRepo struct {
	base
}

func NewSettlementRepository(q Querier, timeout time.Duration) *SettlementRepo {
	return &SettlementRepo{base{q: q, timeout: timeout}}
}

// LockSeries toma un advisory lock transaccional sobre la clave de la serie. Se libera
// solo con el commit o rollback; fuera de una transacción no tiene efecto útil.
func (r *SettlementRepo) LockSeries(ctx context.Context, series entity.SettlementSeries) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, series.LockKey()); err != nil {
		return wrap("lock serie liquidacion", err)
	}
	return nil
}

func (r *SettlementRepo) ListOverlapping(ctx context.Context, series entity.SettlementSeries, p entity.Period) ([]entity.Period, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		SELECT fecha_inicial, fecha_final
		FROM liquidaciones
		WHERE user_id = $1 AND isbn = $2 AND cliente_id = $3
		  AND fecha_inicial <= $5 AND fecha_final >= $4`
	rows, err := r.q.Query(ctx, query, series.UserID, series.ISBN, series.ClientID, p.Start, p.End)
	if err != nil {
		return nil, wrap("list periodos liquidados", err)
	}
	defer rows.Close()
	var out []entity.Period
	for rows.Next() {
		var e entity.Period
		if err := rows.Scan(&e.Start, &e.End); err != nil {
			return nil, wrap("scan periodo", err)
		}
		out = append(out, e)
	}
	return out, wrap("list periodos liquidados", rows.Err())
}

func (r *SettlementRepo) Create(ctx context.Context, s *entity.Settlement) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO liquidaciones (user_id, isbn, cliente_id, fecha_inicial, fecha_final, total, file_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, s.UserID, s.ISBN, s.ClientID, s.Period.Start, s.Period.End, s.Total, s.FilePath).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return wrap("insert liquidacion", err)
	}
	return nil
}

const settlementColumns = `id, user_id, isbn, cliente_id, fecha_inicial, fecha_final, total, file_path, created_at`

func scanSettlement(row interface{ Scan(...any) error }) (*entity.Settlement, error) {
	var s entity.Settlement
	err := row.Scan(&s.ID, &s.UserID, &s.ISBN, &s.ClientID, &s.Period.Start, &s.Period.End, &s.Total, &s.FilePath, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettlementRepo) GetByID(ctx context.Context, userID, id int64) (*entity.Settlement, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	s, err := scanSettlement(r.q.QueryRow(ctx, `SELECT `+settlementColumns+` FROM liquidaciones WHERE user_id = $1 AND id = $2`, userID, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("get liquidacion", err)
	}
	return s, nil
}

func (r *SettlementRepo) List(ctx context.Context, userID int64, f repository.SettlementFilter) ([]*entity.Settlement, error) {
	qb := psql.Select(settlementColumns).From("liquidaciones").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("fecha_inicial DESC", "id DESC")
	if f.ISBN != "" {
		qb = qb.Where(sq.Eq{"isbn": f.ISBN})
	}
	if f.ClientID > 0 {
		qb = qb.Where(sq.Eq{"cliente_id": f.ClientID})
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		qb = qb.Offset(uint64(f.Offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list liquidaciones: %w", err)
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list liquidaciones", err)
	}
	defer rows.Close()
	var out []*entity.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, wrap("scan liquidacion", err)
		}
		out = append(out, s)
	}
	return out, wrap("list liquidaciones", rows.Err())
}
