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

var _ repository.BookRepository = (*BookRepo)(nil)

// psql construye consultas con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BookRepo implementación de BookRepository sobre PostgreSQL (usable con pool o tx).
type BookRepo struct {
	base
}

// NewBookRepository construye el adaptador de libros. Pasar pool o tx (Querier).
func NewBookRepository(q Querier, timeout time.Duration) *BookRepo {
	return &BookRepo{base{q: q, timeout: timeout}}
}

const bookColumns = `isbn, user_id, titulo, precio, stock, created_at`

func (r *BookRepo) Create(ctx context.Context, b *entity.Book) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO libros (isbn, user_id, titulo, precio, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query, b.ISBN, b.UserID, b.Title, b.Price, b.Stock).Scan(&b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe el libro con isbn %s", domain.ErrDuplicate, b.ISBN)
		}
		return wrap("insert libro", err)
	}
	return nil
}

func (r *BookRepo) GetByISBN(ctx context.Context, userID int64, isbn string) (*entity.Book, error) {
	return r.get(ctx, "get libro", `SELECT `+bookColumns+` FROM libros WHERE user_id = $1 AND isbn = $2`, userID, isbn)
}

// GetByISBNForUpdate bloquea la fila del libro hasta el fin de la transacción.
func (r *BookRepo) GetByISBNForUpdate(ctx context.Context, userID int64, isbn string) (*entity.Book, error) {
	return r.get(ctx, "get libro for update", `SELECT `+bookColumns+` FROM libros WHERE user_id = $1 AND isbn = $2 FOR UPDATE`, userID, isbn)
}

func (r *BookRepo) get(ctx context.Context, op, query string, userID int64, isbn string) (*entity.Book, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var b entity.Book
	err := r.q.QueryRow(ctx, query, userID, isbn).Scan(&b.ISBN, &b.UserID, &b.Title, &b.Price, &b.Stock, &b.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &b, nil
}

func (r *BookRepo) List(ctx context.Context, userID int64, limit, offset int) ([]*entity.Book, error) {
	qb := psql.Select(bookColumns).From("libros").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("titulo", "isbn")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list libros: %w", err)
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list libros", err)
	}
	defer rows.Close()
	var out []*entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ISBN, &b.UserID, &b.Title, &b.Price, &b.Stock, &b.CreatedAt); err != nil {
			return nil, wrap("scan libro", err)
		}
		out = append(out, &b)
	}
	return out, wrap("list libros", rows.Err())
}

// UpdateStock fija el stock; el CHECK (stock >= 0) de la tabla rechaza valores negativos.
func (r *BookRepo) UpdateStock(ctx context.Context, userID int64, isbn string, stock int) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx, `UPDATE libros SET stock = $3 WHERE user_id = $1 AND isbn = $2`, userID, isbn, stock)
	if err != nil {
		return wrap("update stock libro", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("No existe el libro con isbn %s", isbn)
	}
	return nil
}
