package repository

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// BookRepository define el puerto de persistencia para libros. Todas las consultas se acotan por usuario.
// Los Get devuelven (nil, nil) si el libro no existe.
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	GetByISBN(ctx context.Context, userID int64, isbn string) (*entity.Book, error)
	// GetByISBNForUpdate bloquea la fila del libro hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetByISBNForUpdate(ctx context.Context, userID int64, isbn string) (*entity.Book, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]*entity.Book, error)
	UpdateStock(ctx context.Context, userID int64, isbn string, stock int) error
}
