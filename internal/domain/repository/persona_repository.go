package repository

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// PersonaRepository define el puerto para autores e ilustradores.
type PersonaRepository interface {
	Create(ctx context.Context, p *entity.Persona) error
	GetByID(ctx context.Context, userID, id int64) (*entity.Persona, error)
	List(ctx context.Context, userID int64) ([]*entity.Persona, error)
	AddToBook(ctx context.Context, bp entity.BookPersona) error
	// ListByBook devuelve las personas del libro ordenadas por rol y nombre.
	ListByBook(ctx context.Context, userID int64, isbn string) ([]entity.BookPersona, error)
}
