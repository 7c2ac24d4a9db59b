package repository

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByCUIT(ctx context.Context, cuit string) (*entity.User, error)
}
