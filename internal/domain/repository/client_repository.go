package repository

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/entity"
)

// ClientRepository define el puerto para clientes y su stock en consignación.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, userID, id int64) (*entity.Client, error)
	GetByCUIT(ctx context.Context, userID int64, cuit string) (*entity.Client, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]*entity.Client, error)

	ListStock(ctx context.Context, userID, clientID int64) ([]entity.ClientStock, error)
	// GetStockForUpdate bloquea la fila de stock del cliente; sin fila devuelve Stock 0.
	GetStockForUpdate(ctx context.Context, clientID int64, isbn string) (*entity.ClientStock, error)
	// AddStock suma delta (positivo o negativo) al stock del cliente para el ISBN.
	AddStock(ctx context.Context, clientID int64, isbn string, delta int) error
}
