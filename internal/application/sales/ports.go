package sales

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/repository"
)

// TxRunner ejecuta el registro de una venta dentro de una transacción.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		books repository.BookRepository,
		clients repository.ClientRepository,
		sales repository.SaleRepository,
		settlements repository.SettlementRepository,
	) error) error
}
