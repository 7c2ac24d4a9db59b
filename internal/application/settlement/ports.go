package settlement

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/repository"
)

// TxRunner ejecuta el alta de una liquidación dentro de una transacción. El bloqueo de la serie
// tomado en fn se mantiene hasta el commit o rollback.
type TxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		books repository.BookRepository,
		clients repository.ClientRepository,
		settlements repository.SettlementRepository,
		sales repository.SaleRepository,
	) error) error
}
