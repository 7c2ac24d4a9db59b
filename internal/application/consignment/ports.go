package consignment

import (
	"context"

	"github.com/epublit/epublit-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a esa tx.
// Si fn devuelve error se hace rollback: ninguna línea ni descuento de stock queda persistido.
type TxRunner interface {
	RunConsignment(ctx context.Context, fn func(
		books repository.BookRepository,
		personas repository.PersonaRepository,
		clients repository.ClientRepository,
		consignments repository.ConsignmentRepository,
	) error) error
}
