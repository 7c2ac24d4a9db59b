package sales

import (
	"context"
	"sort"
	"time"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/reconcile"
	"github.com/epublit/epublit-api/internal/domain/repository"
	"github.com/epublit/epublit-api/pkg/logger"
)

// UseCase registra las ventas que informan los clientes sobre libros en consignación.
type UseCase struct {
	txRunner TxRunner
	sales    repository.SaleRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, sales repository.SaleRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, sales: sales, log: log, now: time.Now}
}

// Register valida cada línea contra el stock en consignación del cliente (en orden, acumulando
// ISBN repetidos), descuenta ese stock y persiste la venta. Sin precio se usa el del libro.
// Una venta no puede caer en un período ya liquidado de su serie (usuario, ISBN, cliente):
// toma el mismo lock de serie que el alta de liquidaciones.
func (uc *UseCase) Register(ctx context.Context, userID int64, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Libros) == 0 {
		return nil, domain.NewValidationError("la venta debe incluir al menos un libro")
	}
	date := uc.now().UTC().Truncate(24 * time.Hour)
	if in.Fecha != "" {
		d, err := time.Parse(entity.DateLayout, in.Fecha)
		if err != nil {
			return nil, domain.NewValidationError("fecha inválida: %q", in.Fecha)
		}
		date = d
	}
	for _, item := range in.Libros {
		if item.Precio == nil {
			continue
		}
		if err := reconcile.CheckPrice(item.ISBN, *item.Precio); err != nil {
			return nil, err
		}
	}

	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		books repository.BookRepository,
		clients repository.ClientRepository,
		sales repository.SaleRepository,
		settlements repository.SettlementRepository,
	) error {
		client, err := clients.GetByID(ctx, userID, in.IDCliente)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NewNotFoundError("No existe el cliente con id %d", in.IDCliente)
		}

		// Locks de serie en orden de ISBN, antes de tocar el stock del cliente.
		day := entity.Period{Start: date, End: date}
		for _, isbn := range distinctSorted(in.Libros) {
			series := entity.SettlementSeries{UserID: userID, ISBN: isbn, ClientID: client.ID}
			if err := settlements.LockSeries(ctx, series); err != nil {
				return err
			}
			settled, err := settlements.ListOverlapping(ctx, series, day)
			if err != nil {
				return err
			}
			if len(settled) > 0 {
				return reconcile.SettledSaleError(isbn, date.Format(entity.DateLayout))
			}
		}

		ledger := reconcile.NewStockLedger()
		s := &entity.Sale{UserID: userID, ClientID: client.ID, Date: date}
		for _, item := range in.Libros {
			book, err := books.GetByISBN(ctx, userID, item.ISBN)
			if err != nil {
				return err
			}
			if book == nil {
				return domain.NewNotFoundError("No existe el libro con isbn %s", item.ISBN)
			}
			price := book.Price
			if item.Precio != nil {
				price = *item.Precio
			}
			cs, err := clients.GetStockForUpdate(ctx, client.ID, book.ISBN)
			if err != nil {
				return err
			}
			if !ledger.Take(book.ISBN, cs.Stock, item.Cantidad) {
				return reconcile.InsufficientClientStockError(client.Name, book.Title, book.ISBN)
			}
			s.Lines = append(s.Lines, entity.SaleLine{
				ISBN:      book.ISBN,
				Title:     book.Title,
				Quantity:  item.Cantidad,
				UnitPrice: price,
				Date:      date,
			})
		}

		for _, l := range s.Lines {
			if err := clients.AddStock(ctx, client.ID, l.ISBN, -l.Quantity); err != nil {
				return err
			}
		}
		if err := sales.Create(ctx, s); err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("user_id", userID).
		Int64("venta_id", sale.ID).
		Int64("cliente_id", sale.ClientID).
		Msg("venta registrada")
	return toResponse(sale), nil
}

// List lista las ventas del usuario, filtrables por cliente e ISBN.
func (uc *UseCase) List(ctx context.Context, userID int64, clientID int64, isbn string, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	rows, err := uc.sales.List(ctx, userID, repository.SaleFilter{
		ClientID: clientID,
		ISBN:     isbn,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, *toResponse(s))
	}
	return out, nil
}

// Get devuelve una venta con sus líneas.
func (uc *UseCase) Get(ctx context.Context, userID, id int64) (*dto.SaleResponse, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id de venta inválido")
	}
	s, err := uc.sales.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFoundError("No existe la venta con id %d", id)
	}
	return toResponse(s), nil
}

func distinctSorted(lines []dto.SaleLineRequest) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ISBN]; ok {
			continue
		}
		seen[l.ISBN] = struct{}{}
		out = append(out, l.ISBN)
	}
	sort.Strings(out)
	return out
}

func toResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:        s.ID,
		IDCliente: s.ClientID,
		Fecha:     s.Date.Format(entity.DateLayout),
		Total:     reconcile.Total(s.Lines),
		Libros:    make([]dto.SaleLineResponse, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		out.Libros = append(out.Libros, ToLineResponse(l))
	}
	return out
}

// ToLineResponse convierte una línea vendida al DTO.
func ToLineResponse(l entity.SaleLine) dto.SaleLineResponse {
	return dto.SaleLineResponse{
		IDVenta:     l.SaleID,
		ISBN:        l.ISBN,
		Titulo:      l.Title,
		Cantidad:    l.Quantity,
		PrecioVenta: l.UnitPrice,
		Subtotal:    l.Subtotal(),
		Fecha:       l.Date.Format(entity.DateLayout),
	}
}
