package consignment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/reconcile"
	"github.com/epublit/epublit-api/internal/domain/repository"
	"github.com/epublit/epublit-api/pkg/files"
	"github.com/epublit/epublit-api/pkg/logger"
)

// UseCase registra consignaciones: descuenta stock de la editorial, lo suma al cliente
// y emite el remito, todo en una única transacción.
type UseCase struct {
	txRunner     TxRunner
	consignments repository.ConsignmentRepository
	personas     repository.PersonaRepository
	users        repository.UserRepository
	docs         ports.DocumentGenerator
	store        ports.FileStore
	baseURL      string
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. baseURL es la URL pública de los archivos.
func NewUseCase(
	txRunner TxRunner,
	consignments repository.ConsignmentRepository,
	personas repository.PersonaRepository,
	users repository.UserRepository,
	docs ports.DocumentGenerator,
	store ports.FileStore,
	baseURL string,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		consignments: consignments,
		personas:     personas,
		users:        users,
		docs:         docs,
		store:        store,
		baseURL:      baseURL,
		log:          log,
		now:          time.Now,
	}
}

// Create valida el stock de cada línea en el orden recibido y, si todas alcanzan,
// persiste la consignación con sus líneas. La primera línea sin stock aborta el lote.
func (uc *UseCase) Create(ctx context.Context, userID int64, in dto.CreateConsignmentRequest) (*dto.ConsignmentResponse, error) {
	if len(in.Libros) == 0 {
		return nil, domain.NewValidationError("la consignación debe incluir al menos un libro")
	}
	publisher, err := uc.publisher(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		result *entity.Consignment
		saved  string
	)
	err = uc.txRunner.RunConsignment(ctx, func(
		books repository.BookRepository,
		personas repository.PersonaRepository,
		clients repository.ClientRepository,
		consignments repository.ConsignmentRepository,
	) error {
		client, err := clients.GetByID(ctx, userID, in.IDCliente)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NewNotFoundError("No existe el cliente con id %d", in.IDCliente)
		}

		locked, err := lockBooks(ctx, books, userID, in.Libros)
		if err != nil {
			return err
		}

		ledger := reconcile.NewStockLedger()
		lines := make([]entity.ConsignmentLine, 0, len(in.Libros))
		for _, item := range in.Libros {
			if item.Cantidad <= 0 {
				return domain.NewValidationError("la cantidad del libro con isbn %s debe ser mayor a cero", item.ISBN)
			}
			book := locked[item.ISBN]
			if book == nil {
				return domain.NewNotFoundError("No existe el libro con isbn %s", item.ISBN)
			}
			if !ledger.Take(book.ISBN, book.Stock, item.Cantidad) {
				return reconcile.InsufficientStockError(book.Title, book.ISBN)
			}
			bps, err := personas.ListByBook(ctx, userID, book.ISBN)
			if err != nil {
				return err
			}
			autores, ilustradores := entity.SplitByRole(bps)
			lines = append(lines, entity.ConsignmentLine{
				Book:         *book,
				Quantity:     item.Cantidad,
				Authors:      autores,
				Illustrators: ilustradores,
			})
		}

		for _, isbn := range ledger.ISBNs() {
			left, _ := ledger.Remaining(isbn)
			if err := books.UpdateStock(ctx, userID, isbn, left); err != nil {
				return err
			}
		}
		for _, l := range lines {
			if err := clients.AddStock(ctx, client.ID, l.Book.ISBN, l.Quantity); err != nil {
				return err
			}
		}

		c := &entity.Consignment{
			UserID:   userID,
			ClientID: client.ID,
			Date:     uc.now(),
			Lines:    lines,
		}
		pdf, err := uc.docs.Remito(ctx, ports.RemitoData{
			Publisher: publisher,
			Client:    *client,
			Date:      c.Date,
			Lines:     lines,
		})
		if err != nil {
			return fmt.Errorf("generar remito: %w", err)
		}
		name := files.ArtifactName("remito", client.Name)
		if err := uc.store.Save(ctx, files.FolderRemitos, name, pdf); err != nil {
			return fmt.Errorf("guardar remito: %w", err)
		}
		saved = name
		c.RemitoPath = name

		if err := consignments.Create(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		uc.discard(ctx, saved)
		return nil, err
	}

	uc.log.Info().
		Int64("user_id", userID).
		Int64("consignacion_id", result.ID).
		Int64("cliente_id", result.ClientID).
		Int("unidades", result.TotalUnits()).
		Msg("consignación registrada")

	return uc.toResponse(result), nil
}

// List devuelve las consignaciones del usuario con los datos del cliente.
func (uc *UseCase) List(ctx context.Context, userID int64, clientID int64, page dto.PageRequest) ([]dto.ConsignmentSummaryResponse, error) {
	page.DefaultPage()
	rows, err := uc.consignments.List(ctx, userID, repository.ConsignmentFilter{
		ClientID: clientID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConsignmentSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ConsignmentSummaryResponse{
			ID:            r.ID,
			Fecha:         r.Date.Format(entity.DateLayout),
			RemitoPath:    files.PublicURL(uc.baseURL, files.FolderRemitos, r.RemitoPath),
			IDCliente:     r.ClientID,
			NombreCliente: r.ClientName,
			CUIT:          r.CUIT,
			Email:         r.Email,
			CondFiscal:    r.CondFiscal,
			Tipo:          r.ClientType,
		})
	}
	return out, nil
}

// Get devuelve la consignación con sus libros y personas.
func (uc *UseCase) Get(ctx context.Context, userID, id int64) (*dto.ConsignmentResponse, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id de consignación inválido")
	}
	c, err := uc.consignments.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("No existe la consignación con id %d", id)
	}
	lines, err := uc.consignments.ListLines(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		bps, err := uc.personas.ListByBook(ctx, userID, lines[i].Book.ISBN)
		if err != nil {
			return nil, err
		}
		lines[i].Authors, lines[i].Illustrators = entity.SplitByRole(bps)
	}
	c.Lines = lines
	return uc.toResponse(c), nil
}

// lockBooks bloquea (FOR UPDATE) cada libro distinto del lote en orden de ISBN, así dos lotes
// con los mismos libros en distinto orden no se bloquean en cruz. Un ISBN inexistente queda en nil.
func lockBooks(ctx context.Context, books repository.BookRepository, userID int64, items []dto.BookQuantity) (map[string]*entity.Book, error) {
	isbns := make([]string, 0, len(items))
	locked := make(map[string]*entity.Book, len(items))
	for _, item := range items {
		if _, ok := locked[item.ISBN]; !ok {
			locked[item.ISBN] = nil
			isbns = append(isbns, item.ISBN)
		}
	}
	sort.Strings(isbns)
	for _, isbn := range isbns {
		book, err := books.GetByISBNForUpdate(ctx, userID, isbn)
		if err != nil {
			return nil, err
		}
		locked[isbn] = book
	}
	return locked, nil
}

func (uc *UseCase) publisher(ctx context.Context, userID int64) (ports.Publisher, error) {
	if uc.users == nil {
		return ports.Publisher{}, nil
	}
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return ports.Publisher{}, err
	}
	return ports.PublisherFromUser(u), nil
}

// discard borra un remito ya guardado cuya transacción no llegó a confirmarse.
func (uc *UseCase) discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := uc.store.Delete(context.WithoutCancel(ctx), files.FolderRemitos, name); err != nil {
		uc.log.Warn().Err(err).Str("archivo", name).Msg("no se pudo borrar el remito huérfano")
	}
}

func (uc *UseCase) toResponse(c *entity.Consignment) *dto.ConsignmentResponse {
	out := &dto.ConsignmentResponse{
		ID:         c.ID,
		Fecha:      c.Date.Format(entity.DateLayout),
		IDCliente:  c.ClientID,
		RemitoPath: files.PublicURL(uc.baseURL, files.FolderRemitos, c.RemitoPath),
		Libros:     make([]dto.ConsignmentLineResponse, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		out.Libros = append(out.Libros, dto.ConsignmentLineResponse{
			ISBN:         l.Book.ISBN,
			Titulo:       l.Book.Title,
			Cantidad:     l.Quantity,
			Autores:      toPersonas(l.Authors),
			Ilustradores: toPersonas(l.Illustrators),
		})
	}
	return out
}

func toPersonas(list []entity.Persona) []dto.PersonaResponse {
	if len(list) == 0 {
		return nil
	}
	out := make([]dto.PersonaResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PersonaResponse{ID: p.ID, Nombre: p.Name, Email: p.Email, DNI: p.DNI})
	}
	return out
}
