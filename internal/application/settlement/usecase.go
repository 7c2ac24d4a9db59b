package settlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/application/sales"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/reconcile"
	"github.com/epublit/epublit-api/internal/domain/repository"
	"github.com/epublit/epublit-api/pkg/files"
	"github.com/epublit/epublit-api/pkg/logger"
)

// UseCase liquida las ventas de un libro a un cliente en un período.
// Los períodos de una misma serie (usuario, libro, cliente) no pueden solaparse.
type UseCase struct {
	txRunner    TxRunner
	settlements repository.SettlementRepository
	books       repository.BookRepository
	personas    repository.PersonaRepository
	sales       repository.SaleRepository
	users       repository.UserRepository
	docs        ports.DocumentGenerator
	store       ports.FileStore
	baseURL     string
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	settlements repository.SettlementRepository,
	books repository.BookRepository,
	personas repository.PersonaRepository,
	sales repository.SaleRepository,
	users repository.UserRepository,
	docs ports.DocumentGenerator,
	store ports.FileStore,
	baseURL string,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		settlements: settlements,
		books:       books,
		personas:    personas,
		sales:       sales,
		users:       users,
		docs:        docs,
		store:       store,
		baseURL:     baseURL,
		log:         log,
		now:         time.Now,
	}
}

// Create valida el período, verifica que no se solape con otra liquidación de la serie,
// totaliza las ventas del período y persiste la liquidación con su documento.
// El chequeo de solapamiento y el insert ocurren bajo el mismo bloqueo de serie.
func (uc *UseCase) Create(ctx context.Context, userID int64, in dto.CreateSettlementRequest) (*dto.SettlementResponse, error) {
	period, err := entity.ParsePeriod(in.FechaInicial, in.FechaFinal)
	if err != nil {
		return nil, &domain.ValidationError{Messages: []string{err.Error()}}
	}
	isbn := strings.TrimSpace(in.ISBN)
	if isbn == "" {
		return nil, domain.NewValidationError("isbn es obligatorio")
	}
	publisher, err := uc.publisher(ctx, userID)
	if err != nil {
		return nil, err
	}
	series := entity.SettlementSeries{UserID: userID, ISBN: isbn, ClientID: in.IDCliente}

	var (
		result *entity.Settlement
		saved  string
	)
	err = uc.txRunner.RunSettlement(ctx, func(
		books repository.BookRepository,
		clients repository.ClientRepository,
		settlements repository.SettlementRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := settlements.LockSeries(ctx, series); err != nil {
			return err
		}
		existing, err := settlements.ListOverlapping(ctx, series, period)
		if err != nil {
			return err
		}
		if !reconcile.ValidPeriod(existing, period) {
			return reconcile.PeriodOverlapError()
		}

		book, err := books.GetByISBN(ctx, userID, isbn)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.NewNotFoundError("No existe el libro con isbn %s", isbn)
		}
		client, err := clients.GetByID(ctx, userID, in.IDCliente)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NewNotFoundError("No existe el cliente con id %d", in.IDCliente)
		}

		lines, err := saleRepo.ListLines(ctx, series, period)
		if err != nil {
			return err
		}
		total := reconcile.Total(lines)

		pdf, err := uc.docs.Settlement(ctx, ports.SettlementData{
			Publisher: publisher,
			Client:    *client,
			Book:      *book,
			Period:    period,
			Lines:     lines,
			Total:     total,
		})
		if err != nil {
			return fmt.Errorf("generar liquidación: %w", err)
		}
		name := files.ArtifactName("liquidacion", client.Name)
		if err := uc.store.Save(ctx, files.FolderLiquidaciones, name, pdf); err != nil {
			return fmt.Errorf("guardar liquidación: %w", err)
		}
		saved = name

		s := &entity.Settlement{
			UserID:    userID,
			ISBN:      book.ISBN,
			ClientID:  client.ID,
			Period:    period,
			Total:     total,
			FilePath:  name,
			CreatedAt: uc.now(),
		}
		if err := settlements.Create(ctx, s); err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		uc.discard(ctx, saved)
		return nil, err
	}

	uc.log.Info().
		Int64("user_id", userID).
		Int64("liquidacion_id", result.ID).
		Str("isbn", result.ISBN).
		Int64("cliente_id", result.ClientID).
		Str("periodo", result.Period.String()).
		Str("total", result.Total.String()).
		Msg("liquidación registrada")

	out := uc.toResponse(result)
	return &out, nil
}

// Get devuelve la liquidación con su libro y el detalle de ventas del período.
func (uc *UseCase) Get(ctx context.Context, userID, id int64) (*dto.SettlementDetailResponse, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id de liquidación inválido")
	}
	s, err := uc.settlements.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFoundError("No existe la liquidación con id %d", id)
	}
	book, err := uc.books.GetByISBN(ctx, userID, s.ISBN)
	if err != nil {
		return nil, err
	}
	lines, err := uc.sales.ListLines(ctx, s.Series(), s.Period)
	if err != nil {
		return nil, err
	}

	out := &dto.SettlementDetailResponse{
		SettlementResponse: uc.toResponse(s),
		Ventas:             make([]dto.SaleLineResponse, 0, len(lines)),
	}
	if book != nil {
		bps, err := uc.personas.ListByBook(ctx, userID, book.ISBN)
		if err != nil {
			return nil, err
		}
		autores, ilustradores := entity.SplitByRole(bps)
		out.Libro = &dto.BookResponse{
			ISBN:         book.ISBN,
			Titulo:       book.Title,
			Precio:       book.Price,
			Stock:        book.Stock,
			Autores:      toPersonas(autores),
			Ilustradores: toPersonas(ilustradores),
		}
	}
	for _, l := range lines {
		out.Ventas = append(out.Ventas, sales.ToLineResponse(l))
	}
	return out, nil
}

// List lista las liquidaciones del usuario, filtrables por ISBN y cliente.
func (uc *UseCase) List(ctx context.Context, userID int64, isbn string, clientID int64, page dto.PageRequest) ([]dto.SettlementResponse, error) {
	page.DefaultPage()
	rows, err := uc.settlements.List(ctx, userID, repository.SettlementFilter{
		ISBN:     isbn,
		ClientID: clientID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettlementResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, uc.toResponse(s))
	}
	return out, nil
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

func (uc *UseCase) discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := uc.store.Delete(context.WithoutCancel(ctx), files.FolderLiquidaciones, name); err != nil {
		uc.log.Warn().Err(err).Str("archivo", name).Msg("no se pudo borrar la liquidación huérfana")
	}
}

func (uc *UseCase) toResponse(s *entity.Settlement) dto.SettlementResponse {
	return dto.SettlementResponse{
		ID:           s.ID,
		ISBN:         s.ISBN,
		IDCliente:    s.ClientID,
		FechaInicial: s.Period.Start.Format(entity.DateLayout),
		FechaFinal:   s.Period.End.Format(entity.DateLayout),
		Total:        s.Total,
		FilePath:     files.PublicURL(uc.baseURL, files.FolderLiquidaciones, s.FilePath),
	}
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
