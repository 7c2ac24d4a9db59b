package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/reconcile"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn en una transacción con los repositorios del catálogo.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		books repository.BookRepository,
		personas repository.PersonaRepository,
	) error) error
}

// BookUseCase casos de uso del catálogo de libros.
type BookUseCase struct {
	txRunner CatalogTxRunner
	books    repository.BookRepository
	personas repository.PersonaRepository
}

// NewBookUseCase construye el caso de uso.
func NewBookUseCase(txRunner CatalogTxRunner, books repository.BookRepository, personas repository.PersonaRepository) *BookUseCase {
	return &BookUseCase{txRunner: txRunner, books: books, personas: personas}
}

// Create da de alta el libro y lo asocia a sus autores e ilustradores en una sola transacción.
func (uc *BookUseCase) Create(ctx context.Context, userID int64, in dto.CreateBookRequest) (*dto.BookResponse, error) {
	isbn := strings.TrimSpace(in.ISBN)
	if isbn == "" || strings.TrimSpace(in.Titulo) == "" {
		return nil, domain.NewValidationError("isbn y titulo son obligatorios")
	}
	if err := reconcile.CheckPrice(isbn, in.Precio); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.NewValidationError("el stock no puede ser negativo")
	}

	book := &entity.Book{
		ISBN:      isbn,
		UserID:    userID,
		Title:     strings.TrimSpace(in.Titulo),
		Price:     in.Precio,
		Stock:     in.Stock,
		CreatedAt: time.Now(),
	}
	var linked []entity.BookPersona
	err := uc.txRunner.RunCatalog(ctx, func(books repository.BookRepository, personas repository.PersonaRepository) error {
		existing, err := books.GetByISBN(ctx, userID, isbn)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe el libro con isbn %s", domain.ErrDuplicate, isbn)
		}
		if err := books.Create(ctx, book); err != nil {
			return err
		}
		for _, ref := range rolesOf(in) {
			p, err := personas.GetByID(ctx, userID, ref.id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NewNotFoundError("No existe la persona con id %d", ref.id)
			}
			bp := entity.BookPersona{Persona: *p, ISBN: isbn, Role: ref.role}
			if err := personas.AddToBook(ctx, bp); err != nil {
				return err
			}
			linked = append(linked, bp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBookResponse(book, linked), nil
}

// Get devuelve el libro con sus personas.
func (uc *BookUseCase) Get(ctx context.Context, userID int64, isbn string) (*dto.BookResponse, error) {
	book, err := uc.books.GetByISBN(ctx, userID, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.NewNotFoundError("No existe el libro con isbn %s", isbn)
	}
	bps, err := uc.personas.ListByBook(ctx, userID, isbn)
	if err != nil {
		return nil, err
	}
	return toBookResponse(book, bps), nil
}

// List lista los libros del usuario.
func (uc *BookUseCase) List(ctx context.Context, userID int64, page dto.PageRequest) ([]dto.BookResponse, error) {
	page.DefaultPage()
	list, err := uc.books.List(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBookResponse(b, nil))
	}
	return out, nil
}

// AddStock suma cantidad al stock de la editorial (reimpresión o devolución).
func (uc *BookUseCase) AddStock(ctx context.Context, userID int64, isbn string, in dto.AddStockRequest) (*dto.BookResponse, error) {
	if in.Cantidad <= 0 {
		return nil, domain.NewValidationError("la cantidad debe ser mayor a cero")
	}
	var book *entity.Book
	err := uc.txRunner.RunCatalog(ctx, func(books repository.BookRepository, _ repository.PersonaRepository) error {
		b, err := books.GetByISBNForUpdate(ctx, userID, isbn)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NewNotFoundError("No existe el libro con isbn %s", isbn)
		}
		b.Stock += in.Cantidad
		if err := books.UpdateStock(ctx, userID, isbn, b.Stock); err != nil {
			return err
		}
		book = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBookResponse(book, nil), nil
}

type personaRef struct {
	id   int64
	role string
}

func rolesOf(in dto.CreateBookRequest) []personaRef {
	refs := make([]personaRef, 0, len(in.Autores)+len(in.Ilustradores))
	for _, id := range in.Autores {
		refs = append(refs, personaRef{id: id, role: entity.RoleAutor})
	}
	for _, id := range in.Ilustradores {
		refs = append(refs, personaRef{id: id, role: entity.RoleIlustrador})
	}
	return refs
}

func toBookResponse(b *entity.Book, bps []entity.BookPersona) *dto.BookResponse {
	autores, ilustradores := entity.SplitByRole(bps)
	return &dto.BookResponse{
		ISBN:         b.ISBN,
		Titulo:       b.Title,
		Precio:       b.Price,
		Stock:        b.Stock,
		Autores:      toPersonaResponses(autores),
		Ilustradores: toPersonaResponses(ilustradores),
	}
}
