package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
	"github.com/epublit/epublit-api/pkg/afip"
)

// ClientUseCase casos de uso de clientes y su stock en consignación.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create valida la CUIT (dígito verificador) y rechaza duplicados del mismo usuario.
func (uc *ClientUseCase) Create(ctx context.Context, userID int64, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, domain.NewValidationError("nombre es obligatorio")
	}
	if err := afip.ValidateCUIT(in.CUIT); err != nil {
		return nil, domain.NewValidationError("CUIT inválida: %s", in.CUIT)
	}
	cuit := afip.NormalizeCUIT(in.CUIT)
	tipo := in.Tipo
	if tipo == "" {
		tipo = entity.ClientTypeInscripto
	}
	if tipo != entity.ClientTypeInscripto && tipo != entity.ClientTypeParticular {
		return nil, domain.NewValidationError("tipo de cliente inválido: %s", tipo)
	}

	existing, err := uc.repo.GetByCUIT(ctx, userID, cuit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un cliente con CUIT %s", domain.ErrDuplicate, cuit)
	}
	c := &entity.Client{
		UserID:     userID,
		Name:       name,
		CUIT:       cuit,
		Email:      in.Email,
		CondFiscal: in.CondFiscal,
		Type:       tipo,
		Address:    in.Domicilio,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

func (uc *ClientUseCase) Get(ctx context.Context, userID, id int64) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("No existe el cliente con id %d", id)
	}
	return toClientResponse(c), nil
}

func (uc *ClientUseCase) List(ctx context.Context, userID int64, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

// Stock devuelve los libros que el cliente tiene en consignación.
func (uc *ClientUseCase) Stock(ctx context.Context, userID, id int64) ([]dto.ClientStockResponse, error) {
	c, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("No existe el cliente con id %d", id)
	}
	rows, err := uc.repo.ListStock(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientStockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ClientStockResponse{ISBN: r.ISBN, Titulo: r.Title, Stock: r.Stock})
	}
	return out, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:         c.ID,
		Nombre:     c.Name,
		CUIT:       c.CUIT,
		Email:      c.Email,
		CondFiscal: c.CondFiscal,
		Tipo:       c.Type,
		Domicilio:  c.Address,
	}
}
