package usecase

import (
	"context"
	"strings"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

// PersonaUseCase alta y consulta de autores e ilustradores.
type PersonaUseCase struct {
	repo repository.PersonaRepository
}

// NewPersonaUseCase construye el caso de uso.
func NewPersonaUseCase(repo repository.PersonaRepository) *PersonaUseCase {
	return &PersonaUseCase{repo: repo}
}

func (uc *PersonaUseCase) Create(ctx context.Context, userID int64, in dto.CreatePersonaRequest) (*dto.PersonaResponse, error) {
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, domain.NewValidationError("nombre es obligatorio")
	}
	p := &entity.Persona{UserID: userID, Name: name, Email: in.Email, DNI: in.DNI}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toPersonaResponse(*p)
	return &out, nil
}

func (uc *PersonaUseCase) Get(ctx context.Context, userID, id int64) (*dto.PersonaResponse, error) {
	p, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("No existe la persona con id %d", id)
	}
	out := toPersonaResponse(*p)
	return &out, nil
}

func (uc *PersonaUseCase) List(ctx context.Context, userID int64) ([]dto.PersonaResponse, error) {
	list, err := uc.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PersonaResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPersonaResponse(*p))
	}
	return out, nil
}

func toPersonaResponse(p entity.Persona) dto.PersonaResponse {
	return dto.PersonaResponse{ID: p.ID, Nombre: p.Name, Email: p.Email, DNI: p.DNI}
}

func toPersonaResponses(list []entity.Persona) []dto.PersonaResponse {
	if len(list) == 0 {
		return nil
	}
	out := make([]dto.PersonaResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPersonaResponse(p))
	}
	return out
}
