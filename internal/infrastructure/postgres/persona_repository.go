package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

var _ repository.PersonaRepository = (*PersonaRepo)(nil)

// PersonaRepo autores e ilustradores.
type PersonaRepo struct {
	base
}

func NewPersonaRepository(q Querier, timeout time.Duration) *PersonaRepo {
	return &PersonaRepo{base{q: q, timeout: timeout}}
}

func (r *PersonaRepo) Create(ctx context.Context, p *entity.Persona) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO personas (user_id, nombre, email, dni)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, p.UserID, p.Name, p.Email, p.DNI).Scan(&p.ID); err != nil {
		return wrap("insert persona", err)
	}
	return nil
}

func (r *PersonaRepo) GetByID(ctx context.Context, userID, id int64) (*entity.Persona, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var p entity.Persona
	err := r.q.QueryRow(ctx, `SELECT id, user_id, nombre, email, dni FROM personas WHERE user_id = $1 AND id = $2`, userID, id).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.DNI)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("get persona", err)
	}
	return &p, nil
}

func (r *PersonaRepo) List(ctx context.Context, userID int64) ([]*entity.Persona, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, `SELECT id, user_id, nombre, email, dni FROM personas WHERE user_id = $1 ORDER BY nombre, id`, userID)
	if err != nil {
		return nil, wrap("list personas", err)
	}
	defer rows.Close()
	var out []*entity.Persona
	for rows.Next() {
		var p entity.Persona
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.DNI); err != nil {
			return nil, wrap("scan persona", err)
		}
		out = append(out, &p)
	}
	return out, wrap("list personas", rows.Err())
}

func (r *PersonaRepo) AddToBook(ctx context.Context, bp entity.BookPersona) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO libros_personas (user_id, isbn, persona_id, tipo)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, bp.UserID, bp.ISBN, bp.ID, bp.Role); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la persona %d ya es %s del libro %s", domain.ErrDuplicate, bp.ID, bp.Role, bp.ISBN)
		}
		if isForeignKeyViolation(err) {
			return domain.NewNotFoundError("No existe el libro con isbn %s", bp.ISBN)
		}
		return wrap("insert libro_persona", err)
	}
	return nil
}

// ListByBook devuelve las personas del libro ordenadas por rol y nombre.
func (r *PersonaRepo) ListByBook(ctx context.Context, userID int64, isbn string) ([]entity.BookPersona, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		SELECT p.id, p.user_id, p.nombre, p.email, p.dni, lp.isbn, lp.tipo
		FROM libros_personas lp
		JOIN personas p ON p.id = lp.persona_id
		WHERE lp.user_id = $1 AND lp.isbn = $2
		ORDER BY lp.tipo, p.nombre`
	rows, err := r.q.Query(ctx, query, userID, isbn)
	if err != nil {
		return nil, wrap("list personas de libro", err)
	}
	defer rows.Close()
	var out []entity.BookPersona
	for rows.Next() {
		var bp entity.BookPersona
		if err := rows.Scan(&bp.ID, &bp.UserID, &bp.Name, &bp.Email, &bp.DNI, &bp.ISBN, &bp.Role); err != nil {
			return nil, wrap("scan persona de libro", err)
		}
		out = append(out, bp)
	}
	return out, wrap("list personas de libro", rows.Err())
}
