package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	base
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier, timeout time.Duration) *UserRepo {
	return &UserRepo{base{q: q, timeout: timeout}}
}

const userColumns = `id, username, email, cuit, password_hash, razon_social, cond_fiscal, domicilio, created_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	query := `
		INSERT INTO users (username, email, cuit, password_hash, razon_social, cond_fiscal, domicilio)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		u.Username, u.Email, u.CUIT, u.PasswordHash, u.RazonSocial, u.CondFiscal, u.Domicilio,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario o la CUIT ya están registrados", domain.ErrDuplicate)
		}
		return wrap("insert user", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "get user por username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetByCUIT(ctx context.Context, cuit string) (*entity.User, error) {
	return r.findOne(ctx, "get user por cuit", `SELECT `+userColumns+` FROM users WHERE cuit = $1`, cuit)
}

func (r *UserRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.CUIT, &u.PasswordHash, &u.RazonSocial, &u.CondFiscal, &u.Domicilio, &u.CreatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &u, nil
}
