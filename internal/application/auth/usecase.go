package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
	"github.com/epublit/epublit-api/pkg/afip"
	"github.com/epublit/epublit-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	padron   ports.PadronService
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. padron puede ser nil: en ese caso
// no se consulta AFIP y los datos fiscales quedan vacíos.
func NewAuthUseCase(userRepo repository.UserRepository, padron ports.PadronService, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, padron: padron, jwtCfg: jwtCfg}
}

const maxPasswordBytes = 72

// RegisterUser valida la CUIT, la busca en el padrón, hashea el password con bcrypt y persiste.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.NewValidationError("username y password son obligatorios")
	}
	// bcrypt sólo admite hasta 72 bytes; el tag max cuenta caracteres, no bytes.
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.NewValidationError("password admite como máximo %d bytes", maxPasswordBytes)
	}
	if err := afip.ValidateCUIT(in.CUIT); err != nil {
		return nil, domain.NewValidationError("CUIT inválida: %s", in.CUIT)
	}
	cuit := afip.NormalizeCUIT(in.CUIT)

	if existing, err := uc.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: el usuario %s ya existe", domain.ErrDuplicate, username)
	}
	if existing, err := uc.userRepo.GetByCUIT(ctx, cuit); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un usuario con CUIT %s", domain.ErrDuplicate, cuit)
	}

	user := &entity.User{
		Username:  username,
		Email:     in.Email,
		CUIT:      cuit,
		CreatedAt: time.Now(),
	}
	if uc.padron != nil {
		tp, err := uc.padron.GetTaxpayer(ctx, cuit)
		if err != nil {
			return nil, fmt.Errorf("padrón AFIP: %w", err)
		}
		if tp == nil {
			return nil, domain.NewNotFoundError("No se encontró la CUIT %s en el padrón de AFIP", cuit)
		}
		user.RazonSocial = tp.RazonSocial
		user.CondFiscal = tp.CondFiscal
		user.Domicilio = tp.Domicilio
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ErrBadCredentials se mapea a 401.
var ErrBadCredentials = fmt.Errorf("%w: usuario o contraseña incorrectos", domain.ErrUnauthorized)

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		CUIT:        u.CUIT,
		RazonSocial: u.RazonSocial,
		CondFiscal:  u.CondFiscal,
		Domicilio:   u.Domicilio,
	}
}
