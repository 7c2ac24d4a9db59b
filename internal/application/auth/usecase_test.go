package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/application/auth"
	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/testutil/memstore"
	"github.com/epublit/epublit-api/pkg/jwt"
)

const secret = "test-secret"

type fakePadron struct {
	taxpayers map[string]*ports.Taxpayer
	err       error
}

func (f *fakePadron) GetTaxpayer(_ context.Context, cuit string) (*ports.Taxpayer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.taxpayers[cuit], nil
}

func newUseCase(padron ports.PadronService) *auth.AuthUseCase {
	return auth.NewAuthUseCase(memstore.New().Users(), padron, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "epublit-api"})
}

func TestRegisterAndLogin(t *testing.T) {
	padron := &fakePadron{taxpayers: map[string]*ports.Taxpayer{
		"20173080329": {CUIT: "20173080329", RazonSocial: "Editorial Sur SA", CondFiscal: "IVA Responsable Inscripto"},
	}}
	uc := newUseCase(padron)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "sur", Password: "secreto123", Email: "sur@example.com", CUIT: "20-17308032-9"})
	require.NoError(t, err)
	assert.Equal(t, "20173080329", user.CUIT)
	assert.Equal(t, "Editorial Sur SA", user.RazonSocial)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "sur", Password: "secreto123"})
	require.NoError(t, err)
	id, username, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, "sur", username)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "sur", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Rejections(t *testing.T) {
	padron := &fakePadron{taxpayers: map[string]*ports.Taxpayer{
		"20173080329": {CUIT: "20173080329", RazonSocial: "Editorial Sur SA"},
	}}
	uc := newUseCase(padron)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "x", Password: "secreto123", CUIT: "20123456780"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "x", Password: "secreto123", CUIT: "20123456786"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "CUIT válida pero fuera del padrón")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "sur", Password: "secreto123", CUIT: "20173080329"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "sur", Password: "secreto123", CUIT: "20173080329"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "otro", Password: "secreto123", CUIT: "20173080329"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_PadronFailureIsPropagated(t *testing.T) {
	boom := errors.New("padrón caído")
	uc := newUseCase(&fakePadron{err: boom})

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Username: "sur", Password: "secreto123", CUIT: "20173080329"})
	assert.ErrorIs(t, err, boom)
}

func TestRegister_WithoutPadron(t *testing.T) {
	uc := newUseCase(nil)

	user, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Username: "sur", Password: "secreto123", CUIT: "20173080329"})
	require.NoError(t, err)
	assert.Empty(t, user.RazonSocial)
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	uc := newUseCase(nil)
	ctx := context.Background()

	for _, password := range []string{strings.Repeat("a", 73), strings.Repeat("ñ", 40)} {
		_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "sur", Password: password, CUIT: "20173080329"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "sur", Password: strings.Repeat("a", 72), CUIT: "20173080329"})
	require.NoError(t, err)
}
