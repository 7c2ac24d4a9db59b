package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/application/dto"
	apphttp "github.com/epublit/epublit-api/internal/interfaces/http"
	pkgjwt "github.com/epublit/epublit-api/pkg/jwt"
	"github.com/epublit/epublit-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "epublit-test"
	testExpMin    = 60
)

// buildProtectedApp arma una app mínima con AuthMiddleware y un handler que devuelve los locals.
func buildProtectedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"username": apphttp.GetUsername(c),
		})
	})
	return app
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_TokenValido(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, 42, "editorial", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doProtected(t, buildProtectedApp(), "Bearer "+tok)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(42), body.UserID)
	assert.Equal(t, "editorial", body.Username)
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	otro, err := pkgjwt.Generate("otro-secret", 42, "editorial", testIssuer, testExpMin)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"sin header", "", "header Authorization requerido"},
		{"sin esquema Bearer", "Token abc", "formato esperado Bearer <token>"},
		{"token vacío", "Bearer   ", "token vacío"},
		{"firma inválida", "Bearer " + otro, "token inválido o expirado"},
		{"basura", "Bearer abc.def.ghi", "token inválido o expirado"},
	}
	app := buildProtectedApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doProtected(t, app, tt.header)
			defer resp.Body.Close()
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.message, body.Errors[0].Message)
		})
	}
}
