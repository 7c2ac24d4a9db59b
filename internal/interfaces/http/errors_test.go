package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/reconcile"
	apphttp "github.com/epublit/epublit-api/internal/interfaces/http"
	"github.com/epublit/epublit-api/pkg/logger"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		messages []string
	}{
		{"validación con varios mensajes", &domain.ValidationError{Messages: []string{"a", "b"}}, 400, []string{"a", "b"}},
		{"stock insuficiente", fmt.Errorf("consignar: %w", reconcile.InsufficientStockError("Rayuela", "111")), 400,
			[]string{"El libro Rayuela con isbn 111 no tiene suficiente stock"}},
		{"período superpuesto", reconcile.PeriodOverlapError(), 400, []string{"Ya existe una liquidacion en el periodo seleccionado"}},
		{"no encontrado", domain.NewNotFoundError("No existe el cliente con id %d", 9), 404, []string{"No existe el cliente con id 9"}},
		{"credenciales", fmt.Errorf("login: %w", fmt.Errorf("%w: usuario o contraseña incorrectos", domain.ErrUnauthorized)), 401,
			[]string{"usuario o contraseña incorrectos"}},
		{"duplicado", fmt.Errorf("create book: %w", fmt.Errorf("%w: ya existe el libro con isbn 111", domain.ErrDuplicate)), 409,
			[]string{"ya existe el libro con isbn 111"}},
		{"duplicado sin detalle", domain.ErrDuplicate, 409, []string{"recurso duplicado"}},
		{"transitorio", &domain.TransientError{Err: context.DeadlineExceeded}, 503, []string{domain.ErrTransient.Error()}},
		{"desconocido no filtra detalle", errors.New("pq: password authentication failed for user postgres"), 500,
			[]string{"error interno del servidor"}},
		{"error de fiber", fiber.ErrMethodNotAllowed, 405, []string{"Method Not Allowed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.FromWriter(&logs))})
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			got := make([]string, 0, len(body.Errors))
			for _, e := range body.Errors {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.messages, got)

			if tt.status == fiber.StatusInternalServerError {
				assert.Contains(t, logs.String(), "password authentication failed")
			}
			if tt.status == fiber.StatusServiceUnavailable {
				assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))
			}
		})
	}
}
