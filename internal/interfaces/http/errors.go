package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/pkg/logger"
)

const genericMessage = "error interno del servidor"

// ErrorHandler traduce los errores de dominio a status HTTP y cuerpo {success: false, errors: [{message}]}.
// Los errores no clasificados se registran y se responden con un mensaje genérico.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, messages := classify(err)
		switch status {
		case fiber.StatusInternalServerError:
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		case fiber.StatusServiceUnavailable:
			log.Warn().Err(err).Str("path", c.Path()).Msg("falla transitoria")
			c.Set(fiber.HeaderRetryAfter, "1")
		}
		return c.Status(status).JSON(dto.NewErrorResponse(messages...))
	}
}

func classify(err error) (int, []string) {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Messages
	case errors.As(err, &nf):
		return fiber.StatusNotFound, []string{nf.Message}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, []string{detail(err, domain.ErrNotFound)}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, []string{detail(err, domain.ErrInvalidInput)}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, []string{detail(err, domain.ErrUnauthorized)}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, []string{detail(err, domain.ErrForbidden)}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, []string{detail(err, domain.ErrDuplicate)}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, []string{detail(err, domain.ErrConflict)}
	case domain.IsRetryable(err):
		return fiber.StatusServiceUnavailable, []string{domain.ErrTransient.Error()}
	case errors.As(err, &fe):
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, []string{genericMessage}
		}
		return fe.Code, []string{fe.Message}
	default:
		return fiber.StatusInternalServerError, []string{genericMessage}
	}
}

// detail devuelve el texto que sigue al sentinel ("recurso duplicado: ya existe..." -> "ya existe...")
// para no exponer los prefijos de operación internos.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}
