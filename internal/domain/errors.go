package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPeriodOverlap     = errors.New("ya existe una liquidacion en el periodo seleccionado")
	ErrTransient         = errors.New("error transitorio, reintente")
)

// ValidationError agrupa uno o más mensajes de validación presentables al usuario.
// errors.Is(err, ErrInvalidInput) es siempre verdadero; Err precisa la causa (p. ej. ErrInsufficientStock).
type ValidationError struct {
	Messages []string
	Err      error
}

// NewValidationError crea un ValidationError con un único mensaje.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Messages: []string{fmt.Sprintf(format, args...)}}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundError indica qué recurso faltó.
type NotFoundError struct {
	Message string
}

// NewNotFoundError crea un NotFoundError con el mensaje formateado.
func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TransientError envuelve fallas de infraestructura reintentables
// (conexión caída, timeout, conflicto de serialización, deadlock).
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transitorio: " + e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// IsRetryable indica si err es una falla transitoria.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
