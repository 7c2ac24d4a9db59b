package http

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// los mensajes usan el nombre JSON del campo
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON parsea el body y lo valida. Todos los errores de validación se devuelven juntos.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("cuerpo de la petición inválido")
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("entrada inválida")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &domain.ValidationError{Messages: msgs}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	sized := fe.Kind() == reflect.String || fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", field)
	case "gt":
		return fmt.Sprintf("%s debe ser mayor a %s", field, fe.Param())
	case "min":
		if sized {
			return fmt.Sprintf("%s debe tener al menos %s %s", field, fe.Param(), unit(fe))
		}
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "max":
		if sized {
			return fmt.Sprintf("%s admite como máximo %s %s", field, fe.Param(), unit(fe))
		}
		return fmt.Sprintf("%s debe ser como máximo %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s no es un email válido", field)
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s debe tener formato AAAA-MM-DD", field)
	case "numeric":
		return fmt.Sprintf("%s debe ser numérico", field)
	default:
		return fmt.Sprintf("%s es inválido", field)
	}
}

func unit(fe validator.FieldError) string {
	if fe.Kind() == reflect.Slice {
		return "elementos"
	}
	return "caracteres"
}

// paramID lee un id numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("%s inválido", name)
	}
	return id, nil
}

// queryID lee un filtro numérico opcional; ausente es 0.
func queryID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("%s inválido", name)
	}
	return id, nil
}

// pageFrom lee limit/offset de la query string.
func pageFrom(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, domain.NewValidationError("paginación inválida")
	}
	if err := validateStruct(&p); err != nil {
		return p, err
	}
	p.DefaultPage()
	return p, nil
}
