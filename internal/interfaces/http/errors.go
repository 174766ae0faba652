package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/pkg/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// statusFor traduce el tipo de error de dominio a status HTTP. 0 = error no esperado.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindConflict, domain.KindState:
		return fiber.StatusConflict
	}
	return 0
}

// writeError responde {"code","message"}. Los errores no esperados se loguean y salen como 500 INTERNAL.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if status := statusFor(err); status != 0 {
		return c.Status(status).JSON(dto.ErrorResponse{Code: domain.CodeOf(err), Message: err.Error()})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// bindJSON parsea el body y aplica las reglas `validate`.
// Un error de dominio al decodificar (p. ej. una cantidad ilegible) se devuelve tal cual.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		if domain.KindOf(err) != "" {
			return err
		}
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// paramID lee un id numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s inválido", domain.ErrInvalidInput, name)
	}
	return int64(id), nil
}

// fiberErrorHandler para errores que no pasan por writeError (404 de ruta, panics recuperados).
func fiberErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: httpErrorCode(fe.Code), Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}

func httpErrorCode(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	return "HTTP_ERROR"
}
