package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// Códigos de error del sobre de respuesta.
const (
	CodeInvalidBody   = "INVALID_BODY"
	CodeValidation    = "VALIDATION"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeMissingToken  = "MISSING_TOKEN"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL"
	genericInternal   = "error interno del servidor"
	invalidBodyMsg    = "cuerpo inválido"
	invalidIDParamMsg = "id inválido"
)

func respond(c *fiber.Ctx, status int, msg string, data interface{}) error {
	return c.Status(status).JSON(dto.APIResponse{
		Message:    msg,
		Status:     status < 400,
		StatusCode: status,
		Data:       data,
	})
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.APIResponse{
		Message:    msg,
		Status:     false,
		StatusCode: status,
		Code:       code,
	})
}

// statusFor traduce la categoría del error a código HTTP.
// ErrInvalidToken se revisa antes que ErrAuthentication: es un 400.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return fiber.StatusBadRequest, CodeInvalidToken
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrAuthentication):
		return fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrAuthorization):
		return fiber.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, CodeConflict
	}
	return fiber.StatusInternalServerError, CodeInternal
}

// handleError escribe la respuesta de error. Los 500 se registran con la causa
// y el cliente recibe un mensaje genérico.
func handleError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return fail(c, status, code, genericInternal)
	}
	return fail(c, status, code, domain.PublicMessage(err, err.Error()))
}

// paramID lee un parámetro de ruta entero positivo.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryID lee un query param entero; vacío equivale a 0.
func queryID(c *fiber.Ctx, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
