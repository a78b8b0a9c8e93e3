package utils

import (
	"errors"

	apperrors "refnet/internal/errors"
	"refnet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// Invalid reports request validation failures field by field.
func Invalid(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": "validation failed", "fields": verrs})
	}
	return BadRequest(c, err.Error())
}

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindValidation:        fiber.StatusBadRequest,
	apperrors.KindNotFound:          fiber.StatusNotFound,
	apperrors.KindInsufficientFunds: fiber.StatusUnprocessableEntity,
	apperrors.KindConflict:          fiber.StatusConflict,
}

// Error renders a service error. Persistence failures never leak their cause.
func Error(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		return InternalError(c, "internal server error")
	}
	status, ok := statusByKind[de.Kind]
	if !ok {
		return InternalError(c, "internal server error")
	}
	return Respond(c, status, fiber.Map{"error": de.Message, "code": de.Code})
}
