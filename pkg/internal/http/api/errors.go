package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/snapit-app/server/pkg/internal/services"
)

// remapError translates the services failure taxonomy into response
// statuses. Anything unexpected surfaces as a transient 500.
func remapError(err error) *fiber.Error {
	var status int
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidOperation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredential),
		errors.Is(err, services.ErrTokenMissing),
		errors.Is(err, services.ErrTokenInvalid),
		errors.Is(err, services.ErrTokenExpired):
		status = fiber.StatusUnauthorized
	default:
		status = fiber.StatusInternalServerError
	}

	return fiber.NewError(status, err.Error())
}
