package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
)

// Mensajes mostrados al usuario en las páginas HTML.
const (
	msgInvalidCredentials = "Invalid username or password"
	msgItemNotFound       = "Item not found."
	msgInvalidAction      = "Invalid action."
	msgInvalidQuantity    = "Invalid quantity. Please enter a positive whole number."
	msgInsufficientStock  = "Not enough stock to remove that amount."
	msgLoginRequired      = "Please log in to continue."
	msgDatabaseError      = "Database error. Please try again later."
	msgTooManyAttempts    = "Too many login attempts. Please try again later."
)

// userMessage traduce un error del dominio al texto que ve el usuario.
// Los errores de almacenamiento nunca exponen la causa.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return msgInvalidCredentials
	case errors.Is(err, domain.ErrItemNotFound):
		return msgItemNotFound
	case errors.Is(err, domain.ErrInvalidAction):
		return msgInvalidAction
	case errors.Is(err, domain.ErrInvalidQuantity):
		return msgInvalidQuantity
	case errors.Is(err, domain.ErrInsufficientStock):
		return msgInsufficientStock
	case errors.Is(err, domain.ErrActorRequired):
		return msgLoginRequired
	default:
		return msgDatabaseError
	}
}

// apiStatus status HTTP y código de error de la API JSON.
func apiStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrActorRequired):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrItemNotFound):
		return fiber.StatusNotFound, "ITEM_NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidAction):
		return fiber.StatusBadRequest, "INVALID_ACTION"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusServiceUnavailable, "STORAGE_ERROR"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeAPIError responde con dto.ErrorResponse; el mensaje es el mismo que ven las páginas.
func writeAPIError(c *fiber.Ctx, err error) error {
	status, code := apiStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: userMessage(err)})
}
