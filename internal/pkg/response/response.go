package response

import (
	"freshpress-pos/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response is the standard JSON envelope consumed by the POS desktop UI
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response with an explicit status code
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// FromDomainError maps a service error onto an HTTP status using its kind.
// Recoverable conditions keep their message verbatim for the UI.
func FromDomainError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)

	status := fiber.StatusInternalServerError
	switch kind {
	case domain.KindNotFound:
		status = fiber.StatusNotFound
	case domain.KindBadRequest, domain.KindParseError,
		domain.KindPrinterNotSet, domain.KindPrinterNotFound:
		status = fiber.StatusBadRequest
	case domain.KindUnauthorized:
		status = fiber.StatusUnauthorized
	case domain.KindNetworkError:
		status = fiber.StatusBadGateway
	}

	msg := err.Error()
	if e, ok := err.(*domain.Error); ok && e.Message != "" {
		msg = e.Message
	}

	return c.Status(status).JSON(Response{
		Success: false,
		Error:   msg,
		Kind:    string(kind),
	})
}
