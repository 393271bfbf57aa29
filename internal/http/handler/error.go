package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"csvapi/internal/http/middleware"
	"csvapi/internal/logging"
	"csvapi/internal/repository"
	"csvapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_BODY", "NOT_FOUND", "STORAGE_ERROR")
// - message: human-readable message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service and repository errors into responses.
// Store and content failures keep their detail in the message; anything else is logged and masked.
func writeServiceError(c *fiber.Ctx, err error) error {
	var storageErr *repository.StorageError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "File not found")
	case errors.Is(err, service.ErrInvalidExtension):
		return writeError(c, fiber.StatusBadRequest, "INVALID_EXTENSION", "Only CSV files are allowed")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", err.Error())
	case errors.Is(err, service.ErrMalformedContent):
		return writeError(c, fiber.StatusInternalServerError, "MALFORMED_CONTENT", err.Error())
	case errors.As(err, &storageErr):
		logging.From(c.UserContext()).Error("store operation failed", "op", storageErr.Op, "error", err)
		return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", err.Error())
	default:
		logging.From(c.UserContext()).Error("request failed", "error", err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			logging.From(c.UserContext()).Error("unhandled error", "error", err)
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
