package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"coverapi/internal/apperr"
	"coverapi/internal/http/middleware"
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

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_ERROR", "MODEL_UNAVAILABLE")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeAppError maps an application error to its caller-visible response.
// This is the single place error-to-response mapping happens: validation and
// extraction problems are the client's fault, model problems are upstream's.
func writeAppError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	switch ae.Category {
	case apperr.CategoryValidation:
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", safeMessage(ae))
	case apperr.CategoryExtraction:
		return writeError(c, fiber.StatusUnprocessableEntity, "EXTRACTION_ERROR", safeMessage(ae))
	case apperr.CategoryModelUnavailable:
		return writeError(c, fiber.StatusServiceUnavailable, "MODEL_UNAVAILABLE", safeMessage(ae))
	case apperr.CategoryMalformedModelOutput:
		return writeError(c, fiber.StatusBadGateway, "MALFORMED_MODEL_OUTPUT", safeMessage(ae))
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// safeMessage exposes the category reason (and field, for validation) but
// never the wrapped cause, which may carry internal detail.
func safeMessage(ae *apperr.Error) string {
	if ae.Field != "" {
		return ae.Field + ": " + ae.Reason
	}
	return ae.Reason
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if _, ok := apperr.CategoryOf(err); ok {
			return writeAppError(c, err)
		}

		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body exceeds the upload limit")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
