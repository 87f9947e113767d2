package response

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform JSON body returned by every API endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK writes a 200 response with the provided payload.
func OK(c *fiber.Ctx, message string, data any) error {
	return c.Status(http.StatusOK).JSON(Envelope{Success: true, Message: message, Data: data})
}

// ValidationFailed writes a 400 response carrying a field-keyed error map so
// clients can highlight the offending fields.
func ValidationFailed(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(http.StatusBadRequest).JSON(Envelope{Success: false, Message: "Validation failed", Errors: errs})
}

// BadRequest writes a 400 response with a plain message.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(Envelope{Success: false, Message: message})
}

// NotFound writes a 404 response.
func NotFound(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusNotFound).JSON(Envelope{Success: false, Message: message})
}

// Internal writes a generic 500 response. Internal detail is never leaked to
// the caller; it belongs in the server log.
func Internal(c *fiber.Ctx) error {
	return c.Status(http.StatusInternalServerError).JSON(Envelope{Success: false, Message: "Internal server error"})
}

// Unavailable writes a 503 response for failed health checks.
func Unavailable(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusServiceUnavailable).JSON(Envelope{Success: false, Message: message})
}
