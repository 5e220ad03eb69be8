package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/openkb/knowledge-agent/internal/port"
)

// statusForError maps pipeline failure kinds to HTTP status codes.
// Backend outages are bad gateways; a dimension mismatch is our own
// configuration fault.
func statusForError(err error) int {
	switch {
	case errors.Is(err, port.ErrEmbedding),
		errors.Is(err, port.ErrIndex),
		errors.Is(err, port.ErrGeneration):
		return fiber.StatusBadGateway
	case errors.Is(err, port.ErrDimensionMismatch):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// messageForError gives the stable client-facing message for a failure
// kind. Wrapped detail (backend URLs, driver errors) stays in the logs.
func messageForError(err error) string {
	switch {
	case errors.Is(err, port.ErrEmbedding):
		return "embedding backend unavailable"
	case errors.Is(err, port.ErrIndex):
		return "vector index unavailable"
	case errors.Is(err, port.ErrGeneration):
		return "generation backend unavailable"
	case errors.Is(err, port.ErrDimensionMismatch):
		return "embedding dimension misconfigured"
	default:
		return "internal error"
	}
}

func fail(c fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": messageForError(err)})
}
