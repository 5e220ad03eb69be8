package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/openkb/knowledge-agent/internal/extract"
	"github.com/openkb/knowledge-agent/internal/service"
)

// AskHandler handles question answering over the indexed corpus.
type AskHandler struct {
	askService    *service.AskService
	intentService *service.IntentService // nil when intent logging is disabled
}

// NewAskHandler creates a new ask handler. intentService may be nil.
func NewAskHandler(askService *service.AskService, intentService *service.IntentService) *AskHandler {
	return &AskHandler{askService: askService, intentService: intentService}
}

// Register sets up the ask route.
func (h *AskHandler) Register(router fiber.Router) {
	router.Post("/ask", h.Ask)
}

// Ask answers a natural-language question, reporting the answer text,
// source citations, generation mode, and confidence.
func (h *AskHandler) Ask(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	query := extract.CleanText(body.Query)
	if strings.TrimSpace(query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query must not be empty"})
	}

	if h.intentService != nil {
		slog.Info("query intent", "intent", h.intentService.Classify(c.Context(), query))
	}

	result, err := h.askService.Ask(c.Context(), query)
	if err != nil {
		slog.Error("ask failed", "query", query, "error", err)
		return fail(c, err)
	}
	return c.JSON(result)
}
