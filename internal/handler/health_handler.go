package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/openkb/knowledge-agent/internal/port"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	appName string
	version string
	ai      port.AIProvider
	index   port.VectorIndex
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(appName, version string, ai port.AIProvider, index port.VectorIndex) *HealthHandler {
	return &HealthHandler{appName: appName, version: version, ai: ai, index: index}
}

// Register sets up health routes on the app root.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/healthz", h.Healthz)
	router.Get("/readyz", h.Readyz)
}

// Healthz reports process liveness only.
func (h *HealthHandler) Healthz(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"app":     h.appName,
		"version": h.version,
	})
}

// Readyz checks Ollama and vector index connectivity.
func (h *HealthHandler) Readyz(c fiber.Ctx) error {
	ollamaOK := h.ai.Healthy(c.Context())
	indexOK := h.index.Ping(c.Context()) == nil

	status := fiber.StatusOK
	if !ollamaOK || !indexOK {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"ready":     ollamaOK && indexOK,
		"ollama_ok": ollamaOK,
		"index_ok":  indexOK,
	})
}
