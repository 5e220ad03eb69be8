package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/openkb/knowledge-agent/internal/extract"
	"github.com/openkb/knowledge-agent/internal/service"
)

// DocsHandler handles document upload and deletion.
type DocsHandler struct {
	ingestService *service.IngestService
}

// NewDocsHandler creates a new documents handler.
func NewDocsHandler(ingestService *service.IngestService) *DocsHandler {
	return &DocsHandler{ingestService: ingestService}
}

// Register sets up document routes.
func (h *DocsHandler) Register(router fiber.Router) {
	docs := router.Group("/docs")
	docs.Post("/upload", h.Upload)
	docs.Delete("/:source", h.Delete)
}

// Upload accepts a multipart PDF/TXT/MD file, extracts and cleans its
// text, and indexes it under its file name.
func (h *DocsHandler) Upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file field"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable upload"})
	}
	defer f.Close()

	sections, err := extract.FromFile(fh.Filename, f, fh.Size)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		slog.Error("text extraction failed", "file", fh.Filename, "error", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "could not extract text from file"})
	}

	indexed, err := h.ingestService.IngestSections(c.Context(), fh.Filename, sections)
	if err != nil {
		slog.Error("ingestion failed", "file", fh.Filename, "error", err)
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("File %q uploaded and processed successfully.", fh.Filename),
		"chunks":  indexed,
		"source":  fh.Filename,
	})
}

// Delete removes every indexed chunk of the named document.
func (h *DocsHandler) Delete(c fiber.Ctx) error {
	source := c.Params("source")
	if source == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing source"})
	}

	if err := h.ingestService.Delete(c.Context(), source); err != nil {
		slog.Error("document deletion failed", "source", source, "error", err)
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": source})
}
