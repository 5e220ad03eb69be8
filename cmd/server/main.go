package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/openkb/knowledge-agent/internal/adapter/ai"
	"github.com/openkb/knowledge-agent/internal/adapter/store"
	"github.com/openkb/knowledge-agent/internal/handler"
	"github.com/openkb/knowledge-agent/internal/pipeline"
	"github.com/openkb/knowledge-agent/internal/port"
	"github.com/openkb/knowledge-agent/internal/service"
	"github.com/openkb/knowledge-agent/pkg/config"
)

const version = "1.0.0"

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("starting knowledge agent",
		"port", cfg.Port,
		"ollama_embed", cfg.OllamaEmbedURL,
		"ollama_chat", cfg.OllamaChatURL,
		"vector_backend", cfg.VectorBackend,
		"search_mode", cfg.SearchMode,
	)

	// ── Vector index ─────────────────────────────────────────────────────
	var index port.VectorIndex
	switch cfg.VectorBackend {
	case "pgvector":
		pg, err := store.NewPgVectorIndex(cfg.DatabaseURL, cfg.QdrantCollection)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		index = pg
	case "qdrant":
		index = store.NewQdrantIndex(store.QdrantConfig{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
	default:
		slog.Error("unknown vector backend", "backend", cfg.VectorBackend)
		os.Exit(1)
	}

	// Create the collection up front so a fresh deployment answers
	// queries (ungrounded) before anything has been ingested.
	if err := index.EnsureCollection(context.Background(), cfg.EmbeddingDimension); err != nil {
		slog.Error("failed to prepare vector index", "error", err)
		os.Exit(1)
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	ollamaAI := ai.NewOllamaProvider(
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaEmbedURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		},
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaChatURL,
			Model:   cfg.OllamaChatModel,
			Token:   cfg.OllamaChatToken,
		},
	)

	// ── Pipeline ─────────────────────────────────────────────────────────
	chunker, err := pipeline.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		slog.Error("invalid chunking configuration", "error", err)
		os.Exit(1)
	}
	policy := pipeline.NewRetrievalPolicy(cfg.MinChunks, cfg.MinRelevance, cfg.MaxContextChunks)
	scorer := pipeline.NewConfidenceScorer(cfg.BaselineConfidence)
	assembler := pipeline.NewResponseAssembler(cfg.SnippetLength)

	// ── Services ─────────────────────────────────────────────────────────
	ingestService := service.NewIngestService(ollamaAI, index, chunker, cfg.EmbeddingDimension)
	askService := service.NewAskService(ollamaAI, index, policy, scorer, assembler, service.AskConfig{
		TopK:          cfg.TopK,
		Dimension:     cfg.EmbeddingDimension,
		Hybrid:        cfg.SearchMode == "hybrid",
		LexicalWeight: cfg.LexicalWeight,
	})
	var intentService *service.IntentService
	if cfg.IntentEnabled {
		intentService = service.NewIntentService(ollamaAI)
	}

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:     cfg.AppName,
		ReadTimeout: 30 * time.Second,
		// Generation on local models can take minutes.
		WriteTimeout: 10 * time.Minute,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
	}))

	// ── Routes ───────────────────────────────────────────────────────────
	healthHandler := handler.NewHealthHandler(cfg.AppName, version, ollamaAI, index)
	healthHandler.Register(app)

	api := app.Group("/api")

	docsHandler := handler.NewDocsHandler(ingestService)
	docsHandler.Register(api)

	askHandler := handler.NewAskHandler(askService, intentService)
	askHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
