package port

import "context"

// AIProvider abstracts the AI/LLM backend for embeddings and chat
// completions. Implementations can target Ollama, OpenAI, or any
// compatible API. Failures are returned as plain errors; the services
// attach the failure kind (ErrEmbedding, ErrGeneration) when wrapping.
type AIProvider interface {
	// ModelName returns the identifier of the chat model being used.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one
	// backend round-trip, one vector per input, order preserved.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Chat sends a prompt with optional context chunks and returns the
	// complete LLM response.
	Chat(ctx context.Context, systemPrompt string, userPrompt string, contextChunks []string) (string, error)

	// Healthy reports whether the backend is reachable. Used by the
	// readiness probe only.
	Healthy(ctx context.Context) bool
}
