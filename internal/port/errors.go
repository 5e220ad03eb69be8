package port

import "errors"

// Failure kinds surfaced by the pipeline. Each request-fatal error is
// wrapped with exactly one of these so the boundary layer can map it
// to a status code with errors.Is.
var (
	// ErrEmbedding: embedding backend unreachable or malformed reply.
	ErrEmbedding = errors.New("embedding backend failure")

	// ErrDimensionMismatch: a vector's length disagrees with the
	// configured collection dimensionality. Configuration-level and
	// fatal; vectors are never truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIndex: vector index upsert or search failed.
	ErrIndex = errors.New("vector index failure")

	// ErrGeneration: chat backend unreachable or malformed reply.
	ErrGeneration = errors.New("generation backend failure")
)
