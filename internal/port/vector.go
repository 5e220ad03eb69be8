package port

import (
	"context"

	"github.com/openkb/knowledge-agent/internal/domain"
)

// VectorIndex abstracts the vector database holding indexed chunks.
// The collection name and similarity metric are fixed per adapter
// instance; the pipeline only ever talks to one collection.
type VectorIndex interface {
	// EnsureCollection creates the collection if missing. Idempotent.
	// Returns an error wrapping ErrDimensionMismatch if the collection
	// already exists with a different dimensionality.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes points with at-least-once semantics. Re-upserting
	// an ID overwrites the previous point.
	Upsert(ctx context.Context, points []domain.IndexPoint) error

	// Search returns up to topK neighbors ordered by descending
	// similarity. An empty collection yields an empty result, not an
	// error.
	Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedNeighbor, error)

	// DeleteByDocument removes every point belonging to a document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Ping reports backend reachability. Used by the readiness probe.
	Ping(ctx context.Context) error
}
