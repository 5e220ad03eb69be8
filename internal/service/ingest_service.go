package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/openkb/knowledge-agent/internal/domain"
	"github.com/openkb/knowledge-agent/internal/extract"
	"github.com/openkb/knowledge-agent/internal/pipeline"
	"github.com/openkb/knowledge-agent/internal/port"
)

// IngestService turns cleaned document text into indexed vector
// chunks: chunk, embed in one batch, validate dimensions, upsert.
type IngestService struct {
	ai        port.AIProvider
	index     port.VectorIndex
	chunker   *pipeline.Chunker
	dimension int
}

// NewIngestService creates an ingest service bound to one collection
// dimensionality.
func NewIngestService(ai port.AIProvider, index port.VectorIndex, chunker *pipeline.Chunker, dimension int) *IngestService {
	return &IngestService{ai: ai, index: index, chunker: chunker, dimension: dimension}
}

// Ingest indexes a single-section document. Returns the number of
// chunks indexed; zero for empty or whitespace-only text, which is not
// an error.
func (s *IngestService) Ingest(ctx context.Context, documentID, text string) (int, error) {
	return s.IngestSections(ctx, documentID, []extract.Section{{Page: 0, Text: text}})
}

// IngestSections indexes a document extracted as ordered sections
// (e.g. PDF pages). Chunk sequence indices run contiguously across
// sections. Either every chunk is embedded and upserted or the request
// fails with nothing counted as indexed; point IDs are deterministic,
// so re-ingesting after a failure overwrites instead of duplicating.
func (s *IngestService) IngestSections(ctx context.Context, documentID string, sections []extract.Section) (int, error) {
	var chunks []domain.Chunk
	for _, sec := range sections {
		chunks = append(chunks, s.chunker.SplitSection(documentID, sec.Text, sec.Page, len(chunks))...)
	}
	if len(chunks) == 0 {
		slog.Info("nothing to index", "document", documentID)
		return 0, nil
	}

	// One batched round-trip to the embedding backend per document.
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := s.ai.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", port.ErrEmbedding, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d vectors for %d chunks", port.ErrEmbedding, len(vectors), len(chunks))
	}
	for i, vec := range vectors {
		if len(vec) != s.dimension {
			return 0, fmt.Errorf("%w: chunk %d embedded to %d dimensions, index expects %d",
				port.ErrDimensionMismatch, i, len(vec), s.dimension)
		}
	}

	if err := s.index.EnsureCollection(ctx, s.dimension); err != nil {
		if errors.Is(err, port.ErrDimensionMismatch) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", port.ErrIndex, err)
	}

	points := make([]domain.IndexPoint, len(chunks))
	for i, ch := range chunks {
		points[i] = domain.IndexPoint{
			ID:     PointID(ch.DocumentID, ch.Index),
			Vector: vectors[i],
			Payload: domain.ChunkPayload{
				DocumentID: ch.DocumentID,
				Content:    ch.Text,
				ChunkIndex: ch.Index,
				Page:       ch.Page,
			},
		}
	}
	if err := s.index.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("%w: %v", port.ErrIndex, err)
	}

	slog.Info("indexed document", "document", documentID, "chunks", len(points))
	return len(points), nil
}

// Delete removes every indexed chunk of a document.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if err := s.index.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("%w: %v", port.ErrIndex, err)
	}
	slog.Info("deleted document", "document", documentID)
	return nil
}

// PointID derives a stable identifier for a chunk, so re-ingesting the
// same document overwrites its previous points instead of duplicating
// them.
func PointID(documentID string, chunkIndex int) string {
	name := fmt.Sprintf("knowledge-agent/%s:%d", documentID, chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
