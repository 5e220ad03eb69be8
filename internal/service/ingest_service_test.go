package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkb/knowledge-agent/internal/pipeline"
	"github.com/openkb/knowledge-agent/internal/port"
)

func newIngestFixture(t *testing.T, dimension int) (*IngestService, *fakeAI, *fakeIndex) {
	t.Helper()
	chunker, err := pipeline.NewChunker(16, 0)
	require.NoError(t, err)
	ai := &fakeAI{dimension: dimension}
	index := newFakeIndex()
	return NewIngestService(ai, index, chunker, 768), ai, index
}

func TestIngestChunksEmbedsAndUpserts(t *testing.T) {
	svc, ai, index := newIngestFixture(t, 768)

	text := strings.Repeat("knowledge is indexed here ", 8)
	indexed, err := svc.Ingest(context.Background(), "notes.txt", text)

	require.NoError(t, err)
	assert.Greater(t, indexed, 1)
	assert.Len(t, index.points, indexed)
	assert.Equal(t, 768, index.ensuredDimension)

	// all chunks of a document go out in one batched embed call
	assert.Equal(t, 1, ai.embedBatchCalls)
	assert.Equal(t, indexed, ai.lastBatchSize)
}

func TestIngestEmptyTextIsNotAnError(t *testing.T) {
	svc, ai, index := newIngestFixture(t, 768)

	for _, text := range []string{"", "   \n\t "} {
		indexed, err := svc.Ingest(context.Background(), "empty.txt", text)
		require.NoError(t, err)
		assert.Zero(t, indexed)
	}
	assert.Zero(t, ai.embedBatchCalls)
	assert.Empty(t, index.points)
}

func TestIngestIdempotentPointIDs(t *testing.T) {
	svc, _, index := newIngestFixture(t, 768)

	text := strings.Repeat("same document text ", 10)
	first, err := svc.Ingest(context.Background(), "doc.txt", text)
	require.NoError(t, err)

	firstIDs := make([]string, 0, len(index.points))
	for id := range index.points {
		firstIDs = append(firstIDs, id)
	}

	second, err := svc.Ingest(context.Background(), "doc.txt", text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, index.points, first, "re-ingesting must overwrite, not duplicate")
	for _, id := range firstIDs {
		assert.Contains(t, index.points, id)
	}
}

func TestIngestDimensionMismatchWritesNothing(t *testing.T) {
	// index expects 768 but the backend embeds to 384
	svc, _, index := newIngestFixture(t, 384)

	_, err := svc.Ingest(context.Background(), "doc.txt", "some document text")

	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)
	assert.Empty(t, index.points)
	assert.Zero(t, index.ensureCalls, "the index must not be touched after a mismatch")
}

func TestIngestEmbedFailure(t *testing.T) {
	svc, ai, index := newIngestFixture(t, 768)
	ai.embedErr = errBackendDown

	_, err := svc.Ingest(context.Background(), "doc.txt", "some document text")

	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrEmbedding)
	assert.Empty(t, index.points)
}

func TestIngestUpsertFailure(t *testing.T) {
	svc, _, index := newIngestFixture(t, 768)
	index.upsertErr = errBackendDown

	indexed, err := svc.Ingest(context.Background(), "doc.txt", "some document text")

	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrIndex)
	assert.Zero(t, indexed)
}

func TestIngestDimensionMismatchFromCollection(t *testing.T) {
	svc, _, index := newIngestFixture(t, 768)
	index.ensureErr = port.ErrDimensionMismatch

	_, err := svc.Ingest(context.Background(), "doc.txt", "some document text")

	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)
	assert.NotErrorIs(t, err, port.ErrIndex)
	assert.Empty(t, index.points)
}

func TestDeleteRemovesDocumentPoints(t *testing.T) {
	svc, _, index := newIngestFixture(t, 768)

	_, err := svc.Ingest(context.Background(), "keep.txt", "text that stays in the index")
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), "drop.txt", "text that is deleted again")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "drop.txt"))
	for _, p := range index.points {
		assert.Equal(t, "keep.txt", p.Payload.DocumentID)
	}
}

func TestPointIDDeterministicAndUnique(t *testing.T) {
	assert.Equal(t, PointID("doc.txt", 0), PointID("doc.txt", 0))
	assert.NotEqual(t, PointID("doc.txt", 0), PointID("doc.txt", 1))
	assert.NotEqual(t, PointID("doc.txt", 0), PointID("other.txt", 0))
}
