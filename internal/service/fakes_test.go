package service

import (
	"context"
	"errors"

	"github.com/openkb/knowledge-agent/internal/domain"
)

// fakeAI is a deterministic port.AIProvider for tests.
type fakeAI struct {
	dimension int

	embedErr error
	chatErr  error

	chatResponse string

	embedCalls      int
	embedBatchCalls int
	lastBatchSize   int
	lastSystem      string
	lastChunks      []string
}

func (f *fakeAI) ModelName() string { return "fake-model" }

func (f *fakeAI) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return make([]float32, f.dimension), nil
}

func (f *fakeAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.embedBatchCalls++
	f.lastBatchSize = len(texts)
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, f.dimension)
	}
	return vectors, nil
}

func (f *fakeAI) Chat(ctx context.Context, systemPrompt, userPrompt string, contextChunks []string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastChunks = contextChunks
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.chatResponse, nil
}

func (f *fakeAI) Healthy(ctx context.Context) bool { return true }

// fakeIndex is an in-memory port.VectorIndex for tests.
type fakeIndex struct {
	points map[string]domain.IndexPoint

	searchResult []domain.RetrievedNeighbor

	ensureErr error
	upsertErr error
	searchErr error
	deleteErr error

	ensuredDimension int
	ensureCalls      int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{points: make(map[string]domain.IndexPoint)}
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, dimension int) error {
	f.ensureCalls++
	f.ensuredDimension = dimension
	return f.ensureErr
}

func (f *fakeIndex) Upsert(ctx context.Context, points []domain.IndexPoint) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, p := range points {
		f.points[p.ID] = p
	}
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedNeighbor, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.searchResult) > topK {
		return f.searchResult[:topK], nil
	}
	return f.searchResult, nil
}

func (f *fakeIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for id, p := range f.points {
		if p.Payload.DocumentID == documentID {
			delete(f.points, id)
		}
	}
	return nil
}

func (f *fakeIndex) Ping(ctx context.Context) error { return nil }

var errBackendDown = errors.New("backend down")
