package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openkb/knowledge-agent/internal/domain"
	"github.com/openkb/knowledge-agent/internal/port"
)

// QdrantConfig holds connection settings for a Qdrant collection.
type QdrantConfig struct {
	URL        string // e.g. http://localhost:6333
	APIKey     string // empty = no auth
	Collection string
	Timeout    time.Duration
}

// QdrantIndex implements port.VectorIndex against the Qdrant REST API.
// The collection uses cosine distance; scores come back in [0,1] with
// higher meaning closer.
type QdrantIndex struct {
	cfg    QdrantConfig
	client *http.Client
}

// NewQdrantIndex creates a Qdrant-backed vector index.
func NewQdrantIndex(cfg QdrantConfig) *QdrantIndex {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &QdrantIndex{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// EnsureCollection creates the collection if missing and verifies the
// dimensionality of an existing one.
func (q *QdrantIndex) EnsureCollection(ctx context.Context, dimension int) error {
	var info struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}

	status, err := q.do(ctx, http.MethodGet, "/collections/"+q.cfg.Collection, nil, &info)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		if got := info.Result.Config.Params.Vectors.Size; got != dimension {
			return fmt.Errorf("%w: collection %q has dimension %d, configured %d",
				port.ErrDimensionMismatch, q.cfg.Collection, got, dimension)
		}
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	status, err = q.do(ctx, http.MethodPut, "/collections/"+q.cfg.Collection, body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant create collection: status %d", status)
	}
	return nil
}

// Upsert writes points, overwriting any existing point with the same ID.
func (q *QdrantIndex) Upsert(ctx context.Context, points []domain.IndexPoint) error {
	if len(points) == 0 {
		return nil
	}
	wire := make([]map[string]any, len(points))
	for i, p := range points {
		wire[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	body := map[string]any{"points": wire}
	status, err := q.do(ctx, http.MethodPut, "/collections/"+q.cfg.Collection+"/points?wait=true", body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant upsert: status %d", status)
	}
	return nil
}

// Search returns up to topK neighbors ordered by descending score.
func (q *QdrantIndex) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedNeighbor, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64             `json:"score"`
			Payload domain.ChunkPayload `json:"payload"`
		} `json:"result"`
	}
	status, err := q.do(ctx, http.MethodPost, "/collections/"+q.cfg.Collection+"/points/search", body, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		// Missing collection means nothing has been ingested yet.
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("qdrant search: status %d", status)
	}

	neighbors := make([]domain.RetrievedNeighbor, 0, len(resp.Result))
	for _, r := range resp.Result {
		neighbors = append(neighbors, domain.RetrievedNeighbor{
			Payload:    r.Payload,
			Similarity: r.Score,
		})
	}
	return neighbors, nil
}

// DeleteByDocument removes all points whose payload references the document.
func (q *QdrantIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}
	status, err := q.do(ctx, http.MethodPost, "/collections/"+q.cfg.Collection+"/points/delete?wait=true", body, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		// Nothing indexed, nothing to delete.
		return nil
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant delete: status %d", status)
	}
	return nil
}

// Ping checks that Qdrant responds to a collections listing.
func (q *QdrantIndex) Ping(ctx context.Context) error {
	status, err := q.do(ctx, http.MethodGet, "/collections", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant ping: status %d", status)
	}
	return nil
}

// do issues one JSON request and optionally decodes the response into
// out. Non-2xx statuses are returned to the caller, not treated as
// transport errors, so EnsureCollection can distinguish 404.
func (q *QdrantIndex) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.cfg.URL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.cfg.APIKey != "" {
		req.Header.Set("api-key", q.cfg.APIKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
