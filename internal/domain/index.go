package domain

// ChunkPayload is the metadata persisted alongside each vector in the
// index. It is everything needed to cite the chunk back to its source.
type ChunkPayload struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
	ChunkIndex int    `json:"chunk_index"`
	Page       int    `json:"page,omitempty"`
}

// IndexPoint is the persisted unit in the vector index. Points are
// written at ingestion time and immutable afterwards; re-upserting an
// ID overwrites the previous point.
type IndexPoint struct {
	ID      string
	Vector  []float32
	Payload ChunkPayload
}

// RetrievedNeighbor is one nearest-neighbor hit for a query vector.
// Similarity is in the index's metric space (cosine: higher is closer).
// Neighbors only live for the duration of a single query.
type RetrievedNeighbor struct {
	Payload    ChunkPayload
	Similarity float64
}
