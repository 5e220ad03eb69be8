package domain

// Document is an uploaded knowledge source after text extraction and
// cleaning. It is never mutated once ingestion starts.
type Document struct {
	Source string // original file name, used as the document identifier
	Text   string
}

// Chunk is a bounded contiguous span of a document's text, the unit of
// embedding and retrieval. Chunks of one document carry contiguous
// sequence indices.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
	Page       int // 0 when the source has no page structure
}
