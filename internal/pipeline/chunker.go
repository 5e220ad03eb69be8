package pipeline

import (
	"fmt"
	"strings"

	"github.com/openkb/knowledge-agent/internal/domain"
)

// Chunker splits cleaned document text into bounded, optionally
// overlapping windows. Windows are measured in runes so multi-byte
// text never gets cut mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker validates the window parameters. size must be positive
// and overlap must be in [0, size).
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split cuts text into chunks of at most the configured size, each
// window starting size-overlap runes after the previous one. Chunk
// text is never trimmed: with zero overlap, concatenating the chunks
// in order reproduces the input exactly. Whitespace-only input yields
// no chunks.
func (c *Chunker) Split(documentID, text string) []domain.Chunk {
	return c.SplitSection(documentID, text, 0, 0)
}

// SplitSection is Split for one section of a paged document: chunks
// carry the given page number and sequence indices start at
// firstIndex, so a document ingested section by section still has
// contiguous indices.
func (c *Chunker) SplitSection(documentID, text string, page, firstIndex int) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	stride := c.size - c.overlap

	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: documentID,
			Index:      firstIndex + len(chunks),
			Text:       string(runes[start:end]),
			Page:       page,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
