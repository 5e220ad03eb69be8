package pipeline

import "github.com/openkb/knowledge-agent/internal/domain"

// ResponseAssembler composes the final answer payload from the pieces
// produced upstream. Pure value construction, no side effects.
type ResponseAssembler struct {
	snippetLen int
}

const defaultSnippetLength = 200

// NewResponseAssembler builds an assembler. snippetLen caps the number
// of runes of chunk text quoted in each citation; non-positive values
// fall back to the default so citations never quote whole chunks.
func NewResponseAssembler(snippetLen int) *ResponseAssembler {
	if snippetLen <= 0 {
		snippetLen = defaultSnippetLength
	}
	return &ResponseAssembler{snippetLen: snippetLen}
}

// Assemble builds the AnswerResult. Citations come from the decision's
// selection only, so an ungrounded answer always reports an empty
// source list, and the generation mode is carried over from the
// decision rather than inferred from the answer text.
func (a *ResponseAssembler) Assemble(answer string, d domain.GroundingDecision, confidence float64) domain.AnswerResult {
	selected := d.Selected()
	sources := make([]domain.Source, 0, len(selected))
	for _, n := range selected {
		sources = append(sources, domain.Source{
			Document:   n.Payload.DocumentID,
			ChunkIndex: n.Payload.ChunkIndex,
			Page:       n.Payload.Page,
			Snippet:    truncateRunes(n.Payload.Content, a.snippetLen),
			Relevance:  n.Similarity,
		})
	}
	return domain.AnswerResult{
		Answer:      answer,
		Sources:     sources,
		GeneratedBy: d.Mode(),
		Confidence:  confidence,
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
