package service

import (
	"context"
	"fmt"

	"github.com/openkb/knowledge-agent/internal/domain"
	"github.com/openkb/knowledge-agent/internal/port"
)

const ungroundedSystemPrompt = `You are a helpful AI assistant. ` +
	`Always return clean plain text only. ` +
	`Do not use Markdown, tables, checklists, headings, or special formatting.`

const groundedSystemPrompt = ungroundedSystemPrompt + ` ` +
	`Answer strictly from the supplied context. ` +
	`If the context does not contain the answer, say so instead of guessing.`

// AnswerSynthesizer calls the generation backend in one of two modes:
// with the query alone, or with the query plus the grounded context
// block. The mode follows the grounding decision and is never switched
// after the fact.
type AnswerSynthesizer struct {
	ai port.AIProvider
}

// NewAnswerSynthesizer creates a synthesizer over the given backend.
func NewAnswerSynthesizer(ai port.AIProvider) *AnswerSynthesizer {
	return &AnswerSynthesizer{ai: ai}
}

// Synthesize produces the raw answer text for a query under the given
// decision. Backend failure surfaces as ErrGeneration; it is not
// downgraded to the other mode.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, query string, decision domain.GroundingDecision) (string, error) {
	var contextChunks []string
	system := ungroundedSystemPrompt
	if decision.Grounded() {
		system = groundedSystemPrompt
		selected := decision.Selected()
		contextChunks = make([]string, len(selected))
		for i, n := range selected {
			contextChunks[i] = n.Payload.Content
		}
	}

	answer, err := s.ai.Chat(ctx, system, query, contextChunks)
	if err != nil {
		return "", fmt.Errorf("%w: %v", port.ErrGeneration, err)
	}
	return answer, nil
}
