package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openkb/knowledge-agent/internal/domain"
	"github.com/openkb/knowledge-agent/internal/pipeline"
	"github.com/openkb/knowledge-agent/internal/port"
)

// AskService answers natural-language questions over the indexed
// corpus: embed the query, retrieve neighbors, decide on grounding,
// synthesize, score, assemble.
type AskService struct {
	ai          port.AIProvider
	index       port.VectorIndex
	policy      *pipeline.RetrievalPolicy
	scorer      *pipeline.ConfidenceScorer
	assembler   *pipeline.ResponseAssembler
	synthesizer *AnswerSynthesizer

	topK          int
	dimension     int
	hybrid        bool
	lexicalWeight float64
}

// AskConfig carries the query-time tuning knobs.
type AskConfig struct {
	TopK          int
	Dimension     int
	Hybrid        bool
	LexicalWeight float64
}

// NewAskService wires the query pipeline.
func NewAskService(
	ai port.AIProvider,
	index port.VectorIndex,
	policy *pipeline.RetrievalPolicy,
	scorer *pipeline.ConfidenceScorer,
	assembler *pipeline.ResponseAssembler,
	cfg AskConfig,
) *AskService {
	return &AskService{
		ai:            ai,
		index:         index,
		policy:        policy,
		scorer:        scorer,
		assembler:     assembler,
		synthesizer:   NewAnswerSynthesizer(ai),
		topK:          cfg.TopK,
		dimension:     cfg.Dimension,
		hybrid:        cfg.Hybrid,
		lexicalWeight: cfg.LexicalWeight,
	}
}

// Ask runs one query through the full pipeline. An unreachable index
// fails the request with ErrIndex rather than degrading to an
// ungrounded answer, so an ai-only response always means the corpus
// genuinely had nothing relevant.
func (s *AskService) Ask(ctx context.Context, query string) (domain.AnswerResult, error) {
	query = strings.TrimSpace(query)

	vector, err := s.ai.Embed(ctx, query)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("%w: %v", port.ErrEmbedding, err)
	}
	if len(vector) != s.dimension {
		return domain.AnswerResult{}, fmt.Errorf("%w: query embedded to %d dimensions, index expects %d",
			port.ErrDimensionMismatch, len(vector), s.dimension)
	}

	neighbors, err := s.index.Search(ctx, vector, s.topK)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("%w: %v", port.ErrIndex, err)
	}

	if s.hybrid {
		neighbors = pipeline.RerankLexical(query, neighbors, s.lexicalWeight)
	}

	decision := s.policy.Decide(neighbors)
	slog.Info("grounding decision",
		"retrieved", len(neighbors),
		"selected", len(decision.Selected()),
		"mode", decision.Mode(),
	)

	answer, err := s.synthesizer.Synthesize(ctx, query, decision)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	confidence := s.scorer.Score(decision)
	return s.assembler.Assemble(strings.TrimSpace(answer), decision, confidence), nil
}
