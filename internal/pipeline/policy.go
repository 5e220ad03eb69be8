package pipeline

import (
	"sort"

	"github.com/openkb/knowledge-agent/internal/domain"
)

// RetrievalPolicy decides whether retrieved neighbors are strong
// enough to ground a generated answer. It is a pure function of its
// inputs and configuration.
type RetrievalPolicy struct {
	minChunks    int
	minRelevance float64
	maxContext   int // cap on selected neighbors, 0 = no cap
}

// NewRetrievalPolicy builds a policy. minChunks of zero means any
// non-empty set of sufficiently relevant neighbors grounds the answer.
func NewRetrievalPolicy(minChunks int, minRelevance float64, maxContext int) *RetrievalPolicy {
	return &RetrievalPolicy{
		minChunks:    minChunks,
		minRelevance: minRelevance,
		maxContext:   maxContext,
	}
}

// Decide filters out neighbors below the relevance floor and grounds
// the answer only when enough survive. Below the bar the whole context
// is discarded: a partial context under the quality threshold is
// treated the same as no context at all.
func (p *RetrievalPolicy) Decide(neighbors []domain.RetrievedNeighbor) domain.GroundingDecision {
	kept := make([]domain.RetrievedNeighbor, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Similarity >= p.minRelevance {
			kept = append(kept, n)
		}
	}

	if len(kept) == 0 || len(kept) < p.minChunks {
		return domain.Ungrounded()
	}

	// The index already returns similarity-descending results; a stable
	// sort keeps that order for equal scores and restores it after
	// lexical re-scoring in hybrid mode.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Similarity > kept[j].Similarity
	})

	if p.maxContext > 0 && len(kept) > p.maxContext {
		kept = kept[:p.maxContext]
	}
	return domain.NewGrounded(kept)
}
