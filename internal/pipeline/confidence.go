package pipeline

import "github.com/openkb/knowledge-agent/internal/domain"

// ConfidenceScorer derives a confidence in [0,1] for an answer from
// the grounding decision that produced it.
type ConfidenceScorer struct {
	baseline float64
}

// NewConfidenceScorer builds a scorer. baseline is the fixed
// confidence reported for ungrounded answers, where generation quality
// cannot be verified against any context. It is clamped into [0,1].
func NewConfidenceScorer(baseline float64) *ConfidenceScorer {
	return &ConfidenceScorer{baseline: clamp01(baseline)}
}

// Score returns the strongest selected similarity, clamped into [0,1],
// for grounded answers, and the baseline otherwise. Taking the top
// score keeps confidence monotone: raising any selected similarity can
// never lower the result.
func (s *ConfidenceScorer) Score(d domain.GroundingDecision) float64 {
	if !d.Grounded() {
		return s.baseline
	}
	top := 0.0
	for _, n := range d.Selected() {
		if n.Similarity > top {
			top = n.Similarity
		}
	}
	return clamp01(top)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
