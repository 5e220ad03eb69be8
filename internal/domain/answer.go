package domain

// GenerationMode identifies which generation path produced an answer.
type GenerationMode string

const (
	// ModeAIOnly means the model answered from its own knowledge,
	// without retrieved context.
	ModeAIOnly GenerationMode = "ai-only"
	// ModeAIDocs means the answer was grounded in retrieved chunks.
	ModeAIDocs GenerationMode = "ai+docs"
)

// GroundingDecision is the per-query outcome of the retrieval policy:
// either ungrounded, or grounded with a non-empty selection. The
// selection is unexported so a grounded decision with an empty context
// cannot be constructed. The zero value is ungrounded.
type GroundingDecision struct {
	selected []RetrievedNeighbor
}

// Ungrounded returns the decision to answer without document context.
func Ungrounded() GroundingDecision {
	return GroundingDecision{}
}

// NewGrounded returns a decision grounded in the given neighbors,
// which must be in similarity-descending order. An empty selection
// collapses to the ungrounded decision.
func NewGrounded(selected []RetrievedNeighbor) GroundingDecision {
	if len(selected) == 0 {
		return GroundingDecision{}
	}
	return GroundingDecision{selected: selected}
}

// Grounded reports whether retrieved context backs the answer.
func (d GroundingDecision) Grounded() bool {
	return len(d.selected) > 0
}

// Selected returns the chosen neighbors in similarity-descending
// order. Empty for ungrounded decisions.
func (d GroundingDecision) Selected() []RetrievedNeighbor {
	return d.selected
}

// Mode maps the decision onto the generation mode reported to callers.
func (d GroundingDecision) Mode() GenerationMode {
	if d.Grounded() {
		return ModeAIDocs
	}
	return ModeAIOnly
}

// Source cites one retrieved chunk that grounded an answer.
type Source struct {
	Document   string  `json:"document"`
	ChunkIndex int     `json:"chunk_index"`
	Page       int     `json:"page,omitempty"`
	Snippet    string  `json:"snippet"`
	Relevance  float64 `json:"relevance"`
}

// AnswerResult is the final payload returned by ask.
type AnswerResult struct {
	Answer      string         `json:"answer"`
	Sources     []Source       `json:"sources"`
	GeneratedBy GenerationMode `json:"generated_by"`
	Confidence  float64        `json:"confidence"`
}
