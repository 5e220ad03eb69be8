package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkb/knowledge-agent/internal/domain"
)

func TestRerankLexicalBoostsTermMatches(t *testing.T) {
	input := []domain.RetrievedNeighbor{
		{Payload: domain.ChunkPayload{Content: "completely unrelated text about gardening"}, Similarity: 0.7},
		{Payload: domain.ChunkPayload{Content: "invoice payment terms and payment schedule"}, Similarity: 0.7},
	}

	out := RerankLexical("payment terms", input, 1.0)

	require.Len(t, out, 2)
	assert.Greater(t, out[1].Similarity, out[0].Similarity,
		"the chunk containing the query terms should end up with the higher blended score")
}

func TestRerankLexicalZeroWeightIsIdentity(t *testing.T) {
	input := neighbors(0.9, 0.5)
	out := RerankLexical("anything", input, 0)
	assert.Equal(t, input, out)
}

func TestRerankLexicalEmptyInput(t *testing.T) {
	assert.Empty(t, RerankLexical("query", nil, 0.5))
}

func TestRerankLexicalBlendStaysBounded(t *testing.T) {
	input := []domain.RetrievedNeighbor{
		{Payload: domain.ChunkPayload{Content: "alpha beta gamma"}, Similarity: 0.8},
		{Payload: domain.ChunkPayload{Content: "alpha alpha alpha"}, Similarity: 0.6},
	}

	out := RerankLexical("alpha", input, 0.25)
	for _, n := range out {
		assert.GreaterOrEqual(t, n.Similarity, 0.0)
		assert.LessOrEqual(t, n.Similarity, 1.0)
	}
}
