package pipeline

import (
	"math"
	"strings"

	"github.com/openkb/knowledge-agent/internal/domain"
)

// BM25 parameters: k1 controls term-frequency saturation, b controls
// document-length normalization.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// RerankLexical re-scores neighbors for hybrid search: each neighbor's
// similarity becomes a blend of its vector similarity and its BM25
// lexical score against the query, normalized by the best BM25 score
// in the batch. weight is the lexical share in [0,1]; 0 returns the
// input unchanged.
func RerankLexical(query string, neighbors []domain.RetrievedNeighbor, weight float64) []domain.RetrievedNeighbor {
	if weight <= 0 || len(neighbors) == 0 {
		return neighbors
	}
	if weight > 1 {
		weight = 1
	}

	corpus := make([][]string, len(neighbors))
	for i, n := range neighbors {
		corpus[i] = tokenize(n.Payload.Content)
	}
	scores := bm25Scores(tokenize(query), corpus)

	best := 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}

	out := make([]domain.RetrievedNeighbor, len(neighbors))
	for i, n := range neighbors {
		lexical := 0.0
		if best > 0 {
			lexical = scores[i] / best
		}
		n.Similarity = (1-weight)*n.Similarity + weight*lexical
		out[i] = n
	}
	return out
}

// bm25Scores computes one BM25 score per corpus document for the query
// terms, treating the retrieved batch as the corpus.
func bm25Scores(query []string, corpus [][]string) []float64 {
	docFreq := make(map[string]int)
	totalLen := 0
	for _, doc := range corpus {
		totalLen += len(doc)
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}
	avgLen := float64(totalLen) / float64(len(corpus))
	if avgLen == 0 {
		avgLen = 1
	}

	scores := make([]float64, len(corpus))
	for i, doc := range corpus {
		freqs := make(map[string]int, len(doc))
		for _, term := range doc {
			freqs[term]++
		}
		docLen := float64(len(doc))
		for _, term := range query {
			tf := float64(freqs[term])
			if tf == 0 {
				continue
			}
			n := float64(docFreq[term])
			idf := math.Log((float64(len(corpus))-n+0.5)/(n+0.5) + 1.0)
			scores[i] += idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*docLen/avgLen))
		}
	}
	return scores
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
