package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openkb/knowledge-agent/internal/port"
)

const intentPrompt = `You are an intent classification system. ` +
	`Analyze the following user query and determine its primary intent in one or two words. ` +
	`Respond with only the intent label, short and descriptive ` +
	`(e.g., Information Request, Error Diagnosis, Cost Inquiry, Product Comparison). ` +
	`User Query: %q`

// IntentService labels the intent behind a query using the chat
// backend. Best-effort observability: classification failures never
// fail the request.
type IntentService struct {
	ai port.AIProvider
}

// NewIntentService creates an intent classifier.
func NewIntentService(ai port.AIProvider) *IntentService {
	return &IntentService{ai: ai}
}

// Classify returns a short intent label for the query, or "General"
// when the backend is unavailable or returns nothing usable.
func (s *IntentService) Classify(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return "General"
	}

	label, err := s.ai.Chat(ctx, "", fmt.Sprintf(intentPrompt, query), nil)
	if err != nil {
		slog.Warn("intent classification failed", "error", err)
		return "General"
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "General"
	}
	// Some models pad the label with reasoning; keep the last line.
	lines := strings.Split(label, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
