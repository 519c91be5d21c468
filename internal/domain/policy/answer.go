package policy

import (
	"context"
	"fmt"
	"strings"
)

const (
	answerResults  = 3
	noMatchAnswer  = "I couldn't find any relevant policy documents for your question."
	answerPreamble = "Based on the available policies, here's what I found:\n\n"
)

// Answer retrieves the top documents for question and assembles them into
// an answer with its sources.
func (s *Service) Answer(ctx context.Context, question, category string) Answer {
	results := s.Search(ctx, question, category, answerResults)
	if len(results) == 0 {
		return Answer{
			Question:   question,
			Answer:     noMatchAnswer,
			Sources:    []Source{},
			Confidence: ConfidenceLow,
		}
	}

	var text strings.Builder
	text.WriteString(answerPreamble)
	sources := make([]Source, 0, len(results))
	contextParts := make([]string, 0, len(results))
	for i, r := range results {
		fmt.Fprintf(&text, "%d. From '%s' (%s):\n", i+1, r.Title, r.Category)
		fmt.Fprintf(&text, "   %s\n\n", r.Excerpt)
		sources = append(sources, Source{Title: r.Title, PolicyID: r.PolicyID})
		contextParts = append(contextParts, fmt.Sprintf("[%s]\n%s", r.Title, r.FullContent))
	}

	confidence := ConfidenceMedium
	if len(results) >= 2 {
		confidence = ConfidenceHigh
	}
	return Answer{
		Question:    question,
		Answer:      text.String(),
		Sources:     sources,
		Confidence:  confidence,
		ContextUsed: strings.Join(contextParts, "\n\n"),
	}
}
