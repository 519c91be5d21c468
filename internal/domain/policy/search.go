package policy

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	titleHitWeight = 10
	excerptRunes   = 300
	excerptMarker  = "..."
)

// Search ranks documents against query, best first. Each query word adds
// titleHitWeight when it occurs in the title and one point per occurrence
// in the body. Documents scoring zero are left out. Equal scores keep store
// order.
func (s *Service) Search(_ context.Context, query, category string, maxResults int) []RankedResult {
	if maxResults <= 0 {
		maxResults = s.defaultResults
	}
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return []RankedResult{}
	}

	results := make([]RankedResult, 0)
	for _, doc := range s.Store.All() {
		if !matchesCategory(category, doc.Category) {
			continue
		}
		score := Score(words, doc.Title, doc.Content)
		if score == 0 {
			continue
		}
		results = append(results, RankedResult{
			PolicyID:    doc.ID,
			Title:       doc.Title,
			Category:    doc.Category,
			Score:       score,
			Excerpt:     Excerpt(doc.Content),
			FullContent: doc.Content,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// Score computes the relevance of one document for already-lowercased words.
func Score(words []string, title, content string) int {
	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)
	score := 0
	for _, word := range words {
		if strings.Contains(titleLower, word) {
			score += titleHitWeight
		}
		score += strings.Count(contentLower, word)
	}
	return score
}

// Excerpt truncates content to its first 300 characters.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:excerptRunes]) + excerptMarker
}
