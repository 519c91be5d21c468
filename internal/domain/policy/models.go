package policy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"leavedesk/internal/platform/sentinel"
)

type Category string

const (
	CategoryGeneral   Category = "General"
	CategoryAnnual    Category = "Annual"
	CategorySick      Category = "Sick"
	CategoryEmergency Category = "Emergency"
	CategoryRemote    Category = "Remote"
	CategoryBenefits  Category = "Benefits"
)

var categories = []Category{CategoryGeneral, CategoryAnnual, CategorySick, CategoryEmergency, CategoryRemote, CategoryBenefits}

const timestampLayout = "2006-01-02 15:04:05"

// ParseCategory matches case-insensitively; blank means General.
func ParseCategory(value string) (Category, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CategoryGeneral, nil
	}
	for _, c := range categories {
		if strings.EqualFold(value, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown policy category %q: %w", value, sentinel.ErrInvalidInput)
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

type Document struct {
	ID        string
	Title     string
	Content   string
	Category  Category
	CreatedAt time.Time
	WordCount int
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string   `json:"policyId"`
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		Category  Category `json:"category"`
		CreatedAt string   `json:"createdAt"`
		WordCount int      `json:"wordCount"`
	}{d.ID, d.Title, d.Content, d.Category, d.CreatedAt.Format(timestampLayout), d.WordCount})
}

// Summary is the listing view of a document, without the body.
type Summary struct {
	ID        string   `json:"policyId"`
	Title     string   `json:"title"`
	Category  Category `json:"category"`
	WordCount int      `json:"wordCount"`
	CreatedAt string   `json:"createdAt"`
}

func (d Document) Summary() Summary {
	return Summary{
		ID:        d.ID,
		Title:     d.Title,
		Category:  d.Category,
		WordCount: d.WordCount,
		CreatedAt: d.CreatedAt.Format(timestampLayout),
	}
}

type RankedResult struct {
	PolicyID    string   `json:"policyId"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Score       int      `json:"relevanceScore"`
	Excerpt     string   `json:"excerpt"`
	FullContent string   `json:"fullContent"`
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type Source struct {
	Title    string `json:"title"`
	PolicyID string `json:"policyId"`
}

type Answer struct {
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	Sources     []Source   `json:"sources"`
	Confidence  Confidence `json:"confidence"`
	ContextUsed string     `json:"contextUsed,omitempty"`
}
