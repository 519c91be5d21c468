package policy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leavedesk/internal/platform/sentinel"
)

const DefaultMaxResults = 3

type Options struct {
	// DefaultResults caps Search when the caller passes a non-positive limit.
	DefaultResults int
	Clock          func() time.Time
}

type Service struct {
	Store          *Store
	defaultResults int
	now            func() time.Time
}

func NewService(store *Store, opts Options) *Service {
	results := opts.DefaultResults
	if results <= 0 {
		results = DefaultMaxResults
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{Store: store, defaultResults: results, now: clock}
}

type AddInput struct {
	ID       string
	Title    string
	Content  string
	Category string
}

// Add validates and stores a document, overwriting any document with the
// same id.
func (s *Service) Add(_ context.Context, in AddInput) (Document, bool, error) {
	id := strings.TrimSpace(in.ID)
	title := strings.TrimSpace(in.Title)
	if id == "" {
		return Document{}, false, fmt.Errorf("policy id required: %w", sentinel.ErrInvalidInput)
	}
	if title == "" {
		return Document{}, false, fmt.Errorf("policy title required: %w", sentinel.ErrInvalidInput)
	}
	category, err := ParseCategory(in.Category)
	if err != nil {
		return Document{}, false, err
	}
	doc := Document{
		ID:        id,
		Title:     title,
		Content:   in.Content,
		Category:  category,
		CreatedAt: s.now(),
		WordCount: len(strings.Fields(in.Content)),
	}
	replaced := s.Store.Put(doc)
	return doc, replaced, nil
}

func (s *Service) Get(_ context.Context, id string) (Document, error) {
	doc, ok := s.Store.Get(id)
	if !ok {
		return Document{}, fmt.Errorf("policy %s: %w", id, sentinel.ErrNotFound)
	}
	return doc, nil
}

// List returns documents in store order, optionally limited to a category.
func (s *Service) List(_ context.Context, category string) []Document {
	docs := s.Store.All()
	if strings.TrimSpace(category) == "" {
		return docs
	}
	out := docs[:0]
	for _, doc := range docs {
		if matchesCategory(category, doc.Category) {
			out = append(out, doc)
		}
	}
	return out
}

func matchesCategory(filter string, category Category) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(filter, string(category))
}
