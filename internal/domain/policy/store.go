package policy

import (
	"sync"
)

// Store keeps policy documents keyed by id in first-insertion order.
// Re-adding an id replaces the document but keeps its position.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]Document
	order []string
}

func NewStore() *Store {
	return &Store{byID: make(map[string]Document)}
}

// Put stores doc and reports whether it replaced an existing document.
func (s *Store) Put(doc Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced := s.byID[doc.ID]
	if !replaced {
		s.order = append(s.order, doc.ID)
	}
	s.byID[doc.ID] = doc
	return replaced
}

func (s *Store) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.byID[id]
	return doc, ok
}

// All returns a snapshot of every document in store order.
func (s *Store) All() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
