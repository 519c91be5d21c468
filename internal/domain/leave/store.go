package leave

import (
	"fmt"
	"sync"
)

// Store is the append-only request log. Lookups go through the id index,
// listings walk the insertion-ordered slice.
type Store struct {
	mu    sync.RWMutex
	seq   int
	byID  map[string]*Request
	order []*Request
}

func NewStore() *Store {
	return &Store{byID: make(map[string]*Request)}
}

// Append assigns the next sequential id and stores the request.
func (s *Store) Append(req Request) Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	req.ID = fmt.Sprintf("%s%04d", RequestIDPrefix, s.seq)
	record := req
	s.byID[req.ID] = &record
	s.order = append(s.order, &record)
	return record
}

func (s *Store) Get(requestID string) (Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.byID[requestID]
	if !ok {
		return Request{}, false
	}
	return *req, true
}

// Update applies fn to the stored record and returns the result.
func (s *Store) Update(requestID string, fn func(*Request)) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.byID[requestID]
	if !ok {
		return Request{}, false
	}
	fn(req)
	return *req, true
}

func (s *Store) List(filter RequestFilter) []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, 0, len(s.order))
	for _, req := range s.order {
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, *req)
	}
	return out
}

// PendingDays sums the days of pending requests of employeeID whose type
// satisfies include.
func (s *Store) PendingDays(employeeID string, include func(LeaveType) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, req := range s.order {
		if req.EmployeeID == employeeID && req.Status == StatusPending && include(req.Type) {
			total += req.Days
		}
	}
	return total
}

// Counts tallies requests per status. An empty employeeID counts all.
func (s *Store) Counts(employeeID string) RequestCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var counts RequestCounts
	for _, req := range s.order {
		if employeeID != "" && req.EmployeeID != employeeID {
			continue
		}
		counts.add(req.Status)
	}
	return counts
}

func (c *RequestCounts) add(status Status) {
	c.Total++
	switch status {
	case StatusPending:
		c.Pending++
	case StatusApproved:
		c.Approved++
	case StatusRejected:
		c.Rejected++
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
