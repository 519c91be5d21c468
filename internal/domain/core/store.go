package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"leavedesk/internal/platform/sentinel"
)

// Store is the employee directory. Records are kept in registration order
// and never removed.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*Employee
	order []string
}

func NewStore() *Store {
	return &Store{byID: make(map[string]*Employee)}
}

// Create inserts a new employee. The caller is expected to have filled
// defaults; Create only validates identity fields.
func (s *Store) Create(_ context.Context, emp Employee) (Employee, error) {
	emp.ID = strings.TrimSpace(emp.ID)
	emp.Name = strings.TrimSpace(emp.Name)
	if emp.ID == "" {
		return Employee{}, fmt.Errorf("employee id required: %w", sentinel.ErrInvalidInput)
	}
	if emp.Name == "" {
		return Employee{}, fmt.Errorf("employee name required: %w", sentinel.ErrInvalidInput)
	}
	if strings.TrimSpace(emp.Department) == "" {
		emp.Department = DefaultDepartment
	}
	if emp.Status == "" {
		emp.Status = StatusActive
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[emp.ID]; ok {
		return Employee{}, fmt.Errorf("employee %s: %w", emp.ID, sentinel.ErrAlreadyExists)
	}
	record := emp
	s.byID[emp.ID] = &record
	s.order = append(s.order, emp.ID)
	return record, nil
}

func (s *Store) Get(_ context.Context, employeeID string) (Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.byID[employeeID]
	if !ok {
		return Employee{}, fmt.Errorf("employee %s: %w", employeeID, sentinel.ErrNotFound)
	}
	return *emp, nil
}

func (s *Store) Exists(_ context.Context, employeeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[employeeID]
	return ok
}

// List returns employees in registration order. An empty department (or
// "All") matches everyone; otherwise departments compare case-insensitively.
func (s *Store) List(_ context.Context, department string) []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Employee, 0, len(s.order))
	for _, id := range s.order {
		emp := s.byID[id]
		if !MatchesDepartment(department, emp.Department) {
			continue
		}
		out = append(out, *emp)
	}
	return out
}

func (s *Store) SetStatus(_ context.Context, employeeID string, status EmployeeStatus) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.byID[employeeID]
	if !ok {
		return Employee{}, fmt.Errorf("employee %s: %w", employeeID, sentinel.ErrNotFound)
	}
	emp.Status = status
	return *emp, nil
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Departments returns the distinct department names, first-seen casing wins.
func (s *Store) Departments(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range s.order {
		dep := s.byID[id].Department
		key := strings.ToLower(dep)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, dep)
	}
	return out
}

// MatchesDepartment reports whether department passes filter.
func MatchesDepartment(filter, department string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || equalFold(filter, "all") {
		return true
	}
	return equalFold(filter, department)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
