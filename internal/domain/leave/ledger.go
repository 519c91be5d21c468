package leave

import (
	"fmt"
	"sync"

	"leavedesk/internal/platform/sentinel"
)

// Ledger holds the remaining leave days per employee.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]int)}
}

// Open creates the entry for employeeID. An existing entry is left alone.
func (l *Ledger) Open(employeeID string, days int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.balances[employeeID]; ok {
		return
	}
	l.balances[employeeID] = days
}

func (l *Ledger) Balance(employeeID string) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	days, ok := l.balances[employeeID]
	return days, ok
}

// Deduct removes days, refusing to go below zero.
func (l *Ledger) Deduct(employeeID string, days int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.balances[employeeID]
	if !ok {
		return 0, fmt.Errorf("ledger entry %s: %w", employeeID, sentinel.ErrNotFound)
	}
	if days > current {
		return current, &InsufficientBalanceError{EmployeeID: employeeID, Available: current, Requested: days}
	}
	l.balances[employeeID] = current - days
	return current - days, nil
}

// Add applies a signed adjustment and returns the old and new balance.
func (l *Ledger) Add(employeeID string, days int) (int, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.balances[employeeID]
	if !ok {
		return 0, 0, fmt.Errorf("ledger entry %s: %w", employeeID, sentinel.ErrNotFound)
	}
	next := current + days
	if next < 0 {
		return current, current, fmt.Errorf("adjustment of %d would leave %s at %d days: %w", days, employeeID, next, sentinel.ErrInvalidInput)
	}
	l.balances[employeeID] = next
	return current, next, nil
}
