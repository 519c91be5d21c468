package leave

import (
	"fmt"

	"leavedesk/internal/platform/sentinel"
)

type InsufficientBalanceError struct {
	EmployeeID string
	Available  int
	Requested  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance for %s: available %d, requested %d", e.EmployeeID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == sentinel.ErrInsufficientBalance
}

type InvalidStateError struct {
	RequestID string
	Current   Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("request %s is already %s", e.RequestID, e.Current)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == sentinel.ErrInvalidState
}
