package reports

import (
	"context"

	"leavedesk/internal/domain/core"
	"leavedesk/internal/domain/leave"
)

type EmployeeSource interface {
	List(ctx context.Context, department string) []core.Employee
	Departments(ctx context.Context) []string
}

type LeaveSource interface {
	ListRequests(ctx context.Context, filter leave.RequestFilter) []leave.Request
	// Snapshot reads balances and the request log in one consistent view.
	Snapshot(ctx context.Context, employeeIDs []string) (map[string]int, []leave.Request)
}

type PolicyCounter interface {
	Len() int
}
