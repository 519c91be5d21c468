package leave

import (
	"context"

	"leavedesk/internal/domain/core"
)

// Directory is the part of the employee directory the engine depends on.
type Directory interface {
	Create(ctx context.Context, emp core.Employee) (core.Employee, error)
	Get(ctx context.Context, employeeID string) (core.Employee, error)
	List(ctx context.Context, department string) []core.Employee
}
