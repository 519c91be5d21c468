package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"leavedesk/internal/domain/core"
	"leavedesk/internal/domain/leave"
)

const timestampLayout = "2006-01-02 15:04:05"

type Service struct {
	Employees EmployeeSource
	Leave     LeaveSource
	Policies  PolicyCounter
	Version   string
	now       func() time.Time
}

func NewService(employees EmployeeSource, leaveSrc LeaveSource, policies PolicyCounter, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{Employees: employees, Leave: leaveSrc, Policies: policies, now: clock}
}

// DepartmentSummary aggregates headcount, balances and request counts for
// one department, matched case-insensitively. Blank or "All" covers every
// employee.
func (s *Service) DepartmentSummary(ctx context.Context, department string) DepartmentSummary {
	department = strings.TrimSpace(department)
	if department == "" {
		department = AllDepartments
	}
	out := DepartmentSummary{Department: department}

	employees := s.Employees.List(ctx, department)
	ids := make([]string, 0, len(employees))
	members := make(map[string]bool, len(employees))
	for _, emp := range employees {
		members[emp.ID] = true
		ids = append(ids, emp.ID)
	}
	out.TotalEmployees = len(employees)

	balances, requests := s.Leave.Snapshot(ctx, ids)
	for _, balance := range balances {
		out.TotalLeaveBalance += balance
	}

	all := strings.EqualFold(department, AllDepartments)
	for _, req := range requests {
		if !all && !members[req.EmployeeID] {
			continue
		}
		out.TotalRequests++
		switch req.Status {
		case leave.StatusPending:
			out.PendingRequests++
		case leave.StatusApproved:
			out.ApprovedRequests++
		case leave.StatusRejected:
			out.RejectedRequests++
		}
	}
	return out
}

func (s *Service) SystemStats(ctx context.Context) SystemStats {
	requests := s.Leave.ListRequests(ctx, leave.RequestFilter{})
	out := SystemStats{
		TotalEmployees:     len(s.Employees.List(ctx, "")),
		TotalLeaveRequests: len(requests),
		TotalPolicies:      s.Policies.Len(),
		ServerTime:         s.now().Format(timestampLayout),
	}
	for _, req := range requests {
		switch req.Status {
		case leave.StatusPending:
			out.PendingRequests++
		case leave.StatusApproved:
			out.ApprovedRequests++
		case leave.StatusRejected:
			out.RejectedRequests++
		}
	}
	out.Departments = s.Employees.Departments(ctx)
	if out.Departments == nil {
		out.Departments = []string{}
	}
	sort.Strings(out.Departments)
	return out
}

func (s *Service) SystemInfo(ctx context.Context) SystemInfo {
	return SystemInfo{
		Name:     SystemName,
		Version:  s.Version,
		Features: append([]string(nil), features...),
		Stats:    s.SystemStats(ctx),
	}
}

// QuickStart is the static usage guide. Tools are named as listed by
// GET /tools.
func (s *Service) QuickStart() QuickStart {
	return QuickStart{
		Title:                 SystemName + " - Quick Start",
		Steps:                 append([]string(nil), quickStartSteps...),
		ExamplePolicyQuestion: "How many sick days am I entitled to?",
		ExampleSearch:         `searchPolicies {"query": "annual leave entitlement"}`,
	}
}

var _ EmployeeSource = (*core.Store)(nil)
var _ LeaveSource = (*leave.Service)(nil)
