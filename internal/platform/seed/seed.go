package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"leavedesk/internal/domain/core"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/policy"
)

//go:embed demo.yaml
var demoFixture []byte

type Employee struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Department string `yaml:"department"`
}

type Request struct {
	EmployeeID   string `yaml:"employeeId"`
	StartDate    string `yaml:"startDate"`
	EndDate      string `yaml:"endDate"`
	LeaveType    string `yaml:"leaveType"`
	Reason       string `yaml:"reason"`
	ApproveBy    string `yaml:"approveBy"`
	RejectBy     string `yaml:"rejectBy"`
	RejectReason string `yaml:"rejectReason"`
}

type Fixture struct {
	Employees []Employee            `yaml:"employees"`
	Policies  []policy.FileDocument `yaml:"policies"`
	Requests  []Request             `yaml:"requests"`
}

type Summary struct {
	Employees int `json:"employees"`
	Policies  int `json:"policies"`
	Requests  int `json:"requests"`
}

func Demo() (Fixture, error) {
	return Parse(demoFixture)
}

// Load reads the fixture at path, or the embedded demo data when path is
// empty.
func Load(path string) (Fixture, error) {
	if path == "" {
		return Demo()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("decode seed fixture: %w", err)
	}
	return f, nil
}

// Apply registers employees, adds policies, then submits and resolves
// requests in fixture order. It stops at the first failure.
func Apply(ctx context.Context, f Fixture, leaveSvc *leave.Service, policySvc *policy.Service) (Summary, error) {
	var sum Summary
	for _, e := range f.Employees {
		if _, err := leaveSvc.RegisterEmployee(ctx, core.Employee{ID: e.ID, Name: e.Name, Email: e.Email, Department: e.Department}); err != nil {
			return sum, fmt.Errorf("seed employee %s: %w", e.ID, err)
		}
		sum.Employees++
	}

	n, err := policySvc.AddAll(ctx, f.Policies)
	sum.Policies += n
	if err != nil {
		return sum, fmt.Errorf("seed policies: %w", err)
	}

	for _, r := range f.Requests {
		req, err := leaveSvc.Submit(ctx, leave.SubmitInput{
			EmployeeID: r.EmployeeID,
			StartDate:  r.StartDate,
			EndDate:    r.EndDate,
			LeaveType:  r.LeaveType,
			Reason:     r.Reason,
		})
		if err != nil {
			return sum, fmt.Errorf("seed request for %s: %w", r.EmployeeID, err)
		}
		sum.Requests++
		switch {
		case r.ApproveBy != "":
			_, err = leaveSvc.Approve(ctx, req.ID, r.ApproveBy)
		case r.RejectBy != "":
			_, err = leaveSvc.Reject(ctx, req.ID, r.RejectReason, r.RejectBy)
		}
		if err != nil {
			return sum, fmt.Errorf("seed resolve %s: %w", req.ID, err)
		}
	}
	return sum, nil
}
