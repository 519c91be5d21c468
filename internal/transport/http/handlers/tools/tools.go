package toolshandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/core"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/policy"
	"leavedesk/internal/platform/sentinel"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Param struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  any    `json:"default,omitempty"`
}

type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`

	call func(r *http.Request, args json.RawMessage) (any, error)
}

func str(name string, required bool, def any) Param {
	return Param{Name: name, Type: "string", Required: required, Default: def}
}

func (h *Handler) buildTools() []Tool {
	return []Tool{
		{
			Name:        "registerEmployee",
			Description: "Register a new employee with the default leave balance.",
			Params:      []Param{str("employeeId", true, nil), str("name", true, nil), str("email", false, nil), str("department", false, core.DefaultDepartment)},
			call:        h.registerEmployee,
		},
		{
			Name:        "viewEmployee",
			Description: "Show an employee record with the current leave balance.",
			Params:      []Param{str("employeeId", true, nil)},
			call:        h.viewEmployee,
		},
		{
			Name:        "listEmployees",
			Description: "List employees, optionally for one department.",
			Params:      []Param{str("department", false, "All")},
			call:        h.listEmployees,
		},
		{
			Name:        "submitLeaveRequest",
			Description: "Submit a leave request for an employee.",
			Params: []Param{str("employeeId", true, nil), str("startDate", true, nil), str("endDate", true, nil),
				str("leaveType", false, string(leave.TypeAnnual)), str("reason", false, "")},
			call: h.submitLeaveRequest,
		},
		{
			Name:        "approveLeaveRequest",
			Description: "Approve a pending leave request.",
			Params:      []Param{str("requestId", true, nil), str("approverId", false, leave.DefaultApprover)},
			call:        h.approveLeaveRequest,
		},
		{
			Name:        "rejectLeaveRequest",
			Description: "Reject a pending leave request.",
			Params:      []Param{str("requestId", true, nil), str("reason", false, ""), str("approverId", false, leave.DefaultApprover)},
			call:        h.rejectLeaveRequest,
		},
		{
			Name:        "checkBalance",
			Description: "Show an employee's balance and request counts.",
			Params:      []Param{str("employeeId", true, nil)},
			call:        h.checkBalance,
		},
		{
			Name:        "listRequests",
			Description: "List leave requests, optionally by status.",
			Params:      []Param{str("status", false, "All")},
			call:        h.listRequests,
		},
		{
			Name:        "listRequestsForEmployee",
			Description: "List one employee's leave requests.",
			Params:      []Param{str("employeeId", true, nil)},
			call:        h.listRequestsForEmployee,
		},
		{
			Name:        "addLeaveBalance",
			Description: "Add (or with a negative value, remove) days from an employee's balance.",
			Params:      []Param{str("employeeId", true, nil), {Name: "days", Type: "integer", Required: true}},
			call:        h.addLeaveBalance,
		},
		{
			Name:        "addPolicyDocument",
			Description: "Add or replace a policy document.",
			Params:      []Param{str("id", true, nil), str("title", true, nil), str("content", true, nil), str("category", false, string(policy.CategoryGeneral))},
			call:        h.addPolicyDocument,
		},
		{
			Name:        "searchPolicies",
			Description: "Rank policy documents by keyword relevance.",
			Params:      []Param{str("query", true, nil), str("category", false, nil), {Name: "maxResults", Type: "integer", Default: policy.DefaultMaxResults}},
			call:        h.searchPolicies,
		},
		{
			Name:        "askPolicyQuestion",
			Description: "Answer a question from the most relevant policy documents.",
			Params:      []Param{str("question", true, nil), str("category", false, nil)},
			call:        h.askPolicyQuestion,
		},
		{
			Name:        "listPolicies",
			Description: "List policy documents, optionally by category.",
			Params:      []Param{str("category", false, nil)},
			call:        h.listPolicies,
		},
		{
			Name:        "getPolicy",
			Description: "Fetch one policy document.",
			Params:      []Param{str("id", true, nil)},
			call:        h.getPolicy,
		},
		{
			Name:        "departmentSummary",
			Description: "Aggregate headcount, balances and requests for a department.",
			Params:      []Param{str("department", false, "All")},
			call:        h.departmentSummary,
		},
		{
			Name:        "systemStats",
			Description: "Overall system statistics.",
			Params:      []Param{},
			call:        h.systemStats,
		},
	}
}

// decodeArgs decodes a JSON object of tool arguments. Missing or null args
// leave dst at its zero value.
func decodeArgs(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid arguments: %v: %w", err, sentinel.ErrInvalidInput)
	}
	return nil
}

func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required argument(s) %s: %w", strings.Join(missing, ", "), sentinel.ErrInvalidInput)
	}
	return nil
}

func (h *Handler) registerEmployee(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		EmployeeID string `json:"employeeId"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Department string `json:"department"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("employeeId", args.EmployeeID, "name", args.Name); err != nil {
		return nil, err
	}
	reg, err := h.Leave.RegisterEmployee(r.Context(), core.Employee{
		ID:         strings.TrimSpace(args.EmployeeID),
		Name:       strings.TrimSpace(args.Name),
		Email:      strings.TrimSpace(args.Email),
		Department: strings.TrimSpace(args.Department),
	})
	if err != nil {
		return nil, err
	}
	shared.RecordAudit(r, h.Audit, audit.ActionEmployeeRegister, audit.EntityEmployee, reg.Employee.ID, nil, reg)
	return reg, nil
}

type employeeArgs struct {
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) viewEmployee(r *http.Request, raw json.RawMessage) (any, error) {
	var args employeeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("employeeId", args.EmployeeID); err != nil {
		return nil, err
	}
	emp, err := h.Directory.Get(r.Context(), args.EmployeeID)
	if err != nil {
		return nil, err
	}
	balance, err := h.Leave.BalanceOf(r.Context(), emp.ID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"employee": emp, "leaveBalance": balance}, nil
}

type departmentArgs struct {
	Department string `json:"department"`
}

func (h *Handler) listEmployees(r *http.Request, raw json.RawMessage) (any, error) {
	var args departmentArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return h.Directory.List(r.Context(), args.Department), nil
}

func (h *Handler) submitLeaveRequest(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		EmployeeID string `json:"employeeId"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
		LeaveType  string `json:"leaveType"`
		Reason     string `json:"reason"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("employeeId", args.EmployeeID, "startDate", args.StartDate, "endDate", args.EndDate); err != nil {
		return nil, err
	}
	req, err := h.Leave.Submit(r.Context(), leave.SubmitInput{
		EmployeeID: strings.TrimSpace(args.EmployeeID),
		StartDate:  strings.TrimSpace(args.StartDate),
		EndDate:    strings.TrimSpace(args.EndDate),
		LeaveType:  args.LeaveType,
		Reason:     args.Reason,
	})
	if err != nil {
		return nil, err
	}
	h.transition(req.Status)
	shared.RecordAudit(r, h.Audit, audit.ActionLeaveSubmit, audit.EntityLeaveRequest, req.ID, nil, req)
	return req, nil
}

type approveArgs struct {
	RequestID  string `json:"requestId"`
	ApproverID string `json:"approverId"`
}

type rejectArgs struct {
	RequestID  string `json:"requestId"`
	ApproverID string `json:"approverId"`
	Reason     string `json:"reason"`
}

// approver prefers the explicit argument, then the declared actor. The
// service falls back to MANAGER when both are blank.
func approver(r *http.Request, explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	return middleware.GetActor(r.Context())
}

func (h *Handler) approveLeaveRequest(r *http.Request, raw json.RawMessage) (any, error) {
	var args approveArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("requestId", args.RequestID); err != nil {
		return nil, err
	}
	before, err := h.Leave.GetRequest(r.Context(), args.RequestID)
	if err != nil {
		return nil, err
	}
	updated, err := h.Leave.Approve(r.Context(), args.RequestID, approver(r, args.ApproverID))
	if err != nil {
		return nil, err
	}
	h.transition(updated.Status)
	shared.RecordAudit(r, h.Audit, audit.ActionLeaveApprove, audit.EntityLeaveRequest, updated.ID, before, updated)
	return updated, nil
}

func (h *Handler) rejectLeaveRequest(r *http.Request, raw json.RawMessage) (any, error) {
	var args rejectArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("requestId", args.RequestID); err != nil {
		return nil, err
	}
	before, err := h.Leave.GetRequest(r.Context(), args.RequestID)
	if err != nil {
		return nil, err
	}
	updated, err := h.Leave.Reject(r.Context(), args.RequestID, args.Reason, approver(r, args.ApproverID))
	if err != nil {
		return nil, err
	}
	h.transition(updated.Status)
	shared.RecordAudit(r, h.Audit, audit.ActionLeaveReject, audit.EntityLeaveRequest, updated.ID, before, updated)
	return updated, nil
}

func (h *Handler) checkBalance(r *http.Request, raw json.RawMessage) (any, error) {
	var args employeeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("employeeId", args.EmployeeID); err != nil {
		return nil, err
	}
	return h.Leave.CheckBalance(r.Context(), args.EmployeeID)
}

func (h *Handler) listRequests(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		Status string `json:"status"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	status, ok := leave.ParseStatus(args.Status)
	if !ok {
		return nil, fmt.Errorf("unknown status %q: %w", args.Status, sentinel.ErrInvalidInput)
	}
	return h.Leave.ListRequests(r.Context(), leave.RequestFilter{Status: status}), nil
}

func (h *Handler) listRequestsForEmployee(r *http.Request, raw json.RawMessage) (any, error) {
	var args employeeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("employeeId", args.EmployeeID); err != nil {
		return nil, err
	}
	if _, err := h.Leave.BalanceOf(r.Context(), args.EmployeeID); err != nil {
		return nil, err
	}
	return h.Leave.ListRequests(r.Context(), leave.RequestFilter{EmployeeID: args.EmployeeID}), nil
}

func (h *Handler) addLeaveBalance(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		EmployeeID string `json:"employeeId"`
		Days       int    `json:"days"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("employeeId", args.EmployeeID); err != nil {
		return nil, err
	}
	if args.Days == 0 {
		return nil, fmt.Errorf("days must be non-zero: %w", sentinel.ErrInvalidInput)
	}
	adj, err := h.Leave.AdjustBalance(r.Context(), args.EmployeeID, args.Days)
	if err != nil {
		return nil, err
	}
	shared.RecordAudit(r, h.Audit, audit.ActionBalanceAdjust, audit.EntityLeaveBalance, args.EmployeeID,
		map[string]int{"balance": adj.OldBalance}, map[string]int{"balance": adj.NewBalance})
	return adj, nil
}

func (h *Handler) addPolicyDocument(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	doc, replaced, err := h.Policies.Add(r.Context(), policy.AddInput{ID: args.ID, Title: args.Title, Content: args.Content, Category: args.Category})
	if err != nil {
		return nil, err
	}
	shared.RecordAudit(r, h.Audit, audit.ActionPolicyAdd, audit.EntityPolicy, doc.ID, nil, doc.Summary())
	return map[string]any{
		"policyId":  doc.ID,
		"title":     doc.Title,
		"category":  doc.Category,
		"wordCount": doc.WordCount,
		"replaced":  replaced,
	}, nil
}

type categoryArgs struct {
	Category string `json:"category"`
}

func (h *Handler) searchPolicies(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		Query      string `json:"query"`
		Category   string `json:"category"`
		MaxResults int    `json:"maxResults"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("query", args.Query); err != nil {
		return nil, err
	}
	results := h.Policies.Search(r.Context(), args.Query, args.Category, args.MaxResults)
	h.searched(len(results))
	return map[string]any{"query": args.Query, "resultsFound": len(results), "results": results}, nil
}

func (h *Handler) askPolicyQuestion(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		Question string `json:"question"`
		Category string `json:"category"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("question", args.Question); err != nil {
		return nil, err
	}
	answer := h.Policies.Answer(r.Context(), args.Question, args.Category)
	h.searched(len(answer.Sources))
	return answer, nil
}

func (h *Handler) listPolicies(r *http.Request, raw json.RawMessage) (any, error) {
	var args categoryArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	docs := h.Policies.List(r.Context(), args.Category)
	out := make([]policy.Summary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Summary())
	}
	return out, nil
}

func (h *Handler) getPolicy(r *http.Request, raw json.RawMessage) (any, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := required("id", args.ID); err != nil {
		return nil, err
	}
	return h.Policies.Get(r.Context(), args.ID)
}

func (h *Handler) departmentSummary(r *http.Request, raw json.RawMessage) (any, error) {
	var args departmentArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return h.Reports.DepartmentSummary(r.Context(), args.Department), nil
}

func (h *Handler) systemStats(r *http.Request, raw json.RawMessage) (any, error) {
	if err := decodeArgs(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return h.Reports.SystemStats(r.Context()), nil
}
