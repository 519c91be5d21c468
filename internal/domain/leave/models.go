package leave

import (
	"encoding/json"
	"time"
)

type Request struct {
	ID              string
	EmployeeID      string
	EmployeeName    string
	StartDate       time.Time
	EndDate         time.Time
	Days            int
	Type            LeaveType
	Reason          string
	Status          Status
	SubmittedAt     time.Time
	ResolvedBy      string
	ResolvedAt      time.Time
	RejectionReason string
}

type requestJSON struct {
	ID              string    `json:"requestId"`
	EmployeeID      string    `json:"employeeId"`
	EmployeeName    string    `json:"employeeName"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	Days            int       `json:"days"`
	Type            LeaveType `json:"leaveType"`
	Reason          string    `json:"reason"`
	Status          Status    `json:"status"`
	SubmittedAt     string    `json:"submittedAt"`
	ApprovedBy      string    `json:"approvedBy,omitempty"`
	ApprovedAt      string    `json:"approvedAt,omitempty"`
	RejectedBy      string    `json:"rejectedBy,omitempty"`
	RejectedAt      string    `json:"rejectedAt,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
}

func (r Request) MarshalJSON() ([]byte, error) {
	out := requestJSON{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		StartDate:    r.StartDate.Format(DateLayout),
		EndDate:      r.EndDate.Format(DateLayout),
		Days:         r.Days,
		Type:         r.Type,
		Reason:       r.Reason,
		Status:       r.Status,
		SubmittedAt:  formatTimestamp(r.SubmittedAt),
	}
	switch r.Status {
	case StatusApproved:
		out.ApprovedBy = r.ResolvedBy
		out.ApprovedAt = formatTimestamp(r.ResolvedAt)
	case StatusRejected:
		out.RejectedBy = r.ResolvedBy
		out.RejectedAt = formatTimestamp(r.ResolvedAt)
		out.RejectionReason = r.RejectionReason
	}
	return json.Marshal(out)
}

// Dates renders the request span the way summaries show it.
func (r Request) Dates() string {
	return r.StartDate.Format(DateLayout) + " to " + r.EndDate.Format(DateLayout)
}

type SubmitInput struct {
	EmployeeID string
	StartDate  string
	EndDate    string
	LeaveType  string
	Reason     string
}

// RequestFilter narrows ListRequests. Zero values match everything.
type RequestFilter struct {
	EmployeeID string
	Status     Status
}

type BalanceSummary struct {
	EmployeeID       string `json:"employeeId"`
	EmployeeName     string `json:"employeeName"`
	Balance          int    `json:"leaveBalance"`
	PendingDays      int    `json:"pendingDays"`
	Available        int    `json:"available"`
	TotalRequests    int    `json:"totalRequests"`
	PendingRequests  int    `json:"pendingRequests"`
	ApprovedRequests int    `json:"approvedRequests"`
	RejectedRequests int    `json:"rejectedRequests"`
	DaysUsed         int    `json:"daysUsed"`
}

type Adjustment struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Days         int    `json:"days"`
	OldBalance   int    `json:"oldBalance"`
	NewBalance   int    `json:"newBalance"`
}

type RequestCounts struct {
	Total    int `json:"totalRequests"`
	Pending  int `json:"pendingRequests"`
	Approved int `json:"approvedRequests"`
	Rejected int `json:"rejectedRequests"`
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
