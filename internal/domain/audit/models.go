package audit

import (
	"encoding/json"
	"time"
)

const (
	ActionEmployeeRegister = "employee.register"
	ActionEmployeeStatus   = "employee.status"
	ActionLeaveSubmit      = "leave.submit"
	ActionLeaveApprove     = "leave.approve"
	ActionLeaveReject      = "leave.reject"
	ActionBalanceAdjust    = "leave.balance_adjust"
	ActionPolicyAdd        = "policy.add"
	ActionPolicyReload     = "policy.reload"
)

const (
	EntityEmployee     = "employee"
	EntityLeaveRequest = "leave_request"
	EntityLeaveBalance = "leave_balance"
	EntityPolicy       = "policy"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorID    string
}

func (f Filter) matches(evt Event) bool {
	if f.Action != "" && f.Action != evt.Action {
		return false
	}
	if f.EntityType != "" && f.EntityType != evt.EntityType {
		return false
	}
	if f.ActorID != "" && f.ActorID != evt.ActorID {
		return false
	}
	return true
}
