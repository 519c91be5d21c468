package core

import (
	"encoding/json"
	"time"
)

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "Active"
	StatusInactive EmployeeStatus = "Inactive"
)

const DefaultDepartment = "General"

type Employee struct {
	ID         string         `json:"employeeId"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Department string         `json:"department"`
	JoinDate   time.Time      `json:"-"`
	Status     EmployeeStatus `json:"status"`
}

// JoinDateString renders the join date as YYYY-MM-DD.
func (e Employee) JoinDateString() string {
	if e.JoinDate.IsZero() {
		return ""
	}
	return e.JoinDate.Format("2006-01-02")
}

// ParseStatus matches a status case-insensitively.
func ParseStatus(value string) (EmployeeStatus, bool) {
	switch {
	case equalFold(value, string(StatusActive)):
		return StatusActive, true
	case equalFold(value, string(StatusInactive)):
		return StatusInactive, true
	}
	return "", false
}

func (e Employee) MarshalJSON() ([]byte, error) {
	type employeeJSON struct {
		ID         string         `json:"employeeId"`
		Name       string         `json:"name"`
		Email      string         `json:"email"`
		Department string         `json:"department"`
		JoinDate   string         `json:"joinDate"`
		Status     EmployeeStatus `json:"status"`
	}
	return json.Marshal(employeeJSON{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		JoinDate:   e.JoinDateString(),
		Status:     e.Status,
	})
}
