package leave

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"leavedesk/internal/platform/sentinel"
)

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// ParseDate accepts YYYY-MM-DD only. The result is midnight UTC so day
// arithmetic never crosses a DST boundary.
func ParseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q must use YYYY-MM-DD: %w", field, value, sentinel.ErrInvalidInput)
	}
	return parsed, nil
}

// ParseLeaveType matches case-insensitively; blank means Annual.
func ParseLeaveType(value string) (LeaveType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultLeaveType, nil
	}
	for _, candidate := range leaveTypes {
		if strings.EqualFold(value, string(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown leave type %q: %w", value, sentinel.ErrInvalidInput)
}

// ParseStatus matches case-insensitively. "All" and blank return ok with an
// empty status, meaning no filter.
func ParseStatus(value string) (Status, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return "", true
	}
	for _, candidate := range statuses {
		if strings.EqualFold(value, string(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// ParseLeaveTypes parses a comma separated list, skipping blanks.
func ParseLeaveTypes(raw string) ([]LeaveType, error) {
	var out []LeaveType
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		lt, err := ParseLeaveType(part)
		if err != nil {
			return nil, err
		}
		out = append(out, lt)
	}
	return out, nil
}
