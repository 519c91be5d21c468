package leave

import (
	"errors"
	"testing"
	"time"

	"leavedesk/internal/platform/sentinel"
)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %v", days)
	}

	end = time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	days, err = CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %v", days)
	}
}

func TestCalculateDaysInvalid(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)

	_, err := CalculateDays(start, end)
	if err == nil {
		t.Fatal("expected error for invalid range")
	}
}

func TestCalculateDaysAcrossMonthAndYear(t *testing.T) {
	start, _ := ParseDate("start", "2024-12-30")
	end, _ := ParseDate("end", "2025-01-03")
	days, err := CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 5 {
		t.Fatalf("expected 5 days, got %d", days)
	}

	start, _ = ParseDate("start", "2024-02-28")
	end, _ = ParseDate("end", "2024-03-01")
	if days, _ = CalculateDays(start, end); days != 3 {
		t.Fatalf("expected leap-year span of 3 days, got %d", days)
	}
}

func TestParseDateRejectsOtherLayouts(t *testing.T) {
	for _, raw := range []string{"2024/12/23", "23-12-2024", "2024-13-01", "", "2024-12-23T00:00:00Z"} {
		if _, err := ParseDate("start date", raw); !errors.Is(err, sentinel.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", raw, err)
		}
	}
}

func TestParseLeaveTypeIsCaseInsensitive(t *testing.T) {
	cases := map[string]LeaveType{
		"annual":    TypeAnnual,
		" SICK ":    TypeSick,
		"Emergency": TypeEmergency,
		"unpaid":    TypeUnpaid,
		"":          TypeAnnual,
	}
	for raw, want := range cases {
		got, err := ParseLeaveType(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", raw, want, got)
		}
	}
	if _, err := ParseLeaveType("sabbatical"); !errors.Is(err, sentinel.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus("all"); !ok || status != "" {
		t.Fatalf("expected no filter for all, got %q %v", status, ok)
	}
	if status, ok := ParseStatus("pEnDiNg"); !ok || status != StatusPending {
		t.Fatalf("expected Pending, got %q %v", status, ok)
	}
	if _, ok := ParseStatus("cancelled"); ok {
		t.Fatal("expected unknown status to fail")
	}
}
