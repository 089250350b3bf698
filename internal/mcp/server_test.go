package mcp

import (
	"testing"
)

// TestDefaultDateRange verifies range defaults (trailing year) and parsing.
func TestDefaultDateRange(t *testing.T) {
	start, end, err := defaultDateRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	days := diff.Hours() / 24
	if days < 364 || days > 367 {
		t.Errorf("default range = %.0f days, want ~365", days)
	}

	start, end, err = defaultDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if end.Year() != 2024 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2024-01-31", end)
	}

	start, _, err = defaultDateRange("2024-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	if _, _, err = defaultDateRange("not-a-date", ""); err == nil {
		t.Error("expected error for invalid date")
	}
}
