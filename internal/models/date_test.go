package models

import (
	"testing"
	"time"
)

func TestDayTruncatesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	ts := time.Date(2025, 6, 1, 8, 30, 45, 0, loc) // 2025-05-31 23:30:45 UTC

	day := Day(ts)

	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 {
		t.Errorf("Expected midnight, got %v", day)
	}
	if day.Location() != time.UTC {
		t.Errorf("Expected UTC, got %v", day.Location())
	}
	// The UTC instant is what determines the day bucket
	if day.Day() != 31 || day.Month() != time.May {
		t.Errorf("Expected 2025-05-31, got %v", day)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("Expected a and b to be the same day")
	}
	if SameDay(b, c) {
		t.Error("Expected b and c to be different days")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC), 0},
		{"next day", time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC), 1},
		{"gap of five", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), 5},
		{"backwards", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
