package services

import (
	"testing"
	"time"
)

func TestDateAtLocationNormalizesToLocationMidnight(t *testing.T) {
	location, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 8, 23, 22, 15, 10, 0, time.UTC)
	day := DateAtLocation(raw, location)

	if day.Year() != 2026 || day.Month() != time.August || day.Day() != 24 {
		t.Fatalf("expected Berlin calendar day 2026-08-24, got %s", day.Format("2006-01-02"))
	}
	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 {
		t.Fatalf("expected midnight, got %s", day.Format(time.RFC3339))
	}
	if day.Location() != location {
		t.Fatalf("expected location %s, got %s", location, day.Location())
	}
}

func TestDateKeyUsesReferenceLocation(t *testing.T) {
	location, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 8, 23, 23, 30, 0, 0, time.UTC)
	if got := DateKey(raw, location); got != "2026-08-24" {
		t.Fatalf("expected date key 2026-08-24, got %q", got)
	}
	if got := DateKey(raw, time.UTC); got != "2026-08-23" {
		t.Fatalf("expected date key 2026-08-23, got %q", got)
	}
}

func TestWeekStartAnchorsToMonday(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{name: "monday maps to itself", day: time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC), want: "2026-08-17"},
		{name: "midweek maps back", day: time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC), want: "2026-08-17"},
		{name: "sunday maps to previous monday", day: time.Date(2026, 8, 23, 23, 59, 0, 0, time.UTC), want: "2026-08-17"},
		{name: "crosses month boundary", day: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), want: "2026-07-27"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.day, time.UTC).Format("2006-01-02"); got != tt.want {
				t.Fatalf("WeekStart() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMonthStart(t *testing.T) {
	day := time.Date(2026, 8, 23, 18, 45, 0, 0, time.UTC)
	if got := MonthStart(day, time.UTC).Format("2006-01-02"); got != "2026-08-01" {
		t.Fatalf("MonthStart() = %s, want 2026-08-01", got)
	}
}

func TestParseDateRejectsMalformedInput(t *testing.T) {
	if _, ok := ParseDate("2026-08-23", time.UTC); !ok {
		t.Fatal("expected valid ISO date to parse")
	}
	for _, raw := range []string{"", "not-a-date", "2026-13-01", "23.08.2026"} {
		if _, ok := ParseDate(raw, time.UTC); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
