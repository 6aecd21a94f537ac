package timewindow

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func validate(start, end time.Time, opts Options) Validation {
	return Validate(start, end, testNow, time.UTC, opts)
}

func TestValidateAcceptsNormalRange(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	v := validate(start, end, Options{})

	if !v.IsValid {
		t.Errorf("expected valid, got errors %v", v.Errors)
	}
	if len(v.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", v.Warnings)
	}
	if v.LatestAvailableDate != "2026-03-15" {
		t.Errorf("LatestAvailableDate = %s, want 2026-03-15", v.LatestAvailableDate)
	}
}

func TestValidateRejectsFutureStart(t *testing.T) {
	start := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)

	v := validate(start, end, Options{})

	if v.IsValid {
		t.Fatal("expected invalid for future start")
	}
	if !anyContains(v.Errors, "start date 2026-03-20 is in the future") {
		t.Errorf("missing future-start error: %v", v.Errors)
	}
	if len(v.Recommendations) == 0 {
		t.Error("expected a recommendation")
	}
}

func TestValidateRejectsFutureEnd(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	v := validate(start, end, Options{})

	if v.IsValid {
		t.Fatal("expected invalid for future end")
	}
	if !anyContains(v.Errors, "end date 2026-03-20 is not yet available") {
		t.Errorf("missing future-end error: %v", v.Errors)
	}
}

func TestValidateEndTodayPolicy(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	endToday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Default: an end date of today is allowed.
	v := validate(start, endToday, Options{})
	if !v.IsValid {
		t.Errorf("end today should be valid by default, got %v", v.Errors)
	}

	// RejectEndToday: only fully elapsed days are allowed.
	v = validate(start, endToday, Options{RejectEndToday: true})
	if v.IsValid {
		t.Error("end today should be invalid with RejectEndToday")
	}
	if v.LatestAvailableDate != "2026-03-14" {
		t.Errorf("LatestAvailableDate = %s, want 2026-03-14", v.LatestAvailableDate)
	}
}

func TestValidateRejectsInvertedRange(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	v := validate(start, end, Options{})

	if v.IsValid {
		t.Fatal("expected invalid for inverted range")
	}
	if !anyContains(v.Errors, "start date must be before end date") {
		t.Errorf("missing order error: %v", v.Errors)
	}
}

func TestValidateMaxRangeDays(t *testing.T) {
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Exactly 14 days is allowed.
	v := validate(end.AddDate(0, 0, -14), end, Options{})
	if !v.IsValid {
		t.Errorf("14-day range should be valid, got %v", v.Errors)
	}

	// 15 days is rejected with a suggested earliest start.
	v = validate(end.AddDate(0, 0, -15), end, Options{})
	if v.IsValid {
		t.Fatal("15-day range should be invalid")
	}
	if !anyContains(v.Errors, "date range spans 15 days, maximum is 14") {
		t.Errorf("missing span error: %v", v.Errors)
	}
	if !anyContains(v.Recommendations, "2026-03-01") {
		t.Errorf("expected earliest valid start 2026-03-01 in recommendations: %v", v.Recommendations)
	}
}

func TestValidateSpanAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// New York springs forward on 2026-03-08, so this window contains a
	// 23-hour day. The cap counts calendar days, not elapsed hours.
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, loc)
	end := time.Date(2026, 3, 16, 0, 0, 0, 0, loc)

	v := Validate(time.Date(2026, 3, 1, 0, 0, 0, 0, loc), end, now, loc, Options{})
	if v.IsValid {
		t.Fatal("15-day range crossing the transition should be invalid")
	}
	if !anyContains(v.Errors, "date range spans 15 days, maximum is 14") {
		t.Errorf("missing span error: %v", v.Errors)
	}

	v = Validate(time.Date(2026, 3, 2, 0, 0, 0, 0, loc), end, now, loc, Options{})
	if !v.IsValid {
		t.Errorf("14-day range crossing the transition should be valid, got %v", v.Errors)
	}
}

func TestValidateLargeRangeWarning(t *testing.T) {
	// A 400-day historical span exceeds the 14-day cap, so it is
	// already invalid; the large-range warning is still attached.
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -400)

	v := validate(start, end, Options{})

	if v.IsValid {
		t.Fatal("400-day range should be invalid")
	}
	if !anyContains(v.Warnings, "more than 365 days") {
		t.Errorf("missing large-range warning: %v", v.Warnings)
	}
}

func TestValidateReportsAllProblemsAtOnce(t *testing.T) {
	// Inverted AND future: both errors must surface in one pass.
	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	v := validate(start, end, Options{})

	if v.IsValid {
		t.Fatal("expected invalid")
	}
	if len(v.Errors) < 3 {
		t.Errorf("expected future-start, future-end and order errors together, got %v", v.Errors)
	}
}

func TestValidateUsesLocalDates(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2026-03-16 01:00 UTC is still 2026-03-15 in New York, so a start
	// at that instant is "today", not the future.
	now := time.Date(2026, 3, 16, 1, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 16, 0, 30, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	v := Validate(start, end, now, loc, Options{})

	if !v.IsValid {
		t.Errorf("expected valid in local dates, got %v", v.Errors)
	}
}

func anyContains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
