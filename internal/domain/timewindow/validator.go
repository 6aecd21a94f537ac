// Package timewindow validates requested analysis date ranges against
// the current time and configured span limits. Validation never
// returns a Go error: a bad range is a structured result the caller
// reports back, not a failure of the validator.
package timewindow

import (
	"fmt"
	"time"
)

// Options tunes range validation. Zero values fall back to the
// defaults in Validate.
type Options struct {
	// MaxRangeDays is the largest allowed end-start span in calendar
	// days. Defaults to 14.
	MaxRangeDays int

	// LargeRangeWarningDays adds a warning (never an error) when the
	// span exceeds it. Defaults to 365.
	LargeRangeWarningDays int

	// RejectEndToday treats an end date equal to the current local
	// date as invalid, for callers that only want fully elapsed days.
	RejectEndToday bool
}

// Validation is the outcome of checking one requested range. Every
// rule is evaluated even after the first failure so the caller sees
// the full list of problems in one pass.
type Validation struct {
	IsValid             bool     `json:"isValid"`
	Errors              []string `json:"errors,omitempty"`
	Warnings            []string `json:"warnings,omitempty"`
	Recommendations     []string `json:"recommendations,omitempty"`
	LatestAvailableDate string   `json:"latestAvailableDate"`
	CurrentTimeLocal    string   `json:"currentTimeLocal"`
}

// Validate checks [start, end) against now, all interpreted in loc.
// Date comparisons use local calendar dates, not instants, so a start
// of 23:59 today is "today" regardless of how much of the day remains.
func Validate(start, end, now time.Time, loc *time.Location, opts Options) Validation {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 14
	}
	if opts.LargeRangeWarningDays <= 0 {
		opts.LargeRangeWarningDays = 365
	}

	nowLocal := now.In(loc)
	startLocal := start.In(loc)
	endLocal := end.In(loc)

	today := dateOnly(nowLocal)
	startDate := dateOnly(startLocal)
	endDate := dateOnly(endLocal)

	v := Validation{
		IsValid:          true,
		CurrentTimeLocal: nowLocal.Format(time.RFC3339),
	}

	latest := today
	if opts.RejectEndToday {
		latest = today.AddDate(0, 0, -1)
	}
	v.LatestAvailableDate = latest.Format("2006-01-02")

	if startDate.After(today) {
		v.IsValid = false
		v.Errors = append(v.Errors, fmt.Sprintf("start date %s is in the future", startDate.Format("2006-01-02")))
		v.Recommendations = append(v.Recommendations, fmt.Sprintf("use a start date on or before %s", today.Format("2006-01-02")))
	}

	if endDate.After(today) || (opts.RejectEndToday && endDate.Equal(today)) {
		v.IsValid = false
		v.Errors = append(v.Errors, fmt.Sprintf("end date %s is not yet available", endDate.Format("2006-01-02")))
		v.Recommendations = append(v.Recommendations, fmt.Sprintf("use an end date on or before %s", v.LatestAvailableDate))
	}

	if !start.Before(end) {
		v.IsValid = false
		v.Errors = append(v.Errors, "start date must be before end date")
	}

	spanDays := daysBetween(startDate, endDate)
	if spanDays > opts.MaxRangeDays {
		v.IsValid = false
		v.Errors = append(v.Errors, fmt.Sprintf("date range spans %d days, maximum is %d", spanDays, opts.MaxRangeDays))
		earliest := endDate.AddDate(0, 0, -opts.MaxRangeDays)
		v.Recommendations = append(v.Recommendations, fmt.Sprintf("use a start date of %s or later for this end date", earliest.Format("2006-01-02")))
	}

	if spanDays > opts.LargeRangeWarningDays {
		v.Warnings = append(v.Warnings, fmt.Sprintf("date range spans more than %d days, results may be slow to compute", opts.LargeRangeWarningDays))
	}

	return v
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. Both dates are
// re-anchored to UTC midnights first so a DST transition inside the
// range cannot shift the count by a missing or repeated hour.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
