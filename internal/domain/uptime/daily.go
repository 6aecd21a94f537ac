package uptime

import "time"

// DailyAvailability describes how much of one local calendar day
// inside the query window is backed by reconstructed intervals. It
// exists to explain partial coverage; totals are never recomputed
// from it.
type DailyAvailability struct {
	Date            string  `json:"date"`
	ExpectedMinutes float64 `json:"expectedMinutes"`
	ActualMinutes   float64 `json:"actualMinutes"`
	AvailabilityPct float64 `json:"availabilityPercentage"`
	HasData         bool    `json:"hasData"`
}

// CalculateDailyAvailability slices intervals by local calendar day
// across [windowStart, windowEnd). Interior days expect 1440 minutes;
// the first and last days expect only the portion inside the window.
// ActualMinutes for a day can never exceed its ExpectedMinutes because
// both are clipped to the same day-window intersection.
func CalculateDailyAvailability(intervals []ModeInterval, windowStart, windowEnd time.Time, loc *time.Location) []DailyAvailability {
	if !windowStart.Before(windowEnd) {
		return nil
	}

	var days []DailyAvailability

	y, m, d := windowStart.In(loc).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	for dayStart.Before(windowEnd) {
		dayEnd := dayStart.AddDate(0, 0, 1)

		lo := maxTime(dayStart, windowStart)
		hi := minTime(dayEnd, windowEnd)

		expected := hi.Sub(lo).Minutes()
		if expected <= 0 {
			dayStart = dayEnd
			continue
		}

		var actual float64
		for _, iv := range intervals {
			s := maxTime(iv.Start, lo)
			e := minTime(iv.End, hi)
			if s.Before(e) {
				actual += e.Sub(s).Minutes()
			}
		}

		var pct float64
		if expected > 0 {
			pct = actual / expected * 100
		}

		days = append(days, DailyAvailability{
			Date:            dayStart.Format("2006-01-02"),
			ExpectedMinutes: expected,
			ActualMinutes:   actual,
			AvailabilityPct: pct,
			HasData:         actual > 0,
		})

		dayStart = dayEnd
	}

	return days
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
