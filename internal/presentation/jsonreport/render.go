// Package jsonreport renders analysis results as JSON for output.
// Percentages and minute totals are rounded to one decimal place here
// and only here; everything upstream carries full precision.
package jsonreport

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/LiftOpsHQ/liftops-go/internal/application/services"
	"github.com/LiftOpsHQ/liftops-go/internal/domain/coverage"
	"github.com/LiftOpsHQ/liftops-go/internal/domain/doors"
	"github.com/LiftOpsHQ/liftops-go/internal/domain/uptime"
)

// CombinedReport bundles the three analyses for one installation and
// window into a single output document.
type CombinedReport struct {
	Uptime   *services.UptimeReport `json:"uptime,omitempty"`
	Coverage *coverage.Report       `json:"coverage,omitempty"`
	Doors    *services.DoorReport   `json:"doors,omitempty"`
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Render marshals a combined report with display rounding applied.
// The inputs are not mutated.
func Render(report CombinedReport) ([]byte, error) {
	if report.Uptime != nil {
		u := *report.Uptime
		roundUptime(&u)
		report.Uptime = &u
	}
	if report.Coverage != nil {
		c := *report.Coverage
		roundCoverage(&c)
		report.Coverage = &c
	}
	if report.Doors != nil {
		d := *report.Doors
		roundDoors(&d)
		report.Doors = &d
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

func roundUptime(r *services.UptimeReport) {
	s := r.Summary
	s.UptimeMinutes = Round1(s.UptimeMinutes)
	s.DowntimeMinutes = Round1(s.DowntimeMinutes)
	s.UnknownMinutes = Round1(s.UnknownMinutes)
	s.TotalMinutes = Round1(s.TotalMinutes)
	s.UptimePct = Round1(s.UptimePct)
	s.DowntimePct = Round1(s.DowntimePct)
	s.ExpectedTotalMinutes = Round1(s.ExpectedTotalMinutes)
	s.DataCoveragePct = Round1(s.DataCoveragePct)
	r.Summary = s

	r.Machines = append([]uptime.MachineMetrics(nil), r.Machines...)
	for i := range r.Machines {
		m := &r.Machines[i]
		m.UptimeMinutes = Round1(m.UptimeMinutes)
		m.DowntimeMinutes = Round1(m.DowntimeMinutes)
		m.UnknownMinutes = Round1(m.UnknownMinutes)
		m.TotalMinutes = Round1(m.TotalMinutes)
		m.UptimePct = Round1(m.UptimePct)
		m.DowntimePct = Round1(m.DowntimePct)
		m.CoveragePctOfWindow = Round1(m.CoveragePctOfWindow)
	}

	if r.DailyBreakdown != nil {
		rounded := make(map[string][]uptime.DailyAvailability, len(r.DailyBreakdown))
		for id, days := range r.DailyBreakdown {
			days = append([]uptime.DailyAvailability(nil), days...)
			for i := range days {
				days[i].ExpectedMinutes = Round1(days[i].ExpectedMinutes)
				days[i].ActualMinutes = Round1(days[i].ActualMinutes)
				days[i].AvailabilityPct = Round1(days[i].AvailabilityPct)
			}
			rounded[id] = days
		}
		r.DailyBreakdown = rounded
	}
}

func roundCoverage(r *coverage.Report) {
	r.TotalExpectedMinutes = Round1(r.TotalExpectedMinutes)
	r.TotalAvailableMinutes = Round1(r.TotalAvailableMinutes)
	r.OverallCoveragePct = Round1(r.OverallCoveragePct)

	r.MachineCoverage = append([]coverage.MachineCoverage(nil), r.MachineCoverage...)
	r.DailyCoverage = append([]coverage.DailyCoverage(nil), r.DailyCoverage...)
	r.Gaps = append([]coverage.Gap(nil), r.Gaps...)
	for i := range r.MachineCoverage {
		r.MachineCoverage[i].CoverageMinutes = Round1(r.MachineCoverage[i].CoverageMinutes)
		r.MachineCoverage[i].CoveragePct = Round1(r.MachineCoverage[i].CoveragePct)
	}
	for i := range r.DailyCoverage {
		r.DailyCoverage[i].CoveragePct = Round1(r.DailyCoverage[i].CoveragePct)
	}
	for i := range r.Gaps {
		r.Gaps[i].CoveragePct = Round1(r.Gaps[i].CoveragePct)
	}
}

func roundDoors(r *services.DoorReport) {
	r.Cycles.Doors = append([]doors.DoorStats(nil), r.Cycles.Doors...)
	for i := range r.Cycles.Doors {
		d := &r.Cycles.Doors[i]
		d.OpenedDuration = roundStats(d.OpenedDuration)
		d.ClosingDuration = roundStats(d.ClosingDuration)
		d.ClosedDuration = roundStats(d.ClosedDuration)
	}
}

func roundStats(s doors.DurationStats) doors.DurationStats {
	s.AvgSeconds = Round1(s.AvgSeconds)
	s.MinSeconds = Round1(s.MinSeconds)
	s.MaxSeconds = Round1(s.MaxSeconds)
	return s
}
