package coverage

import (
	"fmt"
	"time"
)

// MachineCoverage is the estimated data completeness for one machine
// inside a window. A machine with zero events is Silent and estimates
// at exactly 0%.
type MachineCoverage struct {
	MachineID       string  `json:"machineId"`
	HasData         bool    `json:"hasData"`
	Silent          bool    `json:"silent"`
	EventCount      int     `json:"eventCount"`
	CoverageMinutes float64 `json:"coverageMinutes"`
	CoveragePct     float64 `json:"coveragePercentage"`
	FirstEventTs    int64   `json:"firstEvent,omitempty"`
	LastEventTs     int64   `json:"lastEvent,omitempty"`
}

// Gap flags a machine whose data is absent or thin enough to distort
// analysis built on top of it.
type Gap struct {
	Type        string  `json:"type"`
	MachineID   string  `json:"machineId"`
	Description string  `json:"description"`
	StartTime   string  `json:"startTime,omitempty"`
	EndTime     string  `json:"endTime,omitempty"`
	CoveragePct float64 `json:"coveragePercentage,omitempty"`
	Impact      string  `json:"impact"`
}

// DailyCoverage counts reporting machines per local calendar day.
type DailyCoverage struct {
	Date             string  `json:"date"`
	MachinesWithData int     `json:"machinesWithData"`
	TotalMachines    int     `json:"totalMachines"`
	CoveragePct      float64 `json:"coveragePercentage"`
}

// Report is the combined data-completeness picture for one
// installation and window. It is assembled from raw event timestamps
// only and never depends on interval reconstruction.
type Report struct {
	InstallationID        string            `json:"installationId"`
	Start                 time.Time         `json:"start"`
	End                   time.Time         `json:"end"`
	Timezone              string            `json:"timezone"`
	TotalExpectedMinutes  float64           `json:"totalExpectedMinutes"`
	TotalAvailableMinutes float64           `json:"totalAvailableMinutes"`
	OverallCoveragePct    float64           `json:"overallCoveragePercentage"`
	MachinesTotal         int               `json:"machinesTotal"`
	MachinesWithData      int               `json:"machinesWithData"`
	MachinesWithoutData   int               `json:"machinesWithoutData"`
	DataTypesPresent      []string          `json:"dataTypesPresent"`
	MachineCoverage       []MachineCoverage `json:"machineCoverage"`
	DailyCoverage         []DailyCoverage   `json:"dailyCoverage"`
	Gaps                  []Gap             `json:"dataGaps"`
	Warnings              []string          `json:"coverageWarnings"`
}

// AnalyzeMachines estimates per-machine coverage for every machine in
// machineIDs (in the given order), using the supplied estimator over
// that machine's raw timestamps. Machines absent from tsByMachine are
// silent. The second return value is the sum of estimated minutes.
func AnalyzeMachines(machineIDs []string, tsByMachine map[string][]int64, windowStartTs, windowEndTs int64, est Estimator) ([]MachineCoverage, float64) {
	expectedPerMachine := float64(windowEndTs-windowStartTs) / 60000.0

	out := make([]MachineCoverage, 0, len(machineIDs))
	var totalAvailable float64

	for _, id := range machineIDs {
		ts := tsByMachine[id]
		if len(ts) == 0 {
			out = append(out, MachineCoverage{MachineID: id, Silent: true})
			continue
		}

		minutes := est.EstimateMinutes(ts, windowStartTs, windowEndTs)
		var pct float64
		if expectedPerMachine > 0 {
			pct = minutes / expectedPerMachine * 100
		}

		first, last := ts[0], ts[0]
		for _, t := range ts[1:] {
			if t < first {
				first = t
			}
			if t > last {
				last = t
			}
		}

		out = append(out, MachineCoverage{
			MachineID:       id,
			HasData:         true,
			EventCount:      len(ts),
			CoverageMinutes: minutes,
			CoveragePct:     pct,
			FirstEventTs:    first,
			LastEventTs:     last,
		})
		totalAvailable += minutes
	}

	return out, totalAvailable
}

// OverallPct computes the installation-wide estimated coverage.
// Expected minutes scale with the machine count; a zero denominator
// yields 0, never NaN.
func OverallPct(totalAvailableMinutes float64, windowStartTs, windowEndTs int64, machineCount int) float64 {
	expected := float64(windowEndTs-windowStartTs) / 60000.0 * float64(machineCount)
	if expected <= 0 {
		return 0
	}
	return totalAvailableMinutes / expected * 100
}

// IdentifyGaps flags silent machines (high impact) and machines whose
// estimated coverage sits below half the window (medium impact).
func IdentifyGaps(machines []MachineCoverage, windowStart, windowEnd time.Time) []Gap {
	var gaps []Gap

	for _, m := range machines {
		if !m.HasData {
			gaps = append(gaps, Gap{
				Type:        "machine_no_data",
				MachineID:   m.MachineID,
				Description: fmt.Sprintf("No car mode events found for elevator %s", m.MachineID),
				StartTime:   windowStart.Format(time.RFC3339),
				EndTime:     windowEnd.Format(time.RFC3339),
				Impact:      "high",
			})
		}
	}

	for _, m := range machines {
		if m.HasData && m.CoveragePct < 50.0 {
			gaps = append(gaps, Gap{
				Type:        "low_coverage",
				MachineID:   m.MachineID,
				Description: fmt.Sprintf("Low data coverage (%.1f%%) for elevator %s", m.CoveragePct, m.MachineID),
				CoveragePct: m.CoveragePct,
				Impact:      "medium",
			})
		}
	}

	return gaps
}

// BuildWarnings derives the report-level warning strings. Thresholds:
// overall coverage below 70% warns, every silent machine is named, and
// an installation with no reporting machines at all is flagged as
// critical.
func BuildWarnings(overallPct float64, machines []MachineCoverage, carModePresent, doorPresent bool) []string {
	var warnings []string

	if overallPct < 70.0 {
		warnings = append(warnings, fmt.Sprintf("Low overall data coverage (%.1f%%) - results may be incomplete", overallPct))
	}

	withData := 0
	for _, m := range machines {
		if m.HasData {
			withData++
		}
	}

	if withData == 0 {
		warnings = append(warnings, "CRITICAL: no elevator data found for the selected period")
	} else if withData < len(machines) {
		for _, m := range machines {
			if !m.HasData {
				warnings = append(warnings, fmt.Sprintf("Elevator %s is silent for this period", m.MachineID))
			}
		}
	}

	if !carModePresent {
		warnings = append(warnings, "No operational data (car mode events) found")
	}
	if !doorPresent {
		warnings = append(warnings, "No door cycle data available for this period")
	}

	return warnings
}

// BuildDailyCoverage counts reporting machines per local day touched
// by the window. A machine that reported anywhere in the window counts
// for every day; day-level attribution would need the per-day event
// split the estimator deliberately does not compute.
func BuildDailyCoverage(machines []MachineCoverage, windowStart, windowEnd time.Time, loc *time.Location) []DailyCoverage {
	if !windowStart.Before(windowEnd) {
		return nil
	}

	withData := 0
	for _, m := range machines {
		if m.HasData {
			withData++
		}
	}

	var pct float64
	if len(machines) > 0 {
		pct = float64(withData) / float64(len(machines)) * 100
	}

	var days []DailyCoverage
	y, mo, d := windowStart.In(loc).Date()
	dayStart := time.Date(y, mo, d, 0, 0, 0, 0, loc)
	for dayStart.Before(windowEnd) {
		days = append(days, DailyCoverage{
			Date:             dayStart.Format("2006-01-02"),
			MachinesWithData: withData,
			TotalMachines:    len(machines),
			CoveragePct:      pct,
		})
		dayStart = dayStart.AddDate(0, 0, 1)
	}

	return days
}
