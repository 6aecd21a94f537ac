package coverage

import (
	"strings"
	"testing"
	"time"
)

func TestAnalyzeMachinesSilentMachine(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	startTs := start.UnixMilli()
	endTs := start.Add(100 * time.Minute).UnixMilli()

	tsByMachine := map[string][]int64{
		"1": {startTs, startTs + 90*60000},
	}

	machines, total := AnalyzeMachines([]string{"1", "2"}, tsByMachine, startTs, endTs, NewSpanRatioEstimator())

	if len(machines) != 2 {
		t.Fatalf("expected 2 machines, got %d", len(machines))
	}
	if !machines[0].HasData || machines[0].Silent {
		t.Errorf("machine 1 should have data: %+v", machines[0])
	}
	if machines[0].CoveragePct != 95 {
		t.Errorf("machine 1 coverage = %.1f%%, want 95", machines[0].CoveragePct)
	}
	if machines[1].HasData || !machines[1].Silent {
		t.Errorf("machine 2 should be silent: %+v", machines[1])
	}
	if machines[1].CoveragePct != 0 || machines[1].CoverageMinutes != 0 {
		t.Errorf("silent machine estimates at %.1f%%, want exactly 0", machines[1].CoveragePct)
	}
	if total != 95 {
		t.Errorf("total available = %.1f, want 95", total)
	}
}

func TestOverallPct(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	startTs := start.UnixMilli()
	endTs := start.Add(100 * time.Minute).UnixMilli()

	// 95 available minutes over 2 machines x 100 expected = 47.5%.
	if got := OverallPct(95, startTs, endTs, 2); got != 47.5 {
		t.Errorf("OverallPct = %.2f, want 47.5", got)
	}
	// Zero machines: zero, never NaN.
	if got := OverallPct(95, startTs, endTs, 0); got != 0 {
		t.Errorf("OverallPct with zero machines = %.2f, want 0", got)
	}
}

func TestBuildWarningsLowCoverage(t *testing.T) {
	machines := []MachineCoverage{
		{MachineID: "1", HasData: true},
		{MachineID: "2", Silent: true},
	}

	warnings := BuildWarnings(47.5, machines, true, true)

	if !containsSubstring(warnings, "Low overall data coverage") {
		t.Errorf("expected low coverage warning, got %v", warnings)
	}
	if !containsSubstring(warnings, "Elevator 2 is silent") {
		t.Errorf("expected silent machine named, got %v", warnings)
	}
}

func TestBuildWarningsNoDataIsCritical(t *testing.T) {
	machines := []MachineCoverage{
		{MachineID: "1", Silent: true},
		{MachineID: "2", Silent: true},
	}

	warnings := BuildWarnings(0, machines, false, false)

	if !containsSubstring(warnings, "CRITICAL") {
		t.Errorf("expected critical warning, got %v", warnings)
	}
	// Silent machines are not individually named when nothing reported.
	if containsSubstring(warnings, "Elevator 1 is silent") {
		t.Errorf("individual silent warnings should be suppressed, got %v", warnings)
	}
	if !containsSubstring(warnings, "No operational data") {
		t.Errorf("expected missing car mode warning, got %v", warnings)
	}
	if !containsSubstring(warnings, "No door cycle data") {
		t.Errorf("expected missing door warning, got %v", warnings)
	}
}

func TestBuildWarningsHealthy(t *testing.T) {
	machines := []MachineCoverage{
		{MachineID: "1", HasData: true},
		{MachineID: "2", HasData: true},
	}

	warnings := BuildWarnings(95, machines, true, true)

	if len(warnings) != 0 {
		t.Errorf("expected no warnings for healthy coverage, got %v", warnings)
	}
}

func TestIdentifyGaps(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	machines := []MachineCoverage{
		{MachineID: "1", HasData: true, CoveragePct: 95},
		{MachineID: "2", Silent: true},
		{MachineID: "3", HasData: true, CoveragePct: 30},
	}

	gaps := IdentifyGaps(machines, start, end)

	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d: %+v", len(gaps), gaps)
	}
	if gaps[0].Type != "machine_no_data" || gaps[0].MachineID != "2" || gaps[0].Impact != "high" {
		t.Errorf("unexpected no-data gap: %+v", gaps[0])
	}
	if gaps[1].Type != "low_coverage" || gaps[1].MachineID != "3" || gaps[1].Impact != "medium" {
		t.Errorf("unexpected low-coverage gap: %+v", gaps[1])
	}
}

func TestBuildDailyCoverage(t *testing.T) {
	loc := time.UTC
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 3)

	machines := []MachineCoverage{
		{MachineID: "1", HasData: true},
		{MachineID: "2", Silent: true},
	}

	days := BuildDailyCoverage(machines, start, end, loc)

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for _, d := range days {
		if d.MachinesWithData != 1 || d.TotalMachines != 2 {
			t.Errorf("day %s machines = %d/%d, want 1/2", d.Date, d.MachinesWithData, d.TotalMachines)
		}
		if d.CoveragePct != 50 {
			t.Errorf("day %s coverage = %.1f%%, want 50", d.Date, d.CoveragePct)
		}
	}
}

func containsSubstring(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
