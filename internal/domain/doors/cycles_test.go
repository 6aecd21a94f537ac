package doors

import (
	"testing"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
)

func doorEvent(machineID, state string, at time.Time) telemetry.DoorEvent {
	return telemetry.DoorEvent{
		MachineID: machineID,
		Timestamp: at.UnixMilli(),
		State:     state,
		Side:      "FRONT",
		Position:  "CAR",
	}
}

func sequence(machineID string, start time.Time, steps ...struct {
	state string
	gap   time.Duration
}) []telemetry.DoorEvent {
	events := make([]telemetry.DoorEvent, 0, len(steps))
	at := start
	for _, s := range steps {
		at = at.Add(s.gap)
		events = append(events, doorEvent(machineID, s.state, at))
	}
	return events
}

func step(state string, gap time.Duration) struct {
	state string
	gap   time.Duration
} {
	return struct {
		state string
		gap   time.Duration
	}{state, gap}
}

func TestAnalyzeCyclesCompleteCycle(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	events := sequence("1", start,
		step(StateOpening, 0),
		step(StateOpened, 2*time.Second),
		step(StateClosing, 12*time.Second),
		step(StateClosed, 6*time.Second),
	)

	report := AnalyzeCycles(events, time.UTC)

	if report.TotalCycles != 1 {
		t.Errorf("TotalCycles = %d, want 1", report.TotalCycles)
	}
	if report.TotalReversals != 0 {
		t.Errorf("TotalReversals = %d, want 0", report.TotalReversals)
	}
	if len(report.Doors) != 1 {
		t.Fatalf("expected 1 door, got %d", len(report.Doors))
	}

	d := report.Doors[0]
	if d.OpenedDuration.Count != 1 || d.OpenedDuration.AvgSeconds != 12 {
		t.Errorf("opened duration = %+v, want 1 sample of 12s", d.OpenedDuration)
	}
	if d.ClosingDuration.Count != 1 || d.ClosingDuration.AvgSeconds != 6 {
		t.Errorf("closing duration = %+v, want 1 sample of 6s", d.ClosingDuration)
	}
	// No prior completed cycle, so no closed dwell sample yet.
	if d.ClosedDuration.Count != 0 {
		t.Errorf("closed duration count = %d, want 0", d.ClosedDuration.Count)
	}
	if len(d.Daily) != 1 || d.Daily[0].Date != "2026-03-01" || d.Daily[0].Cycles != 1 {
		t.Errorf("unexpected daily buckets: %+v", d.Daily)
	}
}

func TestAnalyzeCyclesReversal(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Close interrupted by a re-open, then a full cycle.
	events := sequence("1", start,
		step(StateOpening, 0),
		step(StateOpened, 2*time.Second),
		step(StateClosing, 5*time.Second),
		step(StateOpening, 2*time.Second), // reversal
		step(StateOpened, 2*time.Second),
		step(StateClosing, 5*time.Second),
		step(StateClosed, 3*time.Second),
	)

	report := AnalyzeCycles(events, time.UTC)

	if report.TotalCycles != 1 {
		t.Errorf("TotalCycles = %d, want 1", report.TotalCycles)
	}
	if report.TotalReversals != 1 {
		t.Errorf("TotalReversals = %d, want 1", report.TotalReversals)
	}
}

func TestAnalyzeCyclesClosedDwell(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Two complete cycles 10 minutes apart: the second Opening records
	// the dwell since the first Closed.
	events := append(
		sequence("1", start,
			step(StateOpening, 0),
			step(StateOpened, 2*time.Second),
			step(StateClosing, 5*time.Second),
			step(StateClosed, 3*time.Second),
		),
		sequence("1", start.Add(10*time.Minute),
			step(StateOpening, 0),
			step(StateOpened, 2*time.Second),
			step(StateClosing, 5*time.Second),
			step(StateClosed, 3*time.Second),
		)...,
	)

	report := AnalyzeCycles(events, time.UTC)

	if report.TotalCycles != 2 {
		t.Fatalf("TotalCycles = %d, want 2", report.TotalCycles)
	}
	d := report.Doors[0]
	if d.ClosedDuration.Count != 1 {
		t.Fatalf("closed dwell count = %d, want 1", d.ClosedDuration.Count)
	}
	// First cycle closed 10s after its opening; second opening is at
	// +10min, so the dwell is 590 seconds.
	if d.ClosedDuration.AvgSeconds != 590 {
		t.Errorf("closed dwell = %.1fs, want 590", d.ClosedDuration.AvgSeconds)
	}
}

func TestAnalyzeCyclesOutOfSequenceResets(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Closed without a Closing in progress completes nothing; the
	// following full cycle still counts.
	events := append(
		[]telemetry.DoorEvent{doorEvent("1", StateClosed, start)},
		sequence("1", start.Add(time.Minute),
			step(StateOpening, 0),
			step(StateOpened, 2*time.Second),
			step(StateClosing, 5*time.Second),
			step(StateClosed, 3*time.Second),
		)...,
	)

	report := AnalyzeCycles(events, time.UTC)

	if report.TotalCycles != 1 {
		t.Errorf("TotalCycles = %d, want 1", report.TotalCycles)
	}
	if report.TotalReversals != 0 {
		t.Errorf("TotalReversals = %d, want 0", report.TotalReversals)
	}

	// Opened without Opening contributes nothing either.
	orphan := []telemetry.DoorEvent{
		doorEvent("1", StateOpened, start),
		doorEvent("1", StateClosing, start.Add(5*time.Second)),
		doorEvent("1", StateClosed, start.Add(8*time.Second)),
	}
	report = AnalyzeCycles(orphan, time.UTC)
	if report.TotalCycles != 0 {
		t.Errorf("orphan sequence produced %d cycles, want 0", report.TotalCycles)
	}
}

func TestAnalyzeCyclesGroupsByDoor(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	full := func(machineID, side, position string, at time.Time) []telemetry.DoorEvent {
		mk := func(state string, offset time.Duration) telemetry.DoorEvent {
			return telemetry.DoorEvent{
				MachineID: machineID,
				Timestamp: at.Add(offset).UnixMilli(),
				State:     state,
				Side:      side,
				Position:  position,
			}
		}
		return []telemetry.DoorEvent{
			mk(StateOpening, 0),
			mk(StateOpened, 2*time.Second),
			mk(StateClosing, 7*time.Second),
			mk(StateClosed, 10*time.Second),
		}
	}

	var events []telemetry.DoorEvent
	events = append(events, full("2", "FRONT", "CAR", start)...)
	events = append(events, full("1", "REAR", "CAR", start)...)
	events = append(events, full("1", "FRONT", "CAR", start)...)

	report := AnalyzeCycles(events, time.UTC)

	if report.TotalCycles != 3 {
		t.Errorf("TotalCycles = %d, want 3", report.TotalCycles)
	}
	if len(report.Doors) != 3 {
		t.Fatalf("expected 3 doors, got %d", len(report.Doors))
	}

	// Doors come back sorted by machine, side, position.
	wantOrder := []DoorKey{
		{MachineID: "1", Side: "FRONT", Position: "CAR"},
		{MachineID: "1", Side: "REAR", Position: "CAR"},
		{MachineID: "2", Side: "FRONT", Position: "CAR"},
	}
	for i, want := range wantOrder {
		if report.Doors[i].Key != want {
			t.Errorf("door %d = %+v, want %+v", i, report.Doors[i].Key, want)
		}
	}
}

func TestAnalyzeCyclesDailyBucketsUseLocalDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2026-03-02 01:00 UTC is still 2026-03-01 in New York.
	start := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	events := sequence("1", start,
		step(StateOpening, 0),
		step(StateOpened, 2*time.Second),
		step(StateClosing, 5*time.Second),
		step(StateClosed, 3*time.Second),
	)

	report := AnalyzeCycles(events, loc)

	d := report.Doors[0]
	if len(d.Daily) != 1 || d.Daily[0].Date != "2026-03-01" {
		t.Errorf("daily buckets = %+v, want one bucket on 2026-03-01", d.Daily)
	}
}

func TestAnalyzeCyclesEmptyInput(t *testing.T) {
	report := AnalyzeCycles(nil, time.UTC)

	if report.TotalCycles != 0 || report.TotalReversals != 0 || len(report.Doors) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestAnalyzeCyclesUnsortedInput(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	events := []telemetry.DoorEvent{
		doorEvent("1", StateClosed, start.Add(10*time.Second)),
		doorEvent("1", StateOpening, start),
		doorEvent("1", StateClosing, start.Add(7*time.Second)),
		doorEvent("1", StateOpened, start.Add(2*time.Second)),
	}

	report := AnalyzeCycles(events, time.UTC)

	if report.TotalCycles != 1 {
		t.Errorf("TotalCycles = %d, want 1", report.TotalCycles)
	}
}
