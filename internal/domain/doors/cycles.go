// Package doors reconstructs door cycles from door state events. A
// cycle is the full Opening, Opened, Closing, Closed sequence for one
// physical door; reversals are re-openings that interrupt a close in
// progress.
package doors

import (
	"sort"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
)

// Door state names as they appear on the wire.
const (
	StateOpening = "Opening"
	StateOpened  = "Opened"
	StateClosing = "Closing"
	StateClosed  = "Closed"
)

// phase tracks progress through one cycle.
type phase int

const (
	phaseIdle phase = iota
	phaseOpening
	phaseOpened
	phaseClosing
)

// DoorKey identifies one physical door.
type DoorKey struct {
	MachineID string `json:"machineId"`
	Side      string `json:"side"`
	Position  string `json:"position"`
}

// DurationStats summarizes one duration series in seconds.
type DurationStats struct {
	Count      int     `json:"count"`
	AvgSeconds float64 `json:"avgSeconds"`
	MinSeconds float64 `json:"minSeconds"`
	MaxSeconds float64 `json:"maxSeconds"`
}

// DailyCycles is the cycle and reversal count for one local day.
type DailyCycles struct {
	Date      string `json:"date"`
	Cycles    int    `json:"cycles"`
	Reversals int    `json:"reversals"`
}

// DoorStats is the full cycle picture for one physical door.
type DoorStats struct {
	Key             DoorKey       `json:"door"`
	TotalCycles     int           `json:"totalCycles"`
	TotalReversals  int           `json:"totalReversals"`
	Daily           []DailyCycles `json:"daily"`
	OpenedDuration  DurationStats `json:"openedDuration"`
	ClosingDuration DurationStats `json:"closingDuration"`
	ClosedDuration  DurationStats `json:"closedDuration"`
}

// Report aggregates cycle stats across an installation.
type Report struct {
	TotalCycles    int         `json:"totalCycles"`
	TotalReversals int         `json:"totalReversals"`
	Doors          []DoorStats `json:"doors"`
}

// machineState is the FSM for one door while scanning its events.
type machineState struct {
	phase          phase
	openedAt       int64
	closingAt      int64
	lastClosedAt   int64
	closedRecorded bool

	cyclesByDay    map[string]int
	reversalsByDay map[string]int

	openedSamples  []float64
	closingSamples []float64
	closedSamples  []float64
}

// AnalyzeCycles groups events by door and runs the cycle state machine
// over each group in timestamp order. Doors are returned sorted by
// machine ID, side, then position so repeated runs over the same input
// produce identical output.
//
// State machine rules: Opening starts a cycle, Opened must follow
// Opening, Closing must follow Opened, Closed must follow Closing and
// completes the cycle. An Opening that arrives after Closing but before
// Closed counts the interrupted attempt as a reversal and starts a new
// cycle. Any other out-of-sequence state silently resets the machine to
// idle; events from a half-observed cycle contribute nothing.
func AnalyzeCycles(events []telemetry.DoorEvent, loc *time.Location) Report {
	groups := make(map[DoorKey][]telemetry.DoorEvent)
	for _, ev := range events {
		key := DoorKey{MachineID: ev.MachineID, Side: ev.Side, Position: ev.Position}
		groups[key] = append(groups[key], ev)
	}

	keys := make([]DoorKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].MachineID != keys[b].MachineID {
			return keys[a].MachineID < keys[b].MachineID
		}
		if keys[a].Side != keys[b].Side {
			return keys[a].Side < keys[b].Side
		}
		return keys[a].Position < keys[b].Position
	})

	report := Report{}
	for _, key := range keys {
		stats := analyzeDoor(key, groups[key], loc)
		report.TotalCycles += stats.TotalCycles
		report.TotalReversals += stats.TotalReversals
		report.Doors = append(report.Doors, stats)
	}
	return report
}

func analyzeDoor(key DoorKey, events []telemetry.DoorEvent, loc *time.Location) DoorStats {
	sorted := make([]telemetry.DoorEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Timestamp < sorted[b].Timestamp
	})

	st := &machineState{
		cyclesByDay:    make(map[string]int),
		reversalsByDay: make(map[string]int),
	}

	for _, ev := range sorted {
		day := time.UnixMilli(ev.Timestamp).In(loc).Format("2006-01-02")

		switch ev.State {
		case StateOpening:
			if st.phase == phaseClosing {
				// The close was interrupted by a re-open.
				st.reversalsByDay[day]++
			}
			if st.closedRecorded {
				// Dwell time between the last completed cycle and
				// this one.
				dwell := float64(ev.Timestamp-st.lastClosedAt) / 1000.0
				if dwell >= 0 {
					st.closedSamples = append(st.closedSamples, dwell)
				}
				st.closedRecorded = false
			}
			st.phase = phaseOpening

		case StateOpened:
			if st.phase == phaseOpening {
				st.phase = phaseOpened
				st.openedAt = ev.Timestamp
			} else {
				st.reset()
			}

		case StateClosing:
			if st.phase == phaseOpened {
				st.phase = phaseClosing
				st.closingAt = ev.Timestamp
				hold := float64(ev.Timestamp-st.openedAt) / 1000.0
				if hold >= 0 {
					st.openedSamples = append(st.openedSamples, hold)
				}
			} else {
				st.reset()
			}

		case StateClosed:
			if st.phase == phaseClosing {
				st.cyclesByDay[day]++
				closing := float64(ev.Timestamp-st.closingAt) / 1000.0
				if closing >= 0 {
					st.closingSamples = append(st.closingSamples, closing)
				}
				st.lastClosedAt = ev.Timestamp
				st.closedRecorded = true
			}
			st.phase = phaseIdle

		default:
			st.reset()
		}
	}

	stats := DoorStats{
		Key:             key,
		Daily:           dailyFromMaps(st.cyclesByDay, st.reversalsByDay),
		OpenedDuration:  summarize(st.openedSamples),
		ClosingDuration: summarize(st.closingSamples),
		ClosedDuration:  summarize(st.closedSamples),
	}
	for _, d := range stats.Daily {
		stats.TotalCycles += d.Cycles
		stats.TotalReversals += d.Reversals
	}
	return stats
}

// reset abandons the cycle in progress. The closed dwell anchor is
// kept: an aborted cycle does not erase when the door last closed.
func (st *machineState) reset() {
	st.phase = phaseIdle
}

func dailyFromMaps(cycles, reversals map[string]int) []DailyCycles {
	seen := make(map[string]struct{}, len(cycles)+len(reversals))
	for d := range cycles {
		seen[d] = struct{}{}
	}
	for d := range reversals {
		seen[d] = struct{}{}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DailyCycles, 0, len(dates))
	for _, d := range dates {
		out = append(out, DailyCycles{Date: d, Cycles: cycles[d], Reversals: reversals[d]})
	}
	return out
}

func summarize(samples []float64) DurationStats {
	s := DurationStats{Count: len(samples)}
	if len(samples) == 0 {
		return s
	}

	s.MinSeconds = samples[0]
	s.MaxSeconds = samples[0]
	var sum float64
	for _, v := range samples {
		sum += v
		if v < s.MinSeconds {
			s.MinSeconds = v
		}
		if v > s.MaxSeconds {
			s.MaxSeconds = v
		}
	}
	s.AvgSeconds = sum / float64(len(samples))
	return s
}
