package uptime

import (
	"fmt"
	"sort"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
)

// ModeInterval is a contiguous span during which one machine held one
// car mode, clipped to the query window. Built once per request and
// never mutated afterwards.
type ModeInterval struct {
	MachineID string     `json:"machineId"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	ModeName  string     `json:"mode"`
	Status    ModeStatus `json:"status"`
}

// DurationMinutes returns the interval length in minutes.
func (i ModeInterval) DurationMinutes() float64 {
	return i.End.Sub(i.Start).Minutes()
}

// BuildOptions tunes interval reconstruction.
type BuildOptions struct {
	// PriorMode is the car mode in effect just before the window
	// start, when known. Empty means unknown: time before the first
	// in-window event is then not represented at all. That gap is a
	// documented limitation of event-log reconstruction, not something
	// to paper over.
	PriorMode string

	// MergeAdjacent collapses consecutive intervals that share a mode
	// code. Off by default because interval count doubles as a
	// mode-change counter downstream.
	MergeAdjacent bool
}

// BuildIntervals reconstructs the gapless mode timeline for one
// machine inside [windowStart, windowEnd). Events may arrive unsorted;
// they are sorted by timestamp here (ties keep input order). Each
// event opens an interval at max(eventTime, windowStart) that runs to
// the next event or to windowEnd; intervals that collapse to zero or
// negative length are discarded. Zero events yield zero intervals,
// which is a valid "no data" result.
//
// windowEnd must be after windowStart; violating that is a caller bug
// and returns an error.
func BuildIntervals(machineID string, events []telemetry.CarModeEvent, windowStart, windowEnd time.Time, loc *time.Location, opts BuildOptions) ([]ModeInterval, error) {
	if !windowStart.Before(windowEnd) {
		return nil, fmt.Errorf("invalid window: start %s is not before end %s", windowStart, windowEnd)
	}

	sorted := make([]telemetry.CarModeEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Timestamp < sorted[b].Timestamp
	})

	intervals := make([]ModeInterval, 0, len(sorted)+1)

	if opts.PriorMode != "" {
		// The mode before the window is known, so the head of the
		// window is representable even before the first event.
		head := windowEnd
		if len(sorted) > 0 {
			first := time.UnixMilli(sorted[0].Timestamp).In(loc)
			if first.Before(head) {
				head = first
			}
		}
		if windowStart.Before(head) {
			intervals = append(intervals, ModeInterval{
				MachineID: machineID,
				Start:     windowStart,
				End:       head,
				ModeName:  opts.PriorMode,
				Status:    ClassifyMode(opts.PriorMode),
			})
		}
	}

	for i, ev := range sorted {
		start := time.UnixMilli(ev.Timestamp).In(loc)
		if start.Before(windowStart) {
			start = windowStart
		}

		end := windowEnd
		if i+1 < len(sorted) {
			next := time.UnixMilli(sorted[i+1].Timestamp).In(loc)
			if next.Before(end) {
				end = next
			}
		}

		if !start.Before(end) {
			continue
		}

		intervals = append(intervals, ModeInterval{
			MachineID: machineID,
			Start:     start,
			End:       end,
			ModeName:  ev.ModeName,
			Status:    ClassifyMode(ev.ModeName),
		})
	}

	if opts.MergeAdjacent {
		intervals = mergeAdjacent(intervals)
	}

	return intervals, nil
}

// mergeAdjacent collapses runs of contiguous intervals with identical
// mode codes. Minute totals are unaffected; only the interval count
// changes.
func mergeAdjacent(intervals []ModeInterval) []ModeInterval {
	if len(intervals) < 2 {
		return intervals
	}
	merged := make([]ModeInterval, 0, len(intervals))
	cur := intervals[0]
	for _, next := range intervals[1:] {
		if next.ModeName == cur.ModeName && next.Start.Equal(cur.End) {
			cur.End = next.End
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	merged = append(merged, cur)
	return merged
}
