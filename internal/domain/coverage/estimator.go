// Package coverage estimates how much of a query window is backed by
// usable telemetry, working directly on raw event timestamps. It is
// deliberately independent of interval reconstruction so coverage
// questions can be answered even when reconstruction is skipped.
package coverage

import "sort"

// Estimator converts a machine's raw event timestamps into an
// estimated number of covered minutes inside a window. The shipped
// implementation is a heuristic; keeping it behind this interface lets
// exact accounting replace it later without touching callers.
type Estimator interface {
	EstimateMinutes(timestamps []int64, windowStartTs, windowEndTs int64) float64
}

// SpanRatioEstimator estimates coverage from the fraction of the
// window spanned between a machine's first and last event. The output
// is a step function of that ratio, not a linear scale: a wide event
// span is taken as evidence the collector was alive for most of the
// window even if events are sparse inside it.
type SpanRatioEstimator struct{}

// NewSpanRatioEstimator returns the default step-function estimator.
func NewSpanRatioEstimator() *SpanRatioEstimator {
	return &SpanRatioEstimator{}
}

// EstimateMinutes implements Estimator. Timestamps may be unsorted;
// both ends of the span are clipped to the window. Zero usable
// timestamps estimate zero minutes.
func (e *SpanRatioEstimator) EstimateMinutes(timestamps []int64, windowStartTs, windowEndTs int64) float64 {
	if len(timestamps) == 0 || windowEndTs <= windowStartTs {
		return 0
	}

	ts := make([]int64, len(timestamps))
	copy(ts, timestamps)
	sort.Slice(ts, func(a, b int) bool { return ts[a] < ts[b] })

	first := ts[0]
	if first < windowStartTs {
		first = windowStartTs
	}
	last := ts[len(ts)-1]
	if last > windowEndTs {
		last = windowEndTs
	}

	windowMinutes := float64(windowEndTs-windowStartTs) / 60000.0
	spanMinutes := float64(last-first) / 60000.0
	if spanMinutes < 0 {
		spanMinutes = 0
	}

	spanRatio := spanMinutes / windowMinutes

	switch {
	case spanRatio > 0.8:
		return windowMinutes * 0.95
	case spanRatio > 0.5:
		return windowMinutes * 0.8
	case spanRatio > 0.2:
		return windowMinutes * 0.6
	default:
		return windowMinutes * 0.3
	}
}
