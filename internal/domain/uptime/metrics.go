package uptime

import "sort"

// MachineMetrics aggregates reconstructed intervals for one machine.
type MachineMetrics struct {
	MachineID           string         `json:"machineId"`
	UptimeMinutes       float64        `json:"uptimeMinutes"`
	DowntimeMinutes     float64        `json:"downtimeMinutes"`
	UnknownMinutes      float64        `json:"unknownMinutes"`
	TotalMinutes        float64        `json:"totalMinutes"`
	UptimePct           float64        `json:"uptimePercentage"`
	DowntimePct         float64        `json:"downtimePercentage"`
	CoveragePctOfWindow float64        `json:"dataCoveragePercentage"`
	HasData             bool           `json:"hasData"`
	Intervals           []ModeInterval `json:"intervals"`
}

// InstallationSummary rolls MachineMetrics up across an installation.
type InstallationSummary struct {
	UptimeMinutes        float64 `json:"uptimeMinutes"`
	DowntimeMinutes      float64 `json:"downtimeMinutes"`
	UnknownMinutes       float64 `json:"unknownMinutes"`
	TotalMinutes         float64 `json:"totalMinutes"`
	UptimePct            float64 `json:"uptimePercentage"`
	DowntimePct          float64 `json:"downtimePercentage"`
	ExpectedTotalMinutes float64 `json:"expectedTotalMinutes"`
	DataCoveragePct      float64 `json:"dataCoveragePercentage"`
	TotalMachines        int     `json:"totalMachines"`
	MachinesWithData     int     `json:"machinesWithData"`
	MachinesWithoutData  int     `json:"machinesWithoutData"`
}

// CalculateMachineMetrics sums interval durations by classification
// for one machine. Percentages are defined as 0 when the machine has
// no represented time, never NaN. windowMinutes is the length of the
// requested window and feeds the per-machine coverage percentage.
// Running this twice over the same intervals yields identical output.
func CalculateMachineMetrics(machineID string, intervals []ModeInterval, windowMinutes float64) MachineMetrics {
	m := MachineMetrics{
		MachineID: machineID,
		Intervals: intervals,
	}

	for _, iv := range intervals {
		d := iv.DurationMinutes()
		switch iv.Status {
		case StatusUptime:
			m.UptimeMinutes += d
		case StatusDowntime:
			m.DowntimeMinutes += d
		default:
			m.UnknownMinutes += d
		}
	}

	m.TotalMinutes = m.UptimeMinutes + m.DowntimeMinutes + m.UnknownMinutes
	m.HasData = len(intervals) > 0

	if m.TotalMinutes > 0 {
		m.UptimePct = m.UptimeMinutes / m.TotalMinutes * 100
		m.DowntimePct = m.DowntimeMinutes / m.TotalMinutes * 100
	}
	if windowMinutes > 0 {
		m.CoveragePctOfWindow = m.TotalMinutes / windowMinutes * 100
	}

	return m
}

// SummarizeInstallation rolls per-machine metrics into an installation
// summary. Machines with no events still count toward the machine
// totals; expected minutes scale with the machine count.
func SummarizeInstallation(metrics []MachineMetrics, windowMinutes float64) InstallationSummary {
	s := InstallationSummary{
		TotalMachines:        len(metrics),
		ExpectedTotalMinutes: windowMinutes * float64(len(metrics)),
	}

	for _, m := range metrics {
		s.UptimeMinutes += m.UptimeMinutes
		s.DowntimeMinutes += m.DowntimeMinutes
		s.UnknownMinutes += m.UnknownMinutes
		s.TotalMinutes += m.TotalMinutes
		if m.HasData {
			s.MachinesWithData++
		} else {
			s.MachinesWithoutData++
		}
	}

	if s.TotalMinutes > 0 {
		s.UptimePct = s.UptimeMinutes / s.TotalMinutes * 100
		s.DowntimePct = s.DowntimeMinutes / s.TotalMinutes * 100
	}
	if s.ExpectedTotalMinutes > 0 {
		s.DataCoveragePct = s.TotalMinutes / s.ExpectedTotalMinutes * 100
	}

	return s
}

// SortMachineMetrics orders metrics by machine ID ascending with
// numeric awareness, so "2" sorts before "10".
func SortMachineMetrics(metrics []MachineMetrics) {
	sort.SliceStable(metrics, func(a, b int) bool {
		return CompareMachineIDs(metrics[a].MachineID, metrics[b].MachineID) < 0
	})
}

// CompareMachineIDs compares two machine IDs treating digit runs as
// numbers, so purely numeric IDs order by value instead of
// lexicographically.
func CompareMachineIDs(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, ra := leadingNumber(a)
			nb, rb := leadingNumber(b)
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	switch {
	case len(a) == len(b):
		return 0
	case len(a) < len(b):
		return -1
	default:
		return 1
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// leadingNumber parses the digit run at the head of s, returning its
// value and the remainder of the string.
func leadingNumber(s string) (uint64, string) {
	var n uint64
	i := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + uint64(s[i]-'0')
		i++
	}
	return n, s[i:]
}
