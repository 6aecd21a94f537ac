// Package services provides the application-level analytics services
// that orchestrate domain computation over the event store.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
	"github.com/LiftOpsHQ/liftops-go/internal/domain/timewindow"
	"github.com/LiftOpsHQ/liftops-go/internal/domain/uptime"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/performance"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/timezone"
	"github.com/LiftOpsHQ/liftops-go/pkg/config"
)

// MachineLister resolves the machine IDs of an installation.
type MachineLister interface {
	MachineIDs(ctx context.Context, installationID string) ([]string, error)
}

// UptimeReport is the full uptime analysis for one installation and
// window. Validation problems ride inside the report rather than
// failing it.
type UptimeReport struct {
	InstallationID string                                `json:"installationId"`
	Start          time.Time                             `json:"start"`
	End            time.Time                             `json:"end"`
	Timezone       string                                `json:"timezone"`
	Validation     timewindow.Validation                 `json:"validation"`
	Summary        uptime.InstallationSummary            `json:"summary"`
	Machines       []uptime.MachineMetrics               `json:"machines"`
	DailyBreakdown map[string][]uptime.DailyAvailability `json:"dailyBreakdown,omitempty"`
	Interpretation []string                              `json:"interpretation,omitempty"`
}

// UptimeAnalyticsService reconstructs mode timelines and aggregates
// uptime metrics. It is a stateless singleton.
type UptimeAnalyticsService struct {
	repo        telemetry.EventRepository
	machines    MachineLister
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewUptimeAnalyticsService creates the uptime analytics service
func NewUptimeAnalyticsService(repo telemetry.EventRepository, machines MachineLister, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *UptimeAnalyticsService {
	return &UptimeAnalyticsService{
		repo:        repo,
		machines:    machines,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// AnalyzeUptime computes per-machine and installation-wide uptime for
// [start, end) in the given zone. An invalid range returns a report
// carrying the validation result and no metrics; repository failures
// return an error.
func (s *UptimeAnalyticsService) AnalyzeUptime(ctx context.Context, installationID string, start, end time.Time, loc *time.Location) (*UptimeReport, error) {
	marker := s.perfTracker.StartOperation("uptime:analyze", installationID)
	defer marker.Complete()

	report := &UptimeReport{
		InstallationID: installationID,
		Start:          start,
		End:            end,
		Timezone:       loc.String(),
	}

	report.Validation = timewindow.Validate(start, end, time.Now(), loc, timewindow.Options{
		MaxRangeDays:          config.MaxRangeDays,
		LargeRangeWarningDays: config.LargeRangeWarningDays,
		RejectEndToday:        config.RejectEndDateToday,
	})
	if !report.Validation.IsValid {
		s.logger.WithInstallation(logging.ChannelAnalytics, installationID).Warn("Uptime analysis rejected invalid range",
			"start", start.Format(time.RFC3339),
			"end", end.Format(time.RFC3339),
			"errors", report.Validation.Errors)
		marker.SetSuccess(true)
		return report, nil
	}

	machineIDs, err := s.machines.MachineIDs(ctx, installationID)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	events, err := s.repo.FindCarModeEvents(ctx, installationID, start.UnixMilli(), end.UnixMilli(), "")
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load car mode events: %w", err)
	}

	// Malformed events are dropped with a log line, never fatal.
	byMachine := make(map[string][]telemetry.CarModeEvent)
	for _, ev := range events {
		if ev.MachineID == "" || ev.ModeName == "" || ev.Timestamp <= 0 {
			s.logger.LogSkippedEvent(logging.ChannelAnalytics, installationID, ev.MachineID, "missing machine id, mode name or timestamp")
			continue
		}
		byMachine[ev.MachineID] = append(byMachine[ev.MachineID], ev)
	}

	windowMinutes := end.Sub(start).Minutes()
	metrics := make([]uptime.MachineMetrics, 0, len(machineIDs))

	for _, machineID := range machineIDs {
		if err := ctx.Err(); err != nil {
			marker.SetError(err)
			return nil, err
		}

		intervals, err := uptime.BuildIntervals(machineID, byMachine[machineID], start, end, loc, uptime.BuildOptions{
			MergeAdjacent: config.MergeAdjacentIntervals,
		})
		if err != nil {
			marker.SetError(err)
			return nil, fmt.Errorf("failed to build intervals for machine %s: %w", machineID, err)
		}

		metrics = append(metrics, uptime.CalculateMachineMetrics(machineID, intervals, windowMinutes))
	}

	uptime.SortMachineMetrics(metrics)
	report.Machines = metrics
	report.Summary = uptime.SummarizeInstallation(metrics, windowMinutes)

	// Machines with thin coverage get a per-day breakdown so the reader
	// can see which days the data is missing from.
	for _, m := range metrics {
		if m.HasData && m.CoveragePctOfWindow < 90.0 {
			if report.DailyBreakdown == nil {
				report.DailyBreakdown = make(map[string][]uptime.DailyAvailability)
			}
			report.DailyBreakdown[m.MachineID] = uptime.CalculateDailyAvailability(m.Intervals, start, end, loc)
		}
	}

	report.Interpretation = s.interpret(report.Summary)

	s.logger.WithInstallation(logging.ChannelAnalytics, installationID).Info("Uptime analysis completed",
		"machines", len(machineIDs),
		"machinesWithData", report.Summary.MachinesWithData,
		"uptimePct", report.Summary.UptimePct,
		"events", len(events))

	marker.AddMetadata("machines", len(machineIDs))
	marker.AddMetadata("events", len(events))
	marker.SetSuccess(true)

	return report, nil
}

// interpret bands the installation uptime into reader-facing phrases.
func (s *UptimeAnalyticsService) interpret(summary uptime.InstallationSummary) []string {
	var lines []string

	if summary.TotalMinutes == 0 {
		lines = append(lines, "No operational data is available for this period.")
		return lines
	}

	switch {
	case summary.UptimePct >= 95:
		lines = append(lines, fmt.Sprintf("Excellent availability: %.1f%% uptime across the installation.", summary.UptimePct))
	case summary.UptimePct >= 90:
		lines = append(lines, fmt.Sprintf("Good availability: %.1f%% uptime across the installation.", summary.UptimePct))
	case summary.UptimePct >= 80:
		lines = append(lines, fmt.Sprintf("Fair availability: %.1f%% uptime across the installation.", summary.UptimePct))
	default:
		lines = append(lines, fmt.Sprintf("Poor availability: %.1f%% uptime across the installation.", summary.UptimePct))
	}

	if summary.DowntimeMinutes > 0 {
		lines = append(lines, fmt.Sprintf("Machines were down for %s in total.", timezone.FormatDurationHuman(summary.DowntimeMinutes)))
	}
	if summary.DataCoveragePct < 70 {
		lines = append(lines, fmt.Sprintf("Only %.1f%% of the requested period is backed by data; treat these figures as indicative.", summary.DataCoveragePct))
	}
	if summary.MachinesWithoutData > 0 {
		lines = append(lines, fmt.Sprintf("%d of %d machines reported no events in this period.", summary.MachinesWithoutData, summary.TotalMachines))
	}

	return lines
}
