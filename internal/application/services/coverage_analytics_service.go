package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/domain/coverage"
	"github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/performance"
)

// CoverageAnalyticsService estimates how much of a window is backed by
// telemetry. The car mode and door scans run concurrently and degrade
// independently: losing one data type still yields a report built from
// the other.
type CoverageAnalyticsService struct {
	repo        telemetry.EventRepository
	machines    MachineLister
	estimator   coverage.Estimator
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCoverageAnalyticsService creates the coverage analytics service
func NewCoverageAnalyticsService(repo telemetry.EventRepository, machines MachineLister, estimator coverage.Estimator, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CoverageAnalyticsService {
	return &CoverageAnalyticsService{
		repo:        repo,
		machines:    machines,
		estimator:   estimator,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// AnalyzeCoverage builds the data-completeness report for one
// installation and window. It fails only when the machine list itself
// is unavailable or both event scans fail.
func (s *CoverageAnalyticsService) AnalyzeCoverage(ctx context.Context, installationID string, start, end time.Time, loc *time.Location) (*coverage.Report, error) {
	marker := s.perfTracker.StartOperation("coverage:analyze", installationID)
	defer marker.Complete()

	machineIDs, err := s.machines.MachineIDs(ctx, installationID)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	startTs := start.UnixMilli()
	endTs := end.UnixMilli()

	var (
		wg        sync.WaitGroup
		carEvents []telemetry.CarModeEvent
		carErr    error
		doorCount int
		doorErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		m := s.perfTracker.StartOperation("coverage:carmode", installationID)
		defer m.Complete()
		carEvents, carErr = s.repo.FindCarModeEvents(ctx, installationID, startTs, endTs, "")
		m.SetError(carErr)
	}()
	go func() {
		defer wg.Done()
		m := s.perfTracker.StartOperation("coverage:doors", installationID)
		defer m.Complete()
		doorEvents, err := s.repo.FindDoorEvents(ctx, installationID, startTs, endTs)
		doorErr = err
		doorCount = len(doorEvents)
		m.SetError(err)
	}()
	wg.Wait()

	if carErr != nil && doorErr != nil {
		marker.SetError(carErr)
		return nil, fmt.Errorf("failed to scan events: %w", carErr)
	}
	covLog := s.logger.WithInstallation(logging.ChannelCoverage, installationID)
	if carErr != nil {
		covLog.Warn("Car mode scan failed, continuing with door data only", "error", carErr.Error())
	}
	if doorErr != nil {
		covLog.Warn("Door scan failed, continuing with car mode data only", "error", doorErr.Error())
	}

	tsByMachine := make(map[string][]int64)
	for _, ev := range carEvents {
		if ev.MachineID == "" || ev.Timestamp <= 0 {
			s.logger.LogSkippedEvent(logging.ChannelCoverage, installationID, ev.MachineID, "missing machine id or timestamp")
			continue
		}
		tsByMachine[ev.MachineID] = append(tsByMachine[ev.MachineID], ev.Timestamp)
	}

	machines, totalAvailable := coverage.AnalyzeMachines(machineIDs, tsByMachine, startTs, endTs, s.estimator)
	overallPct := coverage.OverallPct(totalAvailable, startTs, endTs, len(machineIDs))

	report := &coverage.Report{
		InstallationID:        installationID,
		Start:                 start,
		End:                   end,
		Timezone:              loc.String(),
		TotalExpectedMinutes:  float64(endTs-startTs) / 60000.0 * float64(len(machineIDs)),
		TotalAvailableMinutes: totalAvailable,
		OverallCoveragePct:    overallPct,
		MachinesTotal:         len(machineIDs),
		MachineCoverage:       machines,
		DailyCoverage:         coverage.BuildDailyCoverage(machines, start, end, loc),
		Gaps:                  coverage.IdentifyGaps(machines, start, end),
	}

	for _, m := range machines {
		if m.HasData {
			report.MachinesWithData++
		} else {
			report.MachinesWithoutData++
		}
	}

	carModePresent := carErr == nil && len(carEvents) > 0
	doorPresent := doorErr == nil && doorCount > 0
	if carModePresent {
		report.DataTypesPresent = append(report.DataTypesPresent, "CarModeChanged")
	}
	if doorPresent {
		report.DataTypesPresent = append(report.DataTypesPresent, "Door")
	}
	report.Warnings = coverage.BuildWarnings(overallPct, machines, carModePresent, doorPresent)

	covLog.Info("Coverage analysis completed",
		"machines", len(machineIDs),
		"overallCoveragePct", overallPct,
		"carModeEvents", len(carEvents),
		"doorEvents", doorCount,
		"gaps", len(report.Gaps))

	marker.AddMetadata("machines", len(machineIDs))
	marker.AddMetadata("overallCoveragePct", overallPct)
	marker.SetSuccess(true)

	return report, nil
}
