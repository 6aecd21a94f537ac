// Package performance provides performance tracking and monitoring capabilities
// for LiftOps analytics operations with per-installation metrics.
package performance

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers    map[string]*Marker     // Active and completed markers by unique ID
	snapshots  []*PerformanceSnapshot // Historical performance snapshots
	alerts     []*PerformanceAlert    // Active performance alerts
	thresholds *AlertThresholds       // Configurable alert thresholds
	mu         sync.RWMutex           // Protects concurrent access
	started    time.Time              // When tracking started
	config     *TrackerConfig         // Tracker configuration
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers          int           `json:"maxMarkers"`          // Maximum number of markers to retain
	MaxSnapshots        int           `json:"maxSnapshots"`        // Maximum number of snapshots to retain
	MaxAlerts           int           `json:"maxAlerts"`           // Maximum number of alerts to retain
	SnapshotInterval    time.Duration `json:"snapshotInterval"`    // How often to take performance snapshots
	CleanupInterval     time.Duration `json:"cleanupInterval"`     // How often to clean up old data
	EnableDetailedStats bool          `json:"enableDetailedStats"` // Whether to collect detailed memory stats
	EnableAlerts        bool          `json:"enableAlerts"`        // Whether to generate performance alerts
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:          10000,
		MaxSnapshots:        100,
		MaxAlerts:           500,
		SnapshotInterval:    time.Minute * 5,
		CleanupInterval:     time.Minute * 10,
		EnableDetailedStats: true,
		EnableAlerts:        true,
	}
}

// AlertThresholds defines performance thresholds for generating alerts
type AlertThresholds struct {
	// Response time thresholds
	SlowResponseThreshold     time.Duration `json:"slowResponseThreshold"`     // 500ms
	VerySlowResponseThreshold time.Duration `json:"verySlowResponseThreshold"` // 2s
	CriticalResponseThreshold time.Duration `json:"criticalResponseThreshold"` // 5s

	// Memory thresholds (in MB)
	HighMemoryUsage     int64 `json:"highMemoryUsage"`     // 500MB
	CriticalMemoryUsage int64 `json:"criticalMemoryUsage"` // 1GB

	// Operation-specific thresholds
	UptimeAnalysisThreshold time.Duration `json:"uptimeAnalysisThreshold"` // 1s
	CoverageScanThreshold   time.Duration `json:"coverageScanThreshold"`   // 1s
	DoorCycleScanThreshold  time.Duration `json:"doorCycleScanThreshold"`  // 1s
	DatabaseQueryThreshold  time.Duration `json:"databaseQueryThreshold"`  // 50ms
}

// DefaultAlertThresholds returns sensible default alert thresholds
func DefaultAlertThresholds() *AlertThresholds {
	return &AlertThresholds{
		SlowResponseThreshold:     time.Millisecond * 500,
		VerySlowResponseThreshold: time.Second * 2,
		CriticalResponseThreshold: time.Second * 5,
		HighMemoryUsage:           500 * 1024 * 1024,  // 500MB
		CriticalMemoryUsage:       1024 * 1024 * 1024, // 1GB
		UptimeAnalysisThreshold:   time.Second * 1,
		CoverageScanThreshold:     time.Second * 1,
		DoorCycleScanThreshold:    time.Second * 1,
		DatabaseQueryThreshold:    time.Millisecond * 50,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	tracker := &Tracker{
		markers:    make(map[string]*Marker),
		snapshots:  make([]*PerformanceSnapshot, 0),
		alerts:     make([]*PerformanceAlert, 0),
		thresholds: DefaultAlertThresholds(),
		started:    time.Now(),
		config:     config,
	}

	return tracker
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, installationID string) *Marker {
	marker := &Marker{
		Operation:      operation,
		InstallationID: installationID,
		StartTime:      time.Now(),
		Metadata:       make(map[string]any),
		Success:        true, // Assume success until proven otherwise
	}

	// Generate unique ID for this marker
	markerID := fmt.Sprintf("%s_%s_%d", installationID, operation, time.Now().UnixNano())

	t.mu.Lock()
	t.markers[markerID] = marker
	t.mu.Unlock()

	return marker
}

// StartOperationWithContext creates a performance marker with context cancellation support
func (t *Tracker) StartOperationWithContext(ctx context.Context, operation, installationID string) *Marker {
	marker := t.StartOperation(operation, installationID)

	// Monitor context cancellation
	go func() {
		<-ctx.Done()
		if !marker.Completed {
			marker.SetError(ctx.Err())
			marker.Complete()
		}
	}()

	return marker
}

// CompleteOperation manually completes an operation and checks for alerts
func (t *Tracker) CompleteOperation(marker *Marker) {
	if marker == nil || marker.Completed {
		return
	}

	marker.Complete()

	// Check for performance alerts if enabled
	if t.config.EnableAlerts {
		t.checkForAlerts(marker)
	}
}

// checkForAlerts evaluates a completed marker against alert thresholds
func (t *Tracker) checkForAlerts(marker *Marker) {
	if marker == nil || !marker.Completed {
		return
	}

	alerts := t.evaluateThresholds(marker)

	t.mu.Lock()
	for _, alert := range alerts {
		t.alerts = append(t.alerts, alert)

		// Maintain max alerts limit
		if len(t.alerts) > t.config.MaxAlerts {
			// Remove oldest alerts
			t.alerts = t.alerts[len(t.alerts)-t.config.MaxAlerts:]
		}
	}
	t.mu.Unlock()
}

// evaluateThresholds checks a marker against all relevant thresholds
func (t *Tracker) evaluateThresholds(marker *Marker) []*PerformanceAlert {
	var alerts []*PerformanceAlert

	// Check general response time thresholds
	if marker.Duration > t.thresholds.CriticalResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertCritical,
			"Operation exceeded critical response time threshold"))
	} else if marker.Duration > t.thresholds.VerySlowResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertWarning,
			"Operation exceeded slow response time threshold"))
	}

	// Check operation-specific thresholds
	switch {
	case strings.Contains(marker.Operation, "uptime"):
		if marker.Duration > t.thresholds.UptimeAnalysisThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Uptime analysis exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "coverage"):
		if marker.Duration > t.thresholds.CoverageScanThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Coverage scan exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "doors"):
		if marker.Duration > t.thresholds.DoorCycleScanThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Door cycle scan exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "db"):
		if marker.Duration > t.thresholds.DatabaseQueryThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Database query exceeded threshold"))
		}
	}

	// Check memory usage
	memoryMB := marker.MemoryUsage / (1024 * 1024)
	if marker.MemoryUsage > t.thresholds.CriticalMemoryUsage {
		alerts = append(alerts, t.createAlert(marker, AlertCritical,
			fmt.Sprintf("Critical memory usage: %d MB", memoryMB)))
	} else if marker.MemoryUsage > t.thresholds.HighMemoryUsage {
		alerts = append(alerts, t.createAlert(marker, AlertWarning,
			fmt.Sprintf("High memory usage: %d MB", memoryMB)))
	}

	return alerts
}

// createAlert creates a new performance alert
func (t *Tracker) createAlert(marker *Marker, severity AlertSeverity, message string) *PerformanceAlert {
	return &PerformanceAlert{
		ID:             fmt.Sprintf("alert_%d", time.Now().UnixNano()),
		Timestamp:      time.Now(),
		InstallationID: marker.InstallationID,
		Severity:       severity,
		Operation:      marker.Operation,
		Actual:         marker.Duration,
		Message:        message,
		Metadata: map[string]any{
			"memoryUsageMB": marker.MemoryUsage / (1024 * 1024),
			"success":       marker.Success,
		},
	}
}

// GetMetrics returns performance metrics for a specific installation
func (t *Tracker) GetMetrics(installationID string) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var metrics []Marker
	for _, marker := range t.markers {
		if marker.InstallationID == installationID && marker.Completed {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// GetRecentMetrics returns metrics for operations completed within the specified duration
func (t *Tracker) GetRecentMetrics(installationID string, within time.Duration) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-within)
	var metrics []Marker

	for _, marker := range t.markers {
		if marker.InstallationID == installationID && marker.Completed && marker.EndTime.After(cutoff) {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// GetActiveOperations returns currently running operations for an installation
func (t *Tracker) GetActiveOperations(installationID string) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var active []Marker
	for _, marker := range t.markers {
		if marker.InstallationID == installationID && !marker.Completed {
			metrics := *marker
			// Calculate current duration for active operations
			metrics.Duration = time.Since(marker.StartTime)
			active = append(active, metrics)
		}
	}
	return active
}

// GetAlerts returns performance alerts for a specific installation
func (t *Tracker) GetAlerts(installationID string) []*PerformanceAlert {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var alerts []*PerformanceAlert
	for _, alert := range t.alerts {
		if alert.InstallationID == installationID {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// TakeSnapshot creates a performance snapshot for the specified installation
func (t *Tracker) TakeSnapshot(installationID string) *PerformanceSnapshot {
	metrics := t.GetRecentMetrics(installationID, time.Minute*5)
	activeOps := t.GetActiveOperations(installationID)

	snapshot := &PerformanceSnapshot{
		Timestamp:           time.Now(),
		InstallationID:      installationID,
		ActiveOperations:    len(activeOps),
		CompletedOperations: len(metrics),
		OverallHealth:       t.calculateHealth(metrics, activeOps),
	}

	// Categorize metrics by operation type
	snapshot.Uptime = t.extractUptimeMetrics(metrics)
	snapshot.Coverage = t.extractCoverageMetrics(metrics)
	snapshot.Doors = t.extractDoorMetrics(metrics)

	t.mu.Lock()
	t.snapshots = append(t.snapshots, snapshot)

	// Maintain max snapshots limit
	if len(t.snapshots) > t.config.MaxSnapshots {
		t.snapshots = t.snapshots[len(t.snapshots)-t.config.MaxSnapshots:]
	}
	t.mu.Unlock()

	return snapshot
}

// calculateHealth determines overall system health based on recent metrics
func (t *Tracker) calculateHealth(metrics, activeOps []Marker) HealthStatus {
	if len(metrics) == 0 && len(activeOps) == 0 {
		return HealthUnknown
	}

	criticalIssues := 0
	warningIssues := 0
	totalOps := len(metrics) + len(activeOps)

	allOps := append(metrics, activeOps...)

	for _, op := range allOps {
		duration := op.Duration
		if !op.Completed {
			duration = time.Since(op.StartTime)
		}

		if duration > t.thresholds.CriticalResponseThreshold || !op.Success {
			criticalIssues++
		} else if duration > t.thresholds.VerySlowResponseThreshold {
			warningIssues++
		}
	}

	criticalRatio := float64(criticalIssues) / float64(totalOps)
	warningRatio := float64(warningIssues) / float64(totalOps)

	if criticalRatio > 0.1 { // More than 10% critical issues
		return HealthUnhealthy
	} else if criticalRatio > 0.05 || warningRatio > 0.2 { // More than 5% critical or 20% warning
		return HealthDegraded
	}

	return HealthHealthy
}

// extractUptimeMetrics filters metrics for uptime analysis operations
func (t *Tracker) extractUptimeMetrics(metrics []Marker) *UptimePerformanceTracker {
	tracker := &UptimePerformanceTracker{}

	for _, metric := range metrics {
		switch {
		case strings.Contains(metric.Operation, "uptime:events"):
			if tracker.EventQuery == nil || metric.EndTime.After(tracker.EventQuery.EndTime) {
				m := metric
				tracker.EventQuery = &m
			}
		case strings.Contains(metric.Operation, "uptime:intervals"):
			if tracker.IntervalBuild == nil || metric.EndTime.After(tracker.IntervalBuild.EndTime) {
				m := metric
				tracker.IntervalBuild = &m
			}
		case strings.Contains(metric.Operation, "uptime:metrics"):
			if tracker.MetricsAggregation == nil || metric.EndTime.After(tracker.MetricsAggregation.EndTime) {
				m := metric
				tracker.MetricsAggregation = &m
			}
		case strings.Contains(metric.Operation, "uptime:daily"):
			if tracker.DailyBreakdown == nil || metric.EndTime.After(tracker.DailyBreakdown.EndTime) {
				m := metric
				tracker.DailyBreakdown = &m
			}
		}
	}

	return tracker
}

// extractCoverageMetrics filters metrics for coverage estimation operations
func (t *Tracker) extractCoverageMetrics(metrics []Marker) *CoveragePerformanceTracker {
	tracker := &CoveragePerformanceTracker{}

	for _, metric := range metrics {
		switch {
		case strings.Contains(metric.Operation, "coverage:carmode"):
			if tracker.CarModeAnalysis == nil || metric.EndTime.After(tracker.CarModeAnalysis.EndTime) {
				m := metric
				tracker.CarModeAnalysis = &m
			}
		case strings.Contains(metric.Operation, "coverage:doors"):
			if tracker.DoorAnalysis == nil || metric.EndTime.After(tracker.DoorAnalysis.EndTime) {
				m := metric
				tracker.DoorAnalysis = &m
			}
		case strings.Contains(metric.Operation, "coverage:gaps"):
			if tracker.GapDetection == nil || metric.EndTime.After(tracker.GapDetection.EndTime) {
				m := metric
				tracker.GapDetection = &m
			}
		}
	}

	return tracker
}

// extractDoorMetrics filters metrics for door cycle operations
func (t *Tracker) extractDoorMetrics(metrics []Marker) *DoorPerformanceTracker {
	tracker := &DoorPerformanceTracker{}

	for _, metric := range metrics {
		switch {
		case strings.Contains(metric.Operation, "doors:events"):
			if tracker.EventQuery == nil || metric.EndTime.After(tracker.EventQuery.EndTime) {
				m := metric
				tracker.EventQuery = &m
			}
		case strings.Contains(metric.Operation, "doors:cycles"):
			if tracker.CycleScan == nil || metric.EndTime.After(tracker.CycleScan.EndTime) {
				m := metric
				tracker.CycleScan = &m
			}
		case strings.Contains(metric.Operation, "doors:durations"):
			if tracker.DurationStats == nil || metric.EndTime.After(tracker.DurationStats.EndTime) {
				m := metric
				tracker.DurationStats = &m
			}
		}
	}

	return tracker
}

// Cleanup removes old markers and snapshots to prevent memory leaks
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Clean up old completed markers
	cutoff := time.Now().Add(-time.Hour) // Keep last hour of markers
	for id, marker := range t.markers {
		if marker.Completed && marker.EndTime.Before(cutoff) {
			delete(t.markers, id)
		}
	}

	// Maintain max markers limit
	if len(t.markers) > t.config.MaxMarkers {
		count := 0
		for id := range t.markers {
			if count > t.config.MaxMarkers/2 {
				delete(t.markers, id)
			}
			count++
		}
	}
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	activeCount := 0
	completedCount := 0

	for _, marker := range t.markers {
		if marker.Completed {
			completedCount++
		} else {
			activeCount++
		}
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started),
		"totalMarkers":        len(t.markers),
		"activeOperations":    activeCount,
		"completedOperations": completedCount,
		"totalSnapshots":      len(t.snapshots),
		"totalAlerts":         len(t.alerts),
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
		"systemMemoryMB":      memStats.Sys / (1024 * 1024),
	}
}
