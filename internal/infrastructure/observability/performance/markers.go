// Package performance provides performance monitoring data structures and utilities
// for tracking operation performance across the LiftOps analytics engine.
package performance

import (
	"runtime"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation      string         `json:"operation"`      // e.g., "uptime:analyze", "doors:cycles"
	InstallationID string         `json:"installationId"` // Installation the operation ran against
	StartTime      time.Time      `json:"startTime"`      // When the operation started
	EndTime        time.Time      `json:"endTime"`        // When the operation completed
	Duration       time.Duration  `json:"duration"`       // Total operation duration
	Success        bool           `json:"success"`        // Whether the operation completed successfully
	Error          string         `json:"error,omitempty"`
	Metadata       map[string]any `json:"metadata"`    // Additional operation-specific data
	MemoryUsage    int64          `json:"memoryUsage"` // Memory allocated during operation (bytes)
	Completed      bool           `json:"completed"`   // Whether Complete() has been called
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return // Prevent double completion
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	// Capture memory usage at completion
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.MemoryUsage = int64(memStats.Alloc)
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// UptimePerformanceTracker contains markers for uptime analysis operations
type UptimePerformanceTracker struct {
	EventQuery         *Marker `json:"eventQuery,omitempty"`
	IntervalBuild      *Marker `json:"intervalBuild,omitempty"`
	MetricsAggregation *Marker `json:"metricsAggregation,omitempty"`
	DailyBreakdown     *Marker `json:"dailyBreakdown,omitempty"`
}

// CoveragePerformanceTracker contains markers for coverage estimation operations
type CoveragePerformanceTracker struct {
	CarModeAnalysis *Marker `json:"carModeAnalysis,omitempty"`
	DoorAnalysis    *Marker `json:"doorAnalysis,omitempty"`
	GapDetection    *Marker `json:"gapDetection,omitempty"`
}

// DoorPerformanceTracker contains markers for door cycle analysis operations
type DoorPerformanceTracker struct {
	EventQuery    *Marker `json:"eventQuery,omitempty"`
	CycleScan     *Marker `json:"cycleScan,omitempty"`
	DurationStats *Marker `json:"durationStats,omitempty"`
}

// SystemPerformanceTracker contains markers for system-wide operations
type SystemPerformanceTracker struct {
	ApplicationStartup *Marker `json:"applicationStartup,omitempty"`
	DIContainerBuild   *Marker `json:"diContainerBuild,omitempty"`
	DatabaseConnection *Marker `json:"databaseConnection,omitempty"`
	GracefulShutdown   *Marker `json:"gracefulShutdown,omitempty"`
}

// PerformanceSnapshot represents a point-in-time view of system performance
type PerformanceSnapshot struct {
	Timestamp           time.Time                   `json:"timestamp"`
	InstallationID      string                      `json:"installationId"`
	Uptime              *UptimePerformanceTracker   `json:"uptime,omitempty"`
	Coverage            *CoveragePerformanceTracker `json:"coverage,omitempty"`
	Doors               *DoorPerformanceTracker     `json:"doors,omitempty"`
	System              *SystemPerformanceTracker   `json:"system,omitempty"`
	OverallHealth       HealthStatus                `json:"overallHealth"`
	ActiveOperations    int                         `json:"activeOperations"`
	CompletedOperations int                         `json:"completedOperations"`
}

// HealthStatus represents the overall health of a system component
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"   // All operations performing within normal parameters
	HealthDegraded  HealthStatus = "degraded"  // Some operations showing performance issues
	HealthUnhealthy HealthStatus = "unhealthy" // Significant performance problems detected
	HealthUnknown   HealthStatus = "unknown"   // Unable to determine health status
)

// PerformanceAlert represents a performance threshold violation
type PerformanceAlert struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	InstallationID string         `json:"installationId"`
	Severity       AlertSeverity  `json:"severity"`
	Operation      string         `json:"operation"`
	Threshold      time.Duration  `json:"threshold"`
	Actual         time.Duration  `json:"actual"`
	Message        string         `json:"message"`
	Metadata       map[string]any `json:"metadata"`
	Acknowledged   bool           `json:"acknowledged"`
}

// AlertSeverity represents the severity level of a performance alert
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"     // Informational alert
	AlertWarning  AlertSeverity = "warning"  // Performance degradation detected
	AlertCritical AlertSeverity = "critical" // Serious performance issue
	AlertFatal    AlertSeverity = "fatal"    // System-threatening performance problem
)
