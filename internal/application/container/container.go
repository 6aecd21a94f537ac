// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/LiftOpsHQ/liftops-go/internal/application/services"
	"github.com/LiftOpsHQ/liftops-go/internal/domain/coverage"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/performance"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/persistence/database"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/persistence/telemetry"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/timezone"
	"github.com/LiftOpsHQ/liftops-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Analytics Services (stateless singletons)
	UptimeAnalyticsService   *services.UptimeAnalyticsService
	CoverageAnalyticsService *services.CoverageAnalyticsService
	DoorAnalyticsService     *services.DoorAnalyticsService

	// Infrastructure Dependencies
	DB              *database.DB
	EventRepository *telemetry.SQLEventRepository
	MachineCatalog  *telemetry.MachineCatalog
	TimezoneService *timezone.Service
	Logger          *logging.ChanneledLogger
	PerfTracker     *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) (*Container, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	eventRepo := telemetry.NewSQLEventRepository(db, logger)
	catalog := telemetry.NewMachineCatalog(eventRepo, logger, config.CatalogCacheTTL)
	estimator := coverage.NewSpanRatioEstimator()

	return &Container{
		// Analytics Services (stateless singletons)
		UptimeAnalyticsService:   services.NewUptimeAnalyticsService(eventRepo, catalog, logger, perfTracker),
		CoverageAnalyticsService: services.NewCoverageAnalyticsService(eventRepo, catalog, estimator, logger, perfTracker),
		DoorAnalyticsService:     services.NewDoorAnalyticsService(eventRepo, logger, perfTracker),

		// Infrastructure
		DB:              db,
		EventRepository: eventRepo,
		MachineCatalog:  catalog,
		TimezoneService: timezone.NewService(),
		Logger:          logger,
		PerfTracker:     perfTracker,
	}, nil
}
