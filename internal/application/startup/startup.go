// Package startup prepares the analytics engine
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/application/container"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/persistence/database"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/persistence/telemetry"
	"github.com/LiftOpsHQ/liftops-go/pkg/config"
)

// Initialize performs the complete startup sequence and returns the
// wired dependency container.
func Initialize(ctx context.Context) (*container.Container, error) {
	start := time.Now().UTC()

	log.Println("\033[32m" + `
  _     _  __ _    ___
 | |   (_)/ _| |_ / _ \ _ __  ___
 | |   | | |_| __| | | | '_ \/ __|
 | |___| |  _| |_| |_| | |_) \__ \
 |_____|_|_|  \__|\___/| .__/|___/
                       |_|
` + "\033[97m" + `
  elevator event-log analytics
` + "\033[0m")

	// Step 1: Create the channeled logger
	log.Println("Initializing logging...")
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDirectory
	loggerConfig.JSONFormat = config.LogJSONFormat
	loggerConfig.OutputToFile = config.LogToFile
	loggerConfig.OutputToConsole = config.LogToConsole

	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "directory", config.LogDirectory)

	// Raise selected channels to debug without touching the rest.
	if config.DebugLogChannels != "" {
		for _, name := range strings.Split(config.DebugLogChannels, ",") {
			channel := logging.Channel(strings.TrimSpace(name))
			if err := logger.SetChannelLevel(channel, slog.LevelDebug); err != nil {
				logger.System().Warn("Ignoring unknown log channel in LIFTOPS_DEBUG_LOG_CHANNELS", "channel", string(channel))
			}
		}
		logger.Startup().Info("Channel log levels", "levels", logger.GetChannelLevels())
	}

	// Step 2: Connect to the event store
	logger.Startup().Info("Connecting to event store...")
	startDBTime := time.Now()

	dsn := config.DBPath
	if config.DBDriver == "libsql" {
		// Verify the remote endpoint before committing the pool to it.
		if err := database.VerifyLibSQLConnection(config.LibSQLURL, config.LibSQLAuthToken, logger); err != nil {
			logger.LogStartupPhase("database", time.Since(startDBTime), false, map[string]any{"driver": config.DBDriver})
			return nil, fmt.Errorf("libsql endpoint check failed: %w", err)
		}
		dsn = fmt.Sprintf("%s?authToken=%s", config.LibSQLURL, config.LibSQLAuthToken)
	}
	db, err := database.NewConnection(config.DBDriver, dsn, logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(startDBTime), false, map[string]any{"driver": config.DBDriver})
		return nil, fmt.Errorf("failed to connect to event store: %w", err)
	}
	logger.LogStartupPhase("database", time.Since(startDBTime), true, map[string]any{"driver": config.DBDriver})

	// Step 3: Ensure event schema
	if err := telemetry.EnsureSchema(ctx, db, logger); err != nil {
		return nil, err
	}

	// Step 4: Seed sample telemetry when configured
	if config.SeedSampleEvents {
		logger.Startup().Info("Seeding sample events...",
			"installationId", config.DefaultInstallationID,
			"days", config.SeedSampleDays)
		seeder := telemetry.NewSeeder(db, logger, time.Now().UnixNano())
		if err := seeder.SeedSampleEvents(ctx, config.DefaultInstallationID, config.SeedSampleDays, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to seed sample events: %w", err)
		}
	}

	// Step 5: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer, err := container.NewContainer(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"driver", config.DBDriver)

	return appContainer, nil
}

// Shutdown releases the container's resources.
func Shutdown(c *container.Container) {
	if c == nil {
		return
	}

	start := time.Now()
	c.Logger.Shutdown().Info("Starting graceful shutdown...")

	if err := c.DB.Close(); err != nil {
		c.Logger.Shutdown().Error("Error closing event store", "error", err.Error())
	} else {
		c.Logger.Shutdown().Info("Event store closed")
	}

	c.Logger.Shutdown().Info("Shutdown complete", "duration", time.Since(start))
	c.Logger.Close()
}
