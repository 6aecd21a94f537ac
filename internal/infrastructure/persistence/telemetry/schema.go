package telemetry

import (
	"context"
	"fmt"

	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/persistence/database"
)

// createTableStatements defines the event store schema. Timestamps are
// epoch milliseconds UTC; local-time interpretation happens in the
// analytics layer, never in SQL.
var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS car_mode_events (
		id TEXT PRIMARY KEY,
		installation_id TEXT NOT NULL,
		machine_id TEXT NOT NULL,
		ts INTEGER NOT NULL,
		mode_name TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_car_mode_events_lookup
		ON car_mode_events (installation_id, ts, machine_id)`,
	`CREATE TABLE IF NOT EXISTS door_events (
		id TEXT PRIMARY KEY,
		installation_id TEXT NOT NULL,
		machine_id TEXT NOT NULL,
		ts INTEGER NOT NULL,
		state TEXT NOT NULL,
		side TEXT NOT NULL,
		position TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_door_events_lookup
		ON door_events (installation_id, ts)`,
}

// EnsureSchema creates the event tables and indexes if they do not
// already exist.
func EnsureSchema(ctx context.Context, db *database.DB, logger *logging.ChanneledLogger) error {
	for _, stmt := range createTableStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Database().Error("Schema statement failed", "error", err.Error())
			return fmt.Errorf("failed to ensure event schema: %w", err)
		}
	}
	logger.Database().Info("Event store schema ready")
	return nil
}
