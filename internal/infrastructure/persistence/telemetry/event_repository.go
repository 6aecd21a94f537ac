// Package telemetry provides the SQL-backed event store for car mode
// and door state events.
package telemetry

import (
	"context"
	"fmt"
	"time"

	domain "github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/persistence/database"
	"github.com/LiftOpsHQ/liftops-go/pkg/config"
)

// SQLEventRepository implements telemetry.EventRepository against the
// shared database connection.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new SQL-backed event repository
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{db: db, logger: logger}
}

// FindCarModeEvents returns car mode events for an installation inside
// [startTs, endTs), ordered by timestamp. machineID narrows the query
// to one machine when non-empty.
func (r *SQLEventRepository) FindCarModeEvents(ctx context.Context, installationID string, startTs, endTs int64, machineID string) ([]domain.CarModeEvent, error) {
	start := time.Now()

	query := `
		SELECT machine_id, ts, mode_name
		FROM car_mode_events
		WHERE installation_id = ? AND ts >= ? AND ts < ?`
	args := []any{installationID, startTs, endTs}

	if machineID != "" {
		query += ` AND machine_id = ?`
		args = append(args, machineID)
	}
	query += ` ORDER BY ts ASC`

	r.logger.Database().Debug("Executing car mode event query",
		"installationId", installationID, "startTs", startTs, "endTs", endTs, "machineId", machineID)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Car mode event query failed", "error", err.Error(), "installationId", installationID)
		return nil, fmt.Errorf("failed to query car mode events: %w", err)
	}
	defer rows.Close()

	var events []domain.CarModeEvent
	for rows.Next() {
		var ev domain.CarModeEvent
		if err := rows.Scan(&ev.MachineID, &ev.Timestamp, &ev.ModeName); err != nil {
			return nil, fmt.Errorf("failed to scan car mode event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("car mode event iteration failed: %w", err)
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery("SELECT car_mode_events", duration, installationID)
	}

	r.logger.Database().Debug("Car mode event query completed",
		"installationId", installationID, "eventCount", len(events), "duration", duration)

	return events, nil
}

// FindDoorEvents returns door state events for an installation inside
// [startTs, endTs), ordered by timestamp.
func (r *SQLEventRepository) FindDoorEvents(ctx context.Context, installationID string, startTs, endTs int64) ([]domain.DoorEvent, error) {
	start := time.Now()

	const query = `
		SELECT machine_id, ts, state, side, position
		FROM door_events
		WHERE installation_id = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC`

	r.logger.Database().Debug("Executing door event query",
		"installationId", installationID, "startTs", startTs, "endTs", endTs)

	rows, err := r.db.QueryContext(ctx, query, installationID, startTs, endTs)
	if err != nil {
		r.logger.Database().Error("Door event query failed", "error", err.Error(), "installationId", installationID)
		return nil, fmt.Errorf("failed to query door events: %w", err)
	}
	defer rows.Close()

	var events []domain.DoorEvent
	for rows.Next() {
		var ev domain.DoorEvent
		if err := rows.Scan(&ev.MachineID, &ev.Timestamp, &ev.State, &ev.Side, &ev.Position); err != nil {
			return nil, fmt.Errorf("failed to scan door event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("door event iteration failed: %w", err)
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery("SELECT door_events", duration, installationID)
	}

	r.logger.Database().Debug("Door event query completed",
		"installationId", installationID, "eventCount", len(events), "duration", duration)

	return events, nil
}

// ListMachineIDs returns the distinct machine IDs known for an
// installation across both event tables.
func (r *SQLEventRepository) ListMachineIDs(ctx context.Context, installationID string) ([]string, error) {
	start := time.Now()

	const query = `
		SELECT machine_id FROM car_mode_events WHERE installation_id = ?
		UNION
		SELECT machine_id FROM door_events WHERE installation_id = ?
		ORDER BY machine_id ASC`

	rows, err := r.db.QueryContext(ctx, query, installationID, installationID)
	if err != nil {
		r.logger.Database().Error("Machine ID query failed", "error", err.Error(), "installationId", installationID)
		return nil, fmt.Errorf("failed to query machine ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan machine id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("machine id iteration failed: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, "SELECT machine_ids", time.Since(start), installationID)

	return ids, nil
}
