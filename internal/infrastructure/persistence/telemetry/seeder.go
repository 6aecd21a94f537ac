package telemetry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/persistence/database"
	"github.com/oklog/ulid/v2"
)

// Seeder populates the event store with plausible sample telemetry so
// the analysis paths can be exercised without a live installation feed.
type Seeder struct {
	db     *database.DB
	logger *logging.ChanneledLogger
	rng    *rand.Rand
}

// NewSeeder creates a seeder. The random source is seeded explicitly
// so repeated runs with the same seed produce the same event stream.
func NewSeeder(db *database.DB, logger *logging.ChanneledLogger, seed int64) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

var sampleUptimeModes = []string{"NOR", "IDL", "PRK", "INS", "ATT"}
var sampleDowntimeModes = []string{"COR", "NAV", "ESB"}

// SeedSampleEvents writes `days` days of sample car mode and door
// events for three machines, ending at now. Existing rows for the
// installation are left untouched; the seeder only appends.
func (s *Seeder) SeedSampleEvents(ctx context.Context, installationID string, days int, now time.Time) error {
	start := time.Now()
	machines := []string{"1", "2", "3"}

	windowStart := now.AddDate(0, 0, -days)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	carStmt, err := tx.PrepareContext(ctx, `INSERT INTO car_mode_events (id, installation_id, machine_id, ts, mode_name) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare car mode insert: %w", err)
	}
	defer carStmt.Close()

	doorStmt, err := tx.PrepareContext(ctx, `INSERT INTO door_events (id, installation_id, machine_id, ts, state, side, position) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare door insert: %w", err)
	}
	defer doorStmt.Close()

	carCount := 0
	doorCount := 0

	for _, machineID := range machines {
		ts := windowStart.UnixMilli()
		endTs := now.UnixMilli()

		// Mode changes every 1 to 6 hours, mostly uptime modes.
		for ts < endTs {
			mode := sampleUptimeModes[s.rng.Intn(len(sampleUptimeModes))]
			if s.rng.Float64() < 0.08 {
				mode = sampleDowntimeModes[s.rng.Intn(len(sampleDowntimeModes))]
			}

			if _, err := carStmt.ExecContext(ctx, s.newEventID(ts), installationID, machineID, ts, mode); err != nil {
				return fmt.Errorf("failed to insert sample car mode event: %w", err)
			}
			carCount++

			ts += int64(1+s.rng.Intn(6)) * 3600 * 1000
		}

		// A handful of door cycles per day on the front door.
		dayTs := windowStart.UnixMilli()
		for dayTs < endTs {
			cycles := 3 + s.rng.Intn(5)
			cycleTs := dayTs + int64(s.rng.Intn(3600))*1000
			for i := 0; i < cycles && cycleTs < endTs; i++ {
				states := []struct {
					state string
					gapMs int64
				}{
					{"Opening", 0},
					{"Opened", 2000 + int64(s.rng.Intn(2000))},
					{"Closing", 5000 + int64(s.rng.Intn(10000))},
					{"Closed", 2000 + int64(s.rng.Intn(3000))},
				}
				for _, st := range states {
					cycleTs += st.gapMs
					if _, err := doorStmt.ExecContext(ctx, s.newEventID(cycleTs), installationID, machineID, cycleTs, st.state, "FRONT", "CAR"); err != nil {
						return fmt.Errorf("failed to insert sample door event: %w", err)
					}
					doorCount++
				}
				cycleTs += int64(600+s.rng.Intn(3600)) * 1000
			}
			dayTs += 24 * 3600 * 1000
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Database().Info("Sample events seeded",
		"installationId", installationID,
		"days", days,
		"carModeEvents", carCount,
		"doorEvents", doorCount,
		"duration", time.Since(start))

	return nil
}

// newEventID generates a ULID anchored at the event timestamp, so
// seeded IDs sort in event order.
func (s *Seeder) newEventID(tsMs int64) string {
	return ulid.MustNew(uint64(tsMs), s.rng).String()
}
