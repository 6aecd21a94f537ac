package telemetry

import (
	"context"
	"sync"
	"time"

	domain "github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
)

// MachineCatalog memoizes the machine ID list per installation. The
// list changes only when a machine is commissioned or removed, so a
// short TTL keeps the repeated analysis paths from re-running the
// UNION query on every request.
type MachineCatalog struct {
	repo   domain.EventRepository
	logger *logging.ChanneledLogger
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]catalogEntry
}

type catalogEntry struct {
	ids       []string
	fetchedAt time.Time
}

// NewMachineCatalog creates a catalog over the given repository.
func NewMachineCatalog(repo domain.EventRepository, logger *logging.ChanneledLogger, ttl time.Duration) *MachineCatalog {
	return &MachineCatalog{
		repo:    repo,
		logger:  logger,
		ttl:     ttl,
		entries: make(map[string]catalogEntry),
	}
}

// MachineIDs returns the machine IDs for an installation, serving from
// the memo when the entry is younger than the TTL.
func (c *MachineCatalog) MachineIDs(ctx context.Context, installationID string) ([]string, error) {
	c.mu.RLock()
	entry, ok := c.entries[installationID]
	c.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < c.ttl {
		c.logger.Database().Debug("Machine catalog hit", "installationId", installationID, "machineCount", len(entry.ids))
		ids := make([]string, len(entry.ids))
		copy(ids, entry.ids)
		return ids, nil
	}

	ids, err := c.repo.ListMachineIDs(ctx, installationID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[installationID] = catalogEntry{ids: ids, fetchedAt: time.Now()}
	c.mu.Unlock()

	c.logger.Database().Debug("Machine catalog refreshed", "installationId", installationID, "machineCount", len(ids))

	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

// Invalidate drops the memo for one installation.
func (c *MachineCatalog) Invalidate(installationID string) {
	c.mu.Lock()
	delete(c.entries, installationID)
	c.mu.Unlock()
}
