package telemetry

import (
	"context"
	"log/slog"
	"testing"
	"time"

	domain "github.com/LiftOpsHQ/liftops-go/internal/domain/telemetry"
	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
)

type countingRepo struct {
	ids   []string
	calls int
}

func (r *countingRepo) FindCarModeEvents(ctx context.Context, installationID string, startTs, endTs int64, machineID string) ([]domain.CarModeEvent, error) {
	return nil, nil
}

func (r *countingRepo) FindDoorEvents(ctx context.Context, installationID string, startTs, endTs int64) ([]domain.DoorEvent, error) {
	return nil, nil
}

func (r *countingRepo) ListMachineIDs(ctx context.Context, installationID string) ([]string, error) {
	r.calls++
	return r.ids, nil
}

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	cfg.DefaultLevel = slog.LevelError + 1
	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	return logger
}

func TestMachineCatalogMemoizes(t *testing.T) {
	repo := &countingRepo{ids: []string{"1", "2"}}
	catalog := NewMachineCatalog(repo, testLogger(t), time.Minute)

	for i := 0; i < 3; i++ {
		ids, err := catalog.MachineIDs(context.Background(), "inst")
		if err != nil {
			t.Fatalf("MachineIDs: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("expected 2 ids, got %v", ids)
		}
	}

	if repo.calls != 1 {
		t.Errorf("repository queried %d times inside TTL, want 1", repo.calls)
	}
}

func TestMachineCatalogExpires(t *testing.T) {
	repo := &countingRepo{ids: []string{"1"}}
	catalog := NewMachineCatalog(repo, testLogger(t), time.Nanosecond)

	if _, err := catalog.MachineIDs(context.Background(), "inst"); err != nil {
		t.Fatalf("MachineIDs: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := catalog.MachineIDs(context.Background(), "inst"); err != nil {
		t.Fatalf("MachineIDs: %v", err)
	}

	if repo.calls != 2 {
		t.Errorf("repository queried %d times after TTL expiry, want 2", repo.calls)
	}
}

func TestMachineCatalogInvalidate(t *testing.T) {
	repo := &countingRepo{ids: []string{"1"}}
	catalog := NewMachineCatalog(repo, testLogger(t), time.Hour)

	if _, err := catalog.MachineIDs(context.Background(), "inst"); err != nil {
		t.Fatalf("MachineIDs: %v", err)
	}
	catalog.Invalidate("inst")
	if _, err := catalog.MachineIDs(context.Background(), "inst"); err != nil {
		t.Fatalf("MachineIDs: %v", err)
	}

	if repo.calls != 2 {
		t.Errorf("repository queried %d times after invalidation, want 2", repo.calls)
	}
}

func TestMachineCatalogReturnsCopy(t *testing.T) {
	repo := &countingRepo{ids: []string{"1", "2"}}
	catalog := NewMachineCatalog(repo, testLogger(t), time.Hour)

	first, err := catalog.MachineIDs(context.Background(), "inst")
	if err != nil {
		t.Fatalf("MachineIDs: %v", err)
	}
	first[0] = "mutated"

	second, err := catalog.MachineIDs(context.Background(), "inst")
	if err != nil {
		t.Fatalf("MachineIDs: %v", err)
	}
	if second[0] != "1" {
		t.Error("caller mutation leaked into the memoized list")
	}
}
