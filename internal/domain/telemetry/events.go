// Package telemetry defines the raw elevator event types and the
// contract for retrieving them from an event store.
package telemetry

import "context"

// CarModeEvent represents a single car mode change reported by an
// elevator controller. Timestamp is epoch milliseconds, UTC. Events
// arrive unordered and must be sorted before use.
type CarModeEvent struct {
	MachineID string `json:"machineId"`
	Timestamp int64  `json:"timestamp"`
	ModeName  string `json:"modeName"`
}

// DoorEvent represents a single door state transition for one door
// sub-unit of an elevator. Side and Position identify the sub-unit
// (e.g. "front"/"upper"). Timestamp is epoch milliseconds, UTC.
type DoorEvent struct {
	MachineID string `json:"machineId"`
	Timestamp int64  `json:"timestamp"`
	State     string `json:"state"`
	Side      string `json:"side"`
	Position  string `json:"position"`
}

// EventRepository defines the contract for reading elevator telemetry
// for one installation. Implementations pre-filter by installation and
// time range; ordering of the returned slices is not guaranteed.
type EventRepository interface {
	// FindCarModeEvents retrieves car mode change events in
	// [startTs, endTs) epoch milliseconds, optionally filtered to one
	// machine (empty machineID means all machines).
	FindCarModeEvents(ctx context.Context, installationID string, startTs, endTs int64, machineID string) ([]CarModeEvent, error)

	// FindDoorEvents retrieves door state events in [startTs, endTs)
	// epoch milliseconds for all machines of the installation.
	FindDoorEvents(ctx context.Context, installationID string, startTs, endTs int64) ([]DoorEvent, error)

	// ListMachineIDs returns every machine ID ever seen for the
	// installation, across all time.
	ListMachineIDs(ctx context.Context, installationID string) ([]string, error)
}
