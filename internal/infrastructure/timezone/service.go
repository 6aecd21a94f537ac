// Package timezone centralizes conversion between epoch milliseconds
// and installation-local time. Every timestamp in the event store is
// epoch millis UTC; every date shown to a person is installation local.
package timezone

import (
	"fmt"
	"sync"
	"time"
)

// Service resolves IANA zone names and converts timestamps. Resolved
// locations are memoized; time.LoadLocation hits the zoneinfo database
// on every call otherwise.
type Service struct {
	mu    sync.RWMutex
	cache map[string]*time.Location
}

func NewService() *Service {
	return &Service{cache: make(map[string]*time.Location)}
}

// Location resolves an IANA zone name like "America/New_York".
func (s *Service) Location(tz string) (*time.Location, error) {
	s.mu.RLock()
	loc, ok := s.cache[tz]
	s.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}

	s.mu.Lock()
	s.cache[tz] = loc
	s.mu.Unlock()
	return loc, nil
}

// EpochToLocal converts epoch milliseconds to local time in tz.
func (s *Service) EpochToLocal(epochMs int64, tz string) (time.Time, error) {
	loc, err := s.Location(tz)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(epochMs).In(loc), nil
}

// LocalToEpoch converts a local time to epoch milliseconds.
func (s *Service) LocalToEpoch(t time.Time) int64 {
	return t.UnixMilli()
}

// NowIn returns the current time in tz.
func (s *Service) NowIn(tz string) (time.Time, error) {
	loc, err := s.Location(tz)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

// FormatDurationHuman renders minutes for people: "42.0 minutes",
// "3.5 hours", "2.0 days".
func FormatDurationHuman(minutes float64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%.1f minutes", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%.1f hours", minutes/60)
	default:
		return fmt.Sprintf("%.1f days", minutes/1440)
	}
}
