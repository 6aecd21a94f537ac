package timezone

import (
	"testing"
	"time"
)

func TestLocationResolvesAndMemoizes(t *testing.T) {
	s := NewService()

	loc, err := s.Location("America/New_York")
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("location = %s, want America/New_York", loc)
	}

	again, err := s.Location("America/New_York")
	if err != nil {
		t.Fatalf("Location (cached): %v", err)
	}
	if again != loc {
		t.Error("expected the memoized *time.Location on second resolve")
	}
}

func TestLocationRejectsUnknownZone(t *testing.T) {
	s := NewService()

	if _, err := s.Location("Not/AZone"); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestEpochToLocalRoundTrip(t *testing.T) {
	s := NewService()

	utc := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local, err := s.EpochToLocal(utc.UnixMilli(), "America/New_York")
	if err != nil {
		t.Fatalf("EpochToLocal: %v", err)
	}

	if !local.Equal(utc) {
		t.Errorf("local %v is not the same instant as %v", local, utc)
	}
	if local.Hour() != 7 {
		t.Errorf("local hour = %d, want 7 (EST)", local.Hour())
	}
	if s.LocalToEpoch(local) != utc.UnixMilli() {
		t.Errorf("round trip changed the timestamp")
	}
}

func TestFormatDurationHuman(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "0.0 minutes"},
		{42, "42.0 minutes"},
		{59.9, "59.9 minutes"},
		{60, "1.0 hours"},
		{90, "1.5 hours"},
		{1439, "24.0 hours"},
		{1440, "1.0 days"},
		{2880, "2.0 days"},
		{3600, "2.5 days"},
	}

	for _, tt := range tests {
		if got := FormatDurationHuman(tt.minutes); got != tt.want {
			t.Errorf("FormatDurationHuman(%v) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
