package uptime

import "testing"

func TestClassifyMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want ModeStatus
	}{
		{"normal operation", "NOR", StatusUptime},
		{"idle", "IDL", StatusUptime},
		{"inspection", "INS", StatusUptime},
		{"parked", "PRK", StatusUptime},
		{"attendant service", "ATT", StatusUptime},
		{"fire service", "EFO", StatusUptime},
		{"corrective action", "COR", StatusDowntime},
		{"not available", "NAV", StatusDowntime},
		{"emergency stop", "ESB", StatusDowntime},
		{"drive fault", "DLF", StatusDowntime},
		{"unrecognized code", "XYZ", StatusUnknown},
		{"empty mode", "", StatusUnknown},
		{"lowercase is not a known code", "nor", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMode(tt.mode); got != tt.want {
				t.Errorf("ClassifyMode(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestClassifierSetsAreDisjoint(t *testing.T) {
	for mode := range uptimeModes {
		if _, ok := downtimeModes[mode]; ok {
			t.Errorf("mode %q appears in both uptime and downtime sets", mode)
		}
	}
}
