// Package uptime provides the pure computation core for elevator
// uptime analytics: mode classification, interval reconstruction from
// car mode change events, metric aggregation, and daily availability
// breakdowns. Everything in this package is a pure function of its
// inputs; callers own logging, persistence, and timezone resolution.
package uptime

// ModeStatus classifies a car mode code.
type ModeStatus string

const (
	StatusUptime   ModeStatus = "uptime"
	StatusDowntime ModeStatus = "downtime"
	StatusUnknown  ModeStatus = "unknown"
)

// uptimeModes are the car mode codes during which an elevator counts
// as in service.
var uptimeModes = map[string]struct{}{
	"ANS": {}, "ATT": {}, "CHC": {}, "CTL": {}, "DCP": {}, "DEF": {},
	"DHB": {}, "DTC": {}, "DTO": {}, "EFO": {}, "EFS": {}, "EHS": {},
	"EPC": {}, "EPR": {}, "EPW": {}, "IDL": {}, "INI": {}, "INS": {},
	"ISC": {}, "LNS": {}, "NOR": {}, "PKS": {}, "PRK": {}, "RCY": {},
	"REC": {}, "SRO": {}, "STP": {},
}

// downtimeModes are the car mode codes during which an elevator counts
// as out of service.
var downtimeModes = map[string]struct{}{
	"COR": {}, "DBF": {}, "DLF": {}, "ESB": {}, "HAD": {}, "HBP": {},
	"NAV": {},
}

// ClassifyMode maps a car mode code to its operational status. Codes
// outside both fixed sets classify as unknown.
func ClassifyMode(modeName string) ModeStatus {
	if _, ok := uptimeModes[modeName]; ok {
		return StatusUptime
	}
	if _, ok := downtimeModes[modeName]; ok {
		return StatusDowntime
	}
	return StatusUnknown
}
