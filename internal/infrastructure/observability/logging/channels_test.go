package logging

import (
	"log/slog"
	"testing"
)

func newTestLogger(t *testing.T) *ChanneledLogger {
	t.Helper()
	cfg := DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	logger, err := NewChanneledLogger(cfg)
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	return logger
}

func TestSetChannelLevelUpdatesReportedLevels(t *testing.T) {
	logger := newTestLogger(t)

	levels := logger.GetChannelLevels()
	if levels[string(ChannelAnalytics)] != slog.LevelInfo.String() {
		t.Fatalf("analytics level = %s, want default %s", levels[string(ChannelAnalytics)], slog.LevelInfo)
	}

	if err := logger.SetChannelLevel(ChannelAnalytics, slog.LevelDebug); err != nil {
		t.Fatalf("SetChannelLevel: %v", err)
	}

	levels = logger.GetChannelLevels()
	if levels[string(ChannelAnalytics)] != slog.LevelDebug.String() {
		t.Errorf("analytics level = %s, want %s", levels[string(ChannelAnalytics)], slog.LevelDebug)
	}
	if levels[string(ChannelCoverage)] != slog.LevelInfo.String() {
		t.Errorf("coverage level changed to %s, other channels must keep the default", levels[string(ChannelCoverage)])
	}
}

func TestSetChannelLevelRejectsUnknownChannel(t *testing.T) {
	logger := newTestLogger(t)

	if err := logger.SetChannelLevel(Channel("no-such-channel"), slog.LevelDebug); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestGetChannelFallsBackToSystem(t *testing.T) {
	logger := newTestLogger(t)

	if logger.GetChannel(Channel("no-such-channel")) != logger.System() {
		t.Error("unknown channel should fall back to the system channel")
	}
}

func TestWithInstallationAndOperationReturnContextLoggers(t *testing.T) {
	logger := newTestLogger(t)

	if logger.WithInstallation(ChannelAnalytics, "inst") == nil {
		t.Error("WithInstallation returned nil")
	}
	if logger.WithOperation(ChannelDoors, "doors:cycles") == nil {
		t.Error("WithOperation returned nil")
	}
}
