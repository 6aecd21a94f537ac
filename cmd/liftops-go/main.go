package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/application/startup"
	"github.com/LiftOpsHQ/liftops-go/internal/presentation/jsonreport"
	"github.com/LiftOpsHQ/liftops-go/pkg/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("liftops failed: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel in-flight analysis on SIGINT/SIGTERM.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	appContainer, err := startup.Initialize(ctx)
	if err != nil {
		return err
	}
	defer startup.Shutdown(appContainer)

	installationID := config.DefaultInstallationID
	loc, err := appContainer.TimezoneService.Location(config.DefaultTimezone)
	if err != nil {
		return err
	}

	// Analyze the last N fully elapsed days ending at local midnight today.
	now := time.Now().In(loc)
	y, m, d := now.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, loc)
	start := end.AddDate(0, 0, -config.AnalysisWindowDays)

	uptimeReport, err := appContainer.UptimeAnalyticsService.AnalyzeUptime(ctx, installationID, start, end, loc)
	if err != nil {
		return fmt.Errorf("uptime analysis failed: %w", err)
	}

	coverageReport, err := appContainer.CoverageAnalyticsService.AnalyzeCoverage(ctx, installationID, start, end, loc)
	if err != nil {
		return fmt.Errorf("coverage analysis failed: %w", err)
	}

	doorReport, err := appContainer.DoorAnalyticsService.AnalyzeDoors(ctx, installationID, start, end, loc)
	if err != nil {
		return fmt.Errorf("door analysis failed: %w", err)
	}

	out, err := jsonreport.Render(jsonreport.CombinedReport{
		Uptime:   uptimeReport,
		Coverage: coverageReport,
		Doors:    doorReport,
	})
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
