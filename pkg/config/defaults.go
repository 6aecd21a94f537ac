// Package config provides centralized default values for LiftOps
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Event store
	DBDriver         string
	DBPath           string
	LibSQLURL        string
	LibSQLAuthToken  string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	CatalogCacheTTL  time.Duration
	SeedSampleEvents bool
	SeedSampleDays   int

	// Analysis defaults
	DefaultInstallationID string
	DefaultTimezone       string
	AnalysisWindowDays    int

	// Range validation policy
	MaxRangeDays          int
	LargeRangeWarningDays int
	RejectEndDateToday    bool

	// Interval reconstruction policy
	MergeAdjacentIntervals bool

	// Observability
	LogDirectory       string
	LogJSONFormat      bool
	LogToFile          bool
	LogToConsole       bool
	DebugLogChannels   string
	SlowQueryThreshold time.Duration
)

func init() {
	loadEnvFile()

	// Event store
	DBDriver = getEnvString("LIFTOPS_DB_DRIVER", "sqlite3")
	DBPath = getEnvString("LIFTOPS_DB_PATH", "liftops.db")
	LibSQLURL = getEnvString("LIFTOPS_LIBSQL_URL", "")
	LibSQLAuthToken = getEnvString("LIFTOPS_LIBSQL_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("LIFTOPS_DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("LIFTOPS_DB_MAX_IDLE_CONNS", 5)
	CatalogCacheTTL = getEnvDuration("LIFTOPS_CATALOG_CACHE_TTL", 5*time.Minute)
	SeedSampleEvents = getEnvBool("LIFTOPS_SEED_SAMPLE_EVENTS", false)
	SeedSampleDays = getEnvInt("LIFTOPS_SEED_SAMPLE_DAYS", 14)

	// Analysis defaults
	DefaultInstallationID = getEnvString("LIFTOPS_INSTALLATION_ID", "demo-installation")
	DefaultTimezone = getEnvString("LIFTOPS_TIMEZONE", "America/New_York")
	AnalysisWindowDays = getEnvInt("LIFTOPS_ANALYSIS_WINDOW_DAYS", 7)

	// Range validation policy
	MaxRangeDays = getEnvInt("LIFTOPS_MAX_RANGE_DAYS", 14)
	LargeRangeWarningDays = getEnvInt("LIFTOPS_LARGE_RANGE_WARNING_DAYS", 365)
	RejectEndDateToday = getEnvBool("LIFTOPS_REJECT_END_TODAY", false)

	// Interval reconstruction policy
	MergeAdjacentIntervals = getEnvBool("LIFTOPS_MERGE_ADJACENT_INTERVALS", false)

	// Observability
	LogDirectory = getEnvString("LIFTOPS_LOG_DIR", "logs")
	LogJSONFormat = getEnvBool("LIFTOPS_LOG_JSON", true)
	LogToFile = getEnvBool("LIFTOPS_LOG_TO_FILE", true)
	LogToConsole = getEnvBool("LIFTOPS_LOG_TO_CONSOLE", true)
	DebugLogChannels = getEnvString("LIFTOPS_DEBUG_LOG_CHANNELS", "")
	SlowQueryThreshold = getEnvDuration("LIFTOPS_SLOW_QUERY_THRESHOLD", 50*time.Millisecond)
}

// GetSlowQueryThreshold returns the configured slow query threshold.
func GetSlowQueryThreshold() time.Duration {
	return SlowQueryThreshold
}
