// Package database wraps database/sql with the drivers and pool
// settings the event store uses.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LiftOpsHQ/liftops-go/internal/infrastructure/observability/logging"
	"github.com/LiftOpsHQ/liftops-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// DB wraps the standard connection pool.
type DB struct {
	*sql.DB
}

// NewConnection opens, configures and pings an event store connection.
// Both the sqlite3 and libsql drivers are registered.
func NewConnection(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Database().Debug("Opening event store connection", "driver", driverName)

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		logger.Database().Error("Failed to open event store connection", "error", err.Error(), "driver", driverName)
		return nil, fmt.Errorf("open %s connection: %w", driverName, err)
	}

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)

	if err = db.Ping(); err != nil {
		logger.Database().Error("Event store ping failed", "error", err.Error(), "driver", driverName)
		db.Close()
		return nil, fmt.Errorf("ping %s connection: %w", driverName, err)
	}

	duration := time.Since(start)
	logger.Database().Info("Event store connection established", "driver", driverName, "duration", duration)
	if duration > GetSlowQueryThreshold() {
		logger.LogSlowQuery("DATABASE_CONNECTION", duration, "system")
	}

	return &DB{db}, nil
}
