package database

import (
	"time"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// QueryMetrics holds metrics about a database operation
type QueryMetrics struct {
	Operation    string
	Duration     time.Duration
	RowsAffected int64
	Failed       bool
}

// MetricsCollector measures store operations and reports the slow ones
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider, slowThreshold time.Duration) *MetricsCollector {
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: slowThreshold,
	}
}

// MeasureQuery runs fn and logs it when it took longer than the slow threshold
func (c *MetricsCollector) MeasureQuery(operation string, fields map[string]any, fn func() (int64, error)) (*QueryMetrics, error) {
	start := c.timeProvider.Now()

	rowsAffected, err := fn()

	metrics := &QueryMetrics{
		Operation:    operation,
		Duration:     c.timeProvider.Since(start).Std(),
		RowsAffected: rowsAffected,
		Failed:       err != nil,
	}

	if c.slowThreshold > 0 && metrics.Duration > c.slowThreshold {
		logFields := map[string]any{
			"operation":     operation,
			"duration_ms":   metrics.Duration.Milliseconds(),
			"rows_affected": rowsAffected,
			"failed":        metrics.Failed,
		}
		for k, v := range fields {
			logFields[k] = v
		}
		c.logger.Warn("Slow database operation", logFields)
	}

	return metrics, err
}

// LogPoolStats writes the connection pool counters
func LogPoolStats(db *gorm.DB, logger coreport.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	stats := sqlDB.Stats()
	fields := map[string]any{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration_ms": stats.WaitDuration.Milliseconds(),
		"max_open":         stats.MaxOpenConnections,
	}

	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
		logger.Warn("Database connection pool exhausted", fields)
		return nil
	}
	logger.Debug("Database connection pool stats", fields)
	return nil
}
