package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig holds configuration for database instrumentation.
type DBConfig struct {
	TracingEnabled  bool
	LogFullSQL      bool          // include query variables in spans (dev only)
	SlowQueryThresh time.Duration // default 200ms
	DBName          string
}

type queryStartKey struct{}

// dbInstrumentation marks slow queries on spans and records statement latency
type dbInstrumentation struct {
	config   DBConfig
	duration *Histogram
}

// RegisterDB instruments db with otelgorm spans, slow query marking and a
// db_query_duration_seconds histogram. meter may be nil.
func RegisterDB(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) error {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBName == "" {
		cfg.DBName = "postgresql"
	}

	inst := &dbInstrumentation{config: cfg}
	if meter != nil {
		h, err := NewHistogram(meter, HistogramOpts{
			Name:        "db_query_duration_seconds",
			Description: "SQL statement latency in seconds",
			Unit:        "s",
			Boundaries:  DBDurationBuckets,
		})
		if err != nil {
			return err
		}
		inst.duration = h
	}

	if cfg.TracingEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	if err := inst.register(db); err != nil {
		return err
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.TracingEnabled),
		zap.Bool("metrics", meter != nil),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

// register adds the callbacks; after-callbacks run before otelgorm ends the span
func (i *dbInstrumentation) register(db *gorm.DB) error {
	cb := db.Callback()
	regs := []error{
		cb.Create().Before("gorm:create").Register("telemetry:before_create", i.before),
		cb.Create().After("gorm:create").Before("otel:after_create").Register("telemetry:after_create", i.after("insert")),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", i.before),
		cb.Query().After("gorm:query").Before("otel:after_query").Register("telemetry:after_query", i.after("select")),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", i.before),
		cb.Update().After("gorm:update").Before("otel:after_update").Register("telemetry:after_update", i.after("update")),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", i.before),
		cb.Delete().After("gorm:delete").Before("otel:after_delete").Register("telemetry:after_delete", i.after("delete")),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", i.before),
		cb.Row().After("gorm:row").Before("otel:after_row").Register("telemetry:after_row", i.after("")),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", i.before),
		cb.Raw().After("gorm:raw").Before("otel:after_raw").Register("telemetry:after_raw", i.after("")),
	}
	return errors.Join(regs...)
}

func (i *dbInstrumentation) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// after returns the callback for one chain; an empty operation is derived from the SQL
func (i *dbInstrumentation) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)

		op := operation
		if op == "" {
			op = sqlOperation(db.Statement.SQL.String())
		}
		failed := db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)

		if i.duration != nil {
			i.duration.RecordDuration(ctx, elapsed,
				attribute.String("db.operation", op),
				attribute.String("db.table", db.Statement.Table),
				attribute.Bool("error", failed),
			)
		}

		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if failed {
			span.SetStatus(codes.Error, db.Error.Error())
		}
		if elapsed > i.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("threshold_ms", i.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

// sqlOperation returns the lowercased leading keyword of a statement
func sqlOperation(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return "unknown"
	}
	keyword, _, _ := strings.Cut(stmt, " ")
	return strings.ToLower(keyword)
}

// RegisterDBPoolMetrics exports connection pool statistics as observable gauges
func RegisterDBPoolMetrics(meter metric.Meter, sqlDB *sql.DB) error {
	open, err := meter.Int64ObservableGauge("db_pool_open_connections",
		metric.WithDescription("Open connections, in use and idle"))
	if err != nil {
		return err
	}
	inUse, err := meter.Int64ObservableGauge("db_pool_in_use_connections",
		metric.WithDescription("Connections currently in use"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_count",
		metric.WithDescription("Total number of connections waited for"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections))
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, inUse, waits)
	return err
}
