package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures per-query span emission.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL includes query variables in span attributes. Keep it
	// off outside development, plates and customer names end up in
	// statements.
	LogFullSQL bool
	// SlowQueryThresh marks queries above it with a slow_query
	// attribute; zero means 200ms.
	SlowQueryThresh time.Duration
}

// DBTracingPlugin is a gorm plugin layering slow-query detection and
// error marking on top of otelgorm spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

func (p *DBTracingPlugin) Name() string {
	return "workshop:db_tracing"
}

// Initialize registers otelgorm plus the timing callbacks. With
// tracing disabled it registers nothing.
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh))
	return nil
}

func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	var regErr error
	reg := func(err error) {
		if regErr == nil {
			regErr = err
		}
	}
	reg(db.Callback().Create().Before("gorm:create").Register("db_tracing:before_create", markQueryStart))
	reg(db.Callback().Query().Before("gorm:query").Register("db_tracing:before_query", markQueryStart))
	reg(db.Callback().Update().Before("gorm:update").Register("db_tracing:before_update", markQueryStart))
	reg(db.Callback().Delete().Before("gorm:delete").Register("db_tracing:before_delete", markQueryStart))
	reg(db.Callback().Row().Before("gorm:row").Register("db_tracing:before_row", markQueryStart))
	reg(db.Callback().Raw().Before("gorm:raw").Register("db_tracing:before_raw", markQueryStart))
	reg(db.Callback().Create().After("gorm:create").Register("db_tracing:after_create", p.annotateSpan))
	reg(db.Callback().Query().After("gorm:query").Register("db_tracing:after_query", p.annotateSpan))
	reg(db.Callback().Update().After("gorm:update").Register("db_tracing:after_update", p.annotateSpan))
	reg(db.Callback().Delete().After("gorm:delete").Register("db_tracing:after_delete", p.annotateSpan))
	reg(db.Callback().Row().After("gorm:row").Register("db_tracing:after_row", p.annotateSpan))
	reg(db.Callback().Raw().After("gorm:raw").Register("db_tracing:after_raw", p.annotateSpan))
	return regErr
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// annotateSpan runs after each operation and enriches the otelgorm
// span with row counts, table name, errors, and slow-query events.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	// ErrRecordNotFound is an answer, not a failure
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(startTime); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "db_tracing_query_start"
