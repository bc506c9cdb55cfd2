package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(l *GormLogger, begin time.Time, err error) {
	l.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM service_orders", 3
	}, err)
}

func TestGormLoggerTraceLevels(t *testing.T) {
	t.Run("successful query logs at debug", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Info)
		traceQuery(l, time.Now(), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("failed query logs at error", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(l, time.Now(), errors.New("connection reset"))

		entries := recorded.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	})

	t.Run("record not found is skipped", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(l, time.Now(), gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.All())
	})

	t.Run("record not found logged when opted in", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Error, WithRecordNotFound(true))
		traceQuery(l, time.Now(), gormlogger.ErrRecordNotFound)
		assert.Len(t, recorded.FilterMessage("SQL Error").All(), 1)
	})

	t.Run("slow query logs at warn", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
		traceQuery(l, time.Now().Add(-time.Millisecond), nil)

		entries := recorded.FilterMessage("Slow SQL").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Silent)
		traceQuery(l, time.Now(), errors.New("ignored"))
		assert.Empty(t, recorded.All())
	})
}

func TestGormLoggerTraceCarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")
	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM vehicles", 1
	}, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
}

func TestGormLoggerLogMode(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Warn)
	quiet := l.LogMode(gormlogger.Silent)

	assert.Equal(t, gormlogger.Silent, quiet.(*GormLogger).level)
	// the original keeps its level
	assert.Equal(t, gormlogger.Warn, l.level)
}

func TestMapGormLogLevel(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"anything", gormlogger.Warn},
	} {
		assert.Equal(t, tt.want, MapGormLogLevel(tt.in), "level %q", tt.in)
	}
}
