package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"garbage", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	} {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "oficina.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: logFile})
	require.NoError(t, err)

	log.Info("order settled")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "order settled", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.NotEmpty(t, entry["time"])
	assert.NotEmpty(t, entry["caller"])
}

func TestNewRespectsLevel(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "oficina.log")

	log, err := New(&Config{Level: "warn", Format: "json", Output: logFile})
	require.NoError(t, err)

	log.Info("below threshold")
	log.Warn("budget expired")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "below threshold")
	assert.Contains(t, string(raw), "budget expired")
}

func TestOpenSinkFallsBackToStdout(t *testing.T) {
	// a directory is not a writable log file
	sink := openSink(t.TempDir())
	assert.NotNil(t, sink)
}
