// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"compare-workers/internal/common/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapLogger_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "rank-items"})

	log.WithError(errors.New("boom")).Warn("ranking degraded", map[string]interface{}{
		"items": 3,
		"cause": errors.New("cache miss"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "ranking degraded", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.Equal(t, "rank-items", ctx["taskType"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "cache miss", ctx["cause"])
	assert.EqualValues(t, 3, ctx["items"])
}

func TestNewStructured(t *testing.T) {
	assert.NotNil(t, NewStructured("info", "json"))
	assert.NotNil(t, NewStructured("debug", "console"))
	NewNoOpLogger().Info("discarded", nil)
}

func TestFromConfig_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workers.log")
	l := FromConfig(config.LoggingConfig{Level: "warn", Format: "json", Output: path})

	l.Info("dropped below level")
	l.Warn("session store slow", zap.String("taskType", "submit-items"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"session store slow"`)
	assert.NotContains(t, string(data), "dropped below level")
}
