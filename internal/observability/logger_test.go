// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pageutils/internal/config"
)

// -- Test Helper Functions --

type syncBuffer struct{ bytes.Buffer }

func (b *syncBuffer) Sync() error { return nil }

// -- Test Cases --

func TestNewLogger(t *testing.T) {
	t.Run("console format colorizes levels", func(t *testing.T) {
		var buf syncBuffer
		logger, err := NewLogger(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "TestService",
			Colors:      config.ColorConfig{Info: "green"},
		}, &buf)
		require.NoError(t, err)

		logger.Info("This is a test message.")
		logger.Debug("plain debug")

		output := buf.String()
		assert.Contains(t, output, colorGreen+"INFO"+colorReset)
		assert.Contains(t, output, "TestService.")
		assert.Contains(t, output, "This is a test message.")
		assert.Contains(t, output, "\tDEBUG\t", "levels without a color stay plain")
	})

	t.Run("json format", func(t *testing.T) {
		var buf syncBuffer
		logger, err := NewLogger(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "svc"}, &buf)
		require.NoError(t, err)

		logger.Info("structured", zap.String("key", "value"))
		logger.Debug("filtered out")

		var entry map[string]any
		require.NoError(t, jsoniter.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "svc", entry["logger"])
		assert.Equal(t, "structured", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewLogger(config.LoggerConfig{Level: "loud"}, &syncBuffer{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `invalid log level "loud"`)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pageutils.log")
		logger, err := NewLogger(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, &syncBuffer{})
		require.NoError(t, err)

		logger.Warn("to the file")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to the file"`)
	})
}

func TestInitializeAndGetLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second syncBuffer
	require.NoError(t, Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &first))
	// A second initialization is ignored.
	require.NoError(t, Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &second))

	ForRun("run-123").Info("hello")
	Sync()

	assert.Contains(t, first.String(), `"run_id":"run-123"`)
	assert.Empty(t, second.String())
	assert.Same(t, GetLogger(), zap.L())
}

func TestGetLogger_Fallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitialize_Error(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	err := Initialize(config.LoggerConfig{Level: "nope"}, &syncBuffer{})
	assert.Error(t, err)
}
