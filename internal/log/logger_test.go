package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("ZeroValueNotInitialized", func(t *testing.T) {
		var logger Logger
		assert.False(t, logger.IsInitialized())
		logger = NewLogger(&bytes.Buffer{})
		assert.True(t, logger.IsInitialized())
	})

	t.Run("InfoNsWritesJSON", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		logger.InfoNs(NsSQL, "opening connection", KV{"target": ":memory:"})

		record := map[string]any{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, "opening connection", record["msg"])
		assert.Equal(t, "sql", record["ns"])
		assert.Equal(t, ":memory:", record["target"])
	})

	t.Run("DebugDroppedByDefault", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		logger.DebugNs(NsSQL, "stepping statement")
		assert.Empty(t, buf.String())
	})

	t.Run("DebugWithLevel", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLoggerWithLevel(buf, slog.LevelDebug)
		logger.DebugNs(NsSQL, "stepping statement", KV{"stmt": 1})
		assert.Contains(t, buf.String(), `"msg":"stepping statement"`)
		assert.Contains(t, buf.String(), `"stmt":1`)
	})
}
