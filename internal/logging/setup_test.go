package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandlerText(t *testing.T) {
	t.Parallel()

	t.Run("returns charmbracelet handler", func(t *testing.T) {
		var buf bytes.Buffer
		handler := SetupHandlerText("info", &buf)
		_, ok := handler.(*log.Logger)
		assert.True(t, ok)
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(SetupHandlerText("warn", &buf))

		logger.Info("hidden")
		logger.Warn("visible")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})
}

func TestSetupHandlerJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(SetupHandlerJSON("info", &buf))
	logger.Info("order accepted", "order_id", "o1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "order accepted", entry["msg"])
	assert.Equal(t, "o1", entry["order_id"])
}

func TestSetupHandler(t *testing.T) {
	t.Parallel()

	t.Run("json format selects JSON handler", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(SetupHandler("info", "json", &buf))
		logger.Info("hello")
		assert.True(t, json.Valid(buf.Bytes()))
	})

	t.Run("unknown format falls back to text", func(t *testing.T) {
		var buf bytes.Buffer
		handler := SetupHandler("info", "yaml", &buf)
		_, ok := handler.(*log.Logger)
		assert.True(t, ok)
	})
}
