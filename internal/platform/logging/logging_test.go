package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, ParseLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, ParseLevel(" ERROR ", slog.LevelDebug))
	assert.Equal(t, slog.LevelDebug, ParseLevel("chatty", slog.LevelDebug))
}

func TestNewTo_ProdWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "prod", "")

	log.Debug("pipeline scored", "items", 3)
	assert.Zero(t, buf.Len())

	log.Info("pipeline refreshed", "items", 3)
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "pipeline refreshed", line["msg"])
	assert.Equal(t, "renewals", line["service"])
	assert.EqualValues(t, 3, line["items"])
}

func TestNewTo_DevHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, "dev", "warn")

	log.Info("ignored")
	assert.Zero(t, buf.Len())
	log.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}
