package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), "input %q", input)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("dataset loaded", "source", "GeoData.csv", "rows", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "dataset loaded", line["msg"])
	assert.Equal(t, "GeoData.csv", line["source"])
	assert.EqualValues(t, 3, line["rows"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("cache miss", "cache", "geo_filter")

	assert.Contains(t, buf.String(), "msg=\"cache miss\"")
	assert.Contains(t, buf.String(), "cache=geo_filter")
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.CacheLookups.WithLabelValues("loader", CacheResult(true)).Inc()
	m.CacheLookups.WithLabelValues("loader", CacheResult(false)).Add(2)
	m.DashboardReady.Set(1)

	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues("loader", "hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues("loader", "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DashboardReady), 0)
}
