package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/heathrow-climate/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")

	logger.Debug("table loaded", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "table loaded", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestNewLogger_TextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown", "column", "sun_hours")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "column=sun_hours")
}

func TestNewLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "error", LogFormat: "text"})

	assert.Same(t, logger, slog.Default())
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestMetricsForTesting_AreUsable(t *testing.T) {
	m := NewMetricsForTesting()
	m.RowsLoaded.Add(12)
	m.MissingAggregates.WithLabelValues("sun_hours").Inc()
	m.StageDuration.WithLabelValues("load").Observe(0.01)

	assert.InDelta(t, 12, testutil.ToFloat64(m.RowsLoaded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.MissingAggregates.WithLabelValues("sun_hours")), 0)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsForTesting()
	reg.MustRegister(m.RowsLoaded, m.GroupsProduced)
	m.RowsLoaded.Add(5)
	m.GroupsProduced.Set(12)

	path := filepath.Join(t.TempDir(), "heathrow.prom")
	require.NoError(t, writeTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "heathrow_rows_loaded_total 5")
	assert.Contains(t, string(data), "heathrow_groups 12")
}

func TestWriteTextfile_EmptyPathIsNoop(t *testing.T) {
	require.NoError(t, WriteTextfile(""))
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	err := writeTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}
