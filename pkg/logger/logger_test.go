package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/kgview/pkg/config"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestColorHandlerFormatsRecord(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("Serving search results", "query", "deploy guide", "count", 3, "took", 40*time.Millisecond)

	line := buf.String()
	assert.Contains(t, line, "INFO  Serving search results")
	assert.Contains(t, line, `query="deploy guide"`)
	assert.Contains(t, line, "count=3")
	assert.Contains(t, line, "took=40ms")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestColorHandlerLevelFilter(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	log := slog.New(h)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN  shown")
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	assert.True(t, NewColorHandler(&buf, nil).Enabled(context.Background(), slog.LevelInfo))
}

func TestColorHandlerAttrsAndGroups(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, nil)).With("component", "transport").WithGroup("breaker")

	log.Info("state changed", "to", "open", slog.Group("counts", "failures", 3))

	line := buf.String()
	assert.Contains(t, line, "component=transport")
	assert.Contains(t, line, "breaker.to=open")
	assert.Contains(t, line, "breaker.counts.failures=3")
}

func TestColorizeUsesLevelColors(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	assert.NotEqual(t, "x", colorize(slog.LevelError, "x", "x"))
	assert.NotEqual(t, "x", colorize(slog.LevelWarn, "x", "x"))
	assert.NotEqual(t, "x", colorize(slog.LevelInfo, "Fixtures loaded", "x"))
	assert.Equal(t, "x", colorize(slog.LevelInfo, "Serving", "x"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, config.LogConfig{Level: "info", Format: "json"}))
	log.Info("hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	assert.IsType(t, &ColorHandler{}, NewHandler(&buf, config.LogConfig{}))
}
