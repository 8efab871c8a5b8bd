package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("SERVER_PORT", "")
	t.Setenv("KGVIEW_FAILURE_RATE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 300, cfg.Transport.MinLatencyMs)
	assert.Equal(t, 600, cfg.Transport.MaxLatencyMs)
	assert.Equal(t, 0.2, cfg.Transport.FailureRate)
	assert.Equal(t, 0.35, cfg.Search.Threshold)
	assert.Equal(t, 2, cfg.Search.MinMatchCharLength)
	assert.Equal(t, "light", cfg.Preferences.DefaultTheme)
	assert.False(t, cfg.CircuitBreaker.Enabled)
	assert.False(t, cfg.Avatar.LookupEnabled)
	assert.Equal(t, int64(1000), cfg.Avatar.CacheSize)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KGVIEW_FIXTURES_DIR", "/srv/fixtures")
	t.Setenv("KGVIEW_FAILURE_RATE", "0")
	t.Setenv("KGVIEW_PREFERENCES_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/fixtures", cfg.Fixtures.Dir)
	assert.Zero(t, cfg.Transport.FailureRate)
	assert.Empty(t, cfg.Preferences.Path)
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("SERVER_PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)

	viper.Reset()
	t.Setenv("SERVER_PORT", "")
	t.Setenv("KGVIEW_FAILURE_RATE", "1.5")
	_, err = Load()
	assert.ErrorContains(t, err, "failure_rate")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:         LogConfig{Format: "text"},
			Server:      ServerConfig{Port: 8080},
			Transport:   TransportConfig{MinLatencyMs: 300, MaxLatencyMs: 600, FailureRate: 0.2},
			Search:      SearchConfig{Threshold: 0.35},
			Preferences: PreferencesConfig{DefaultTheme: "light"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"latency order", func(c *Config) { c.Transport.MaxLatencyMs = 100 }, "latency"},
		{"failure rate", func(c *Config) { c.Transport.FailureRate = -0.1 }, "failure_rate"},
		{"breaker ratio", func(c *Config) { c.CircuitBreaker.Enabled = true }, "ready_to_trip_ratio"},
		{"theme", func(c *Config) { c.Preferences.DefaultTheme = "blue" }, "default_theme"},
		{"threshold", func(c *Config) { c.Search.Threshold = 2 }, "search.threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTransportDurations(t *testing.T) {
	tc := TransportConfig{MinLatencyMs: 300, MaxLatencyMs: 600}
	assert.Equal(t, "300ms", tc.MinLatency().String())
	assert.Equal(t, "600ms", tc.MaxLatency().String())
}
