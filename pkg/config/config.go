package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Fixture data source
	Fixtures FixturesConfig `mapstructure:"fixtures"`

	// Simulated transport
	Transport TransportConfig `mapstructure:"transport"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Search tuning
	Search SearchConfig `mapstructure:"search"`

	// Preferences store
	Preferences PreferencesConfig `mapstructure:"preferences"`

	// Avatar resolution
	Avatar AvatarConfig `mapstructure:"avatar"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// FixturesConfig selects where fixtures are read from. An empty Dir uses
// the embedded fixtures.
type FixturesConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

// TransportConfig holds the simulated network behaviour
type TransportConfig struct {
	MinLatencyMs int     `mapstructure:"min_latency_ms"`
	MaxLatencyMs int     `mapstructure:"max_latency_ms"`
	FailureRate  float64 `mapstructure:"failure_rate"`
	Seed         int64   `mapstructure:"seed"` // 0 seeds from the clock
}

// MinLatency returns the lower latency bound.
func (t TransportConfig) MinLatency() time.Duration {
	return time.Duration(t.MinLatencyMs) * time.Millisecond
}

// MaxLatency returns the upper latency bound.
func (t TransportConfig) MaxLatency() time.Duration {
	return time.Duration(t.MaxLatencyMs) * time.Millisecond
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// SearchConfig tunes the fuzzy matcher
type SearchConfig struct {
	Threshold          float64 `mapstructure:"threshold"`
	MinMatchCharLength int     `mapstructure:"min_match_char_length"`
	DefaultPageSize    int     `mapstructure:"default_page_size"`
}

// PreferencesConfig holds the theme store settings. An empty Path keeps
// preferences in memory.
type PreferencesConfig struct {
	Path         string `mapstructure:"path"`
	DefaultTheme string `mapstructure:"default_theme"`
}

// AvatarConfig holds avatar lookup settings
type AvatarConfig struct {
	LookupEnabled bool   `mapstructure:"lookup_enabled"`
	LookupURL     string `mapstructure:"lookup_url"`
	FallbackURL   string `mapstructure:"fallback_url"`
	CacheSize     int64  `mapstructure:"cache_size"`
	TimeoutMs     int    `mapstructure:"timeout_ms"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("fixtures.dir", "")
	viper.SetDefault("fixtures.watch", false)

	// 300-600ms latency, one request in five fails
	viper.SetDefault("transport.min_latency_ms", 300)
	viper.SetDefault("transport.max_latency_ms", 600)
	viper.SetDefault("transport.failure_rate", 0.2)
	viper.SetDefault("transport.seed", 0)

	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	viper.SetDefault("search.threshold", 0.35)
	viper.SetDefault("search.min_match_char_length", 2)
	viper.SetDefault("search.default_page_size", 10)

	viper.SetDefault("preferences.default_theme", "light")

	viper.SetDefault("avatar.lookup_enabled", false)
	viper.SetDefault("avatar.lookup_url", "https://randomuser.me/api/")
	viper.SetDefault("avatar.fallback_url", "https://robohash.org/")
	viper.SetDefault("avatar.cache_size", 1000)
	viper.SetDefault("avatar.timeout_ms", 2000)

	viper.SetDefault("alert.smtp_port", 587)

	// Preference and telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("preferences.path", filepath.Join(home, ".kgview", "preferences"))
		viper.SetDefault("telemetry.parquet_path", filepath.Join(home, ".kgview", "telemetry"))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) error {
	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		config.Server.Port = p
	}

	if dir := os.Getenv("KGVIEW_FIXTURES_DIR"); dir != "" {
		config.Fixtures.Dir = dir
	}
	if rate := os.Getenv("KGVIEW_FAILURE_RATE"); rate != "" {
		r, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return fmt.Errorf("invalid KGVIEW_FAILURE_RATE %q: %w", rate, err)
		}
		config.Transport.FailureRate = r
	}
	if path, ok := os.LookupEnv("KGVIEW_PREFERENCES_PATH"); ok {
		config.Preferences.Path = path
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Transport.MinLatencyMs < 0 || c.Transport.MaxLatencyMs < c.Transport.MinLatencyMs {
		errs = append(errs, fmt.Errorf("transport latency range [%d,%d] is invalid", c.Transport.MinLatencyMs, c.Transport.MaxLatencyMs))
	}
	if c.Transport.FailureRate < 0 || c.Transport.FailureRate > 1 {
		errs = append(errs, fmt.Errorf("transport.failure_rate must be within [0,1], got %v", c.Transport.FailureRate))
	}
	if c.CircuitBreaker.Enabled && (c.CircuitBreaker.ReadyToTripRatio <= 0 || c.CircuitBreaker.ReadyToTripRatio > 1) {
		errs = append(errs, fmt.Errorf("circuit_breaker.ready_to_trip_ratio must be within (0,1]"))
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		errs = append(errs, fmt.Errorf("search.threshold must be within [0,1], got %v", c.Search.Threshold))
	}
	switch c.Preferences.DefaultTheme {
	case "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("preferences.default_theme must be light or dark, got %q", c.Preferences.DefaultTheme))
	}
	if c.Avatar.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("avatar.cache_size must not be negative"))
	}
	return errors.Join(errs...)
}
