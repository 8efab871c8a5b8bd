package kgview

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundprediction/kgview"
	"github.com/soundprediction/kgview/pkg/config"
	kgviewLogger "github.com/soundprediction/kgview/pkg/logger"
	"github.com/soundprediction/kgview/pkg/metrics"
	"github.com/soundprediction/kgview/pkg/telemetry"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "kgview",
		Short: "kgview: mocked knowledge graph explorer",
		Long: `kgview serves a mocked knowledge graph: dashboard metrics, a Q&A search
experience and a document/person/topic graph.

All data comes from static fixtures behind a simulated network hop that adds
300-600ms of latency and fails about one request in five.`,
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kgview.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("fixtures-dir", "", "directory with dashboard, search and graph fixtures (default: embedded)")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("fixtures.dir", rootCmd.PersistentFlags().Lookup("fixtures-dir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".kgview" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kgview")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger. When a telemetry path is configured
// error records are also written to parquet files; the returned function
// flushes them.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	handler := kgviewLogger.NewHandler(os.Stderr, cfg.Log)
	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(handler), func() {}, nil
	}

	parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath, telemetry.DefaultBatchSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create telemetry handler: %w", err)
	}
	logger := slog.New(parquetHandler)
	return logger, func() {
		if err := parquetHandler.Close(); err != nil {
			logger.Warn("Failed to flush telemetry", "error", err)
		}
	}, nil
}

// session is what every data command needs: the configuration, a logger
// and an open client.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	client *kgview.Client
	flush  func()
}

func (s *session) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("Failed to close client", "error", err)
		}
	}
	s.flush()
}

// openSession loads the configuration, lets adjust modify it and opens a
// client. m may be nil.
func openSession(ctx context.Context, adjust func(*config.Config), m *metrics.Collector) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if adjust != nil {
		adjust(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	logger, flush, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	client, err := kgview.Open(ctx, cfg, m, logger)
	if err != nil {
		flush()
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, client: client, flush: flush}, nil
}
