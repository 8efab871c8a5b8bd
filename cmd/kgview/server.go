package kgview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/kgview/pkg/config"
	"github.com/soundprediction/kgview/pkg/fixtures"
	"github.com/soundprediction/kgview/pkg/metrics"
	"github.com/soundprediction/kgview/pkg/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the kgview HTTP server",
	Long: `Start the kgview HTTP server to provide REST access to the mocked knowledge graph.

The server provides endpoints for:
- The dashboard
- Searching the Q&A corpus
- The graph, its filtered view and node details
- The theme preference
- Health checks and prometheus metrics

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost  string
	serverPort  int
	serverMode  string
	failureRate float64
	watch       bool
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Transport flags
	serverCmd.Flags().Float64Var(&failureRate, "failure-rate", 0.2, "Probability that a simulated request fails")

	// Fixture flags
	serverCmd.Flags().BoolVar(&watch, "watch", false, "Reload fixtures when files in --fixtures-dir change")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for error telemetry")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewCollector("kgview")
	sess, err := openSession(ctx, func(cfg *config.Config) {
		overrideConfigWithFlags(cmd, cfg)
	}, m)
	if err != nil {
		return err
	}
	defer sess.Close()
	logger := sess.logger

	if sess.cfg.Fixtures.Watch {
		watcher, err := fixtures.NewWatcher(sess.client.Fixtures(), fixtures.DefaultDebounce, logger)
		if err != nil {
			return fmt.Errorf("failed to watch fixtures: %w", err)
		}
		defer watcher.Close()
		watcher.Start(ctx)
	}

	// Create and setup server
	srv := server.New(sess.cfg, sess.client, m, logger)
	srv.Setup()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Received shutdown signal")

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Transport flags
	if cmd.Flags().Changed("failure-rate") {
		cfg.Transport.FailureRate = failureRate
	}

	// Fixture flags
	if cmd.Flags().Changed("watch") {
		cfg.Fixtures.Watch = watch
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
