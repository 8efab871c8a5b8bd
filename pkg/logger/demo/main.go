package main

import (
	"log/slog"

	"github.com/soundprediction/kgview/pkg/logger"
)

func main() {
	// Create a colored logger
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Info("kgview colored logger demo")

	log.Debug("[Mock API] GET /api/search")
	log.Info("Serving search results", "query", "deploy", "count", 3)
	log.Info("Fixtures loaded", "records", 8, "nodes", 11, "edges", 10)
	log.Info("Theme saved", "theme", "dark")
	log.Warn("Graph fixture has dangling edges", "edge", "e42")
	log.Error("Mock API request failed", "endpoint", "/graph", "error", "network request failed")

	log.With("component", "transport").WithGroup("breaker").Warn("Circuit breaker state changed", "from", "closed", "to", "open")
}
