package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/speakeasyai/aac-gateway/internal/config"
	"github.com/speakeasyai/aac-gateway/internal/gateway"
	"github.com/speakeasyai/aac-gateway/internal/observability"
	"github.com/speakeasyai/aac-gateway/internal/resilience"
	"github.com/speakeasyai/aac-gateway/internal/store"
	"github.com/speakeasyai/aac-gateway/internal/suggest"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Bool("mock_mode", cfg.MockMode()).
		Bool("server_side_stt", cfg.SpeechToTextEnabled()).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("AAC Gateway Service starting")

	// Open the key-value store
	var kv store.Store
	if cfg.StorePath != "" {
		kv, err = store.OpenSQLite(cfg.StorePath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.StorePath).Msg("Failed to open store")
		}
		logger.Info().Str("path", cfg.StorePath).Msg("SQLite store opened")
	} else {
		kv = store.NewMemory()
		logger.Warn().Msg("No STORE_PATH configured, persistence is in-memory only")
	}
	defer kv.Close()

	// Build the suggestion generator. Without a usable API key the
	// gateway serves the fixed mock suggestion set.
	var backend suggest.Backend
	if !cfg.MockMode() {
		backend = suggest.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, float32(cfg.OpenAITemperature))
	} else {
		logger.Warn().Msg("Running in mock mode without a suggestion backend")
	}
	breaker := resilience.NewCircuitBreaker(
		"openai",
		cfg.CircuitBreakerMaxFailures,
		time.Duration(cfg.CircuitBreakerResetTimeout)*time.Second,
	)
	generator := suggest.NewGenerator(backend, breaker, cfg.MockLatency(), logger)

	// Create HTTP server
	mux := http.NewServeMux()

	// Client device WebSocket endpoint
	mux.HandleFunc("/ws", gateway.Handler(gateway.Deps{
		Config:    cfg,
		Generator: generator,
		Store:     kv,
		Logger:    logger,
	}))

	// Health check endpoint
	mux.HandleFunc("/health", observability.HealthCheckHandler())

	// Readiness checks: the store must answer and the breaker must not
	// be stuck open.
	checks := map[string]observability.HealthCheckFunc{
		"store": func(ctx context.Context) (bool, error) {
			if _, err := kv.Get(store.KeyFontSize); err != nil && err != store.ErrNotFound {
				return false, err
			}
			return true, nil
		},
		"suggestion_backend": func(ctx context.Context) (bool, error) {
			if breaker.State() == resilience.StateOpen {
				return false, fmt.Errorf("circuit breaker open")
			}
			return true, nil
		},
	}
	mux.HandleFunc("/ready", observability.ReadinessHandler(checks))

	// Metrics endpoint (Prometheus)
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	// Create HTTP server with timeouts. WebSocket connections are
	// long-lived, so only the idle timeout applies to them.
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     mux,
		ReadTimeout: 0,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("ws://localhost:%s/ws", cfg.Port)).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
