package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Placeholder values that count as "no key configured". The sample .env
// ships with these so a fresh checkout runs in mock mode.
var placeholderKeys = []string{"", "your-api-key", "changeme", "sk-..."}

// Config holds all configuration for the AAC gateway service
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// OpenAI suggestion backend. An empty or placeholder key runs the
	// gateway in mock mode with a fixed suggestion set.
	OpenAIAPIKey      string  `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel       string  `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAITemperature float64 `envconfig:"OPENAI_TEMPERATURE" default:"0.7"`
	MockLatencyMs     int     `envconfig:"MOCK_LATENCY_MS" default:"500"` // simulated backend latency in mock mode

	// Deepgram STT configuration. Optional: without a key the
	// server-side audio path is disabled and clients run recognition
	// on-device.
	DeepgramAPIKey     string `envconfig:"DEEPGRAM_API_KEY" default:""`
	DeepgramModel      string `envconfig:"DEEPGRAM_MODEL" default:"nova-2"` // nova-2, enhanced, base
	DeepgramLanguage   string `envconfig:"DEEPGRAM_LANGUAGE" default:"en"`  // Language code (en, es, fr, etc.)
	DeepgramSampleRate int    `envconfig:"DEEPGRAM_SAMPLE_RATE" default:"16000"`

	// Persistence configuration. Empty path keeps everything in memory.
	StorePath string `envconfig:"STORE_PATH" default:""` // SQLite file path

	// Audio processing configuration
	AudioBufferSize    int     `envconfig:"AUDIO_BUFFER_SIZE" default:"65536"`    // Ring buffer size in bytes
	AudioSampleRate    int     `envconfig:"AUDIO_SAMPLE_RATE" default:"16000"`    // Client microphone sample rate
	VADEnergyThreshold float64 `envconfig:"VAD_ENERGY_THRESHOLD" default:"500.0"` // RMS energy threshold for VAD
	VADSilenceFrames   int     `envconfig:"VAD_SILENCE_FRAMES" default:"25"`      // Frames of silence to mark speech end

	// Resilience configuration
	CircuitBreakerMaxFailures   int `envconfig:"CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`   // Failures before opening circuit
	CircuitBreakerResetTimeout  int `envconfig:"CIRCUIT_BREAKER_RESET_TIMEOUT" default:"30"` // Seconds before attempting recovery
	RecognitionRestartBackoffMs int `envconfig:"RECOGNITION_RESTART_BACKOFF" default:"150"`  // Restart backoff in milliseconds
	GenerationTimeoutSecs       int `envconfig:"GENERATION_TIMEOUT" default:"30"`            // Per-request backend timeout in seconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DeepgramSampleRate <= 0 {
		return nil, fmt.Errorf("DEEPGRAM_SAMPLE_RATE must be positive")
	}
	if cfg.RecognitionRestartBackoffMs <= 0 {
		return nil, fmt.Errorf("RECOGNITION_RESTART_BACKOFF must be positive")
	}

	return &cfg, nil
}

// MockMode reports whether the gateway runs without a usable suggestion
// backend credential.
func (c *Config) MockMode() bool {
	key := strings.TrimSpace(c.OpenAIAPIKey)
	for _, p := range placeholderKeys {
		if strings.EqualFold(key, p) {
			return true
		}
	}
	return false
}

// SpeechToTextEnabled reports whether the server-side audio path is
// configured.
func (c *Config) SpeechToTextEnabled() bool {
	return strings.TrimSpace(c.DeepgramAPIKey) != ""
}

// RecognitionRestartBackoff returns the restart backoff as a duration.
func (c *Config) RecognitionRestartBackoff() time.Duration {
	return time.Duration(c.RecognitionRestartBackoffMs) * time.Millisecond
}

// MockLatency returns the simulated mock-mode latency as a duration.
func (c *Config) MockLatency() time.Duration {
	return time.Duration(c.MockLatencyMs) * time.Millisecond
}

// GenerationTimeout returns the per-request backend timeout.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSecs) * time.Second
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
