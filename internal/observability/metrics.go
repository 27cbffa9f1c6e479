package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Client session metrics
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aac_gateway_active_sessions",
		Help: "Number of connected client sessions",
	})

	totalSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aac_gateway_sessions_total",
		Help: "Total number of client sessions served",
	})

	// Suggestion generation metrics
	generationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aac_gateway_generation_requests_total",
		Help: "Total suggestion generation requests",
	}, []string{"status"}) // status: "success", "error", "mock"

	generationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aac_gateway_generation_latency_seconds",
		Help:    "Suggestion generation latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
	})

	// Speech recognition metrics
	recognizedUtterances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aac_gateway_recognized_utterances_total",
		Help: "Total recognized speech results",
	}, []string{"kind"}) // kind: "final" or "interim"

	recognitionRestarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aac_gateway_recognition_restarts_total",
		Help: "Total automatic recognition stream restarts",
	})

	// Tile activations (phrases spoken for the user)
	spokenTiles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aac_gateway_spoken_tiles_total",
		Help: "Total suggestion tiles spoken aloud",
	})

	// Persistence metrics
	storeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aac_gateway_store_errors_total",
		Help: "Total key-value store failures",
	}, []string{"op"}) // op: "get", "set", "delete"

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aac_gateway_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})

	// Circuit breaker metrics
	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aac_gateway_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"service"})
)

// RecordSessionStart records a new connected client session.
func RecordSessionStart() {
	activeSessions.Inc()
	totalSessions.Inc()
}

// RecordSessionEnd records a disconnected client session.
func RecordSessionEnd() {
	activeSessions.Dec()
}

// RecordGeneration records one suggestion generation cycle.
func RecordGeneration(status string, elapsed time.Duration) {
	generationRequests.WithLabelValues(status).Inc()
	generationLatency.Observe(elapsed.Seconds())
}

// RecordRecognition records one recognition result.
func RecordRecognition(isFinal bool) {
	kind := "interim"
	if isFinal {
		kind = "final"
	}
	recognizedUtterances.WithLabelValues(kind).Inc()
}

// RecordRecognitionRestart records one automatic stream restart.
func RecordRecognitionRestart() {
	recognitionRestarts.Inc()
}

// RecordSpokenTile records a tile activation.
func RecordSpokenTile() {
	spokenTiles.Inc()
}

// RecordStoreError records a key-value store failure for the given op.
func RecordStoreError(op string) {
	storeErrors.WithLabelValues(op).Inc()
}

// RecordError records an error by type and component.
func RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// UpdateCircuitBreakerState records the current breaker state for a service.
func UpdateCircuitBreakerState(service string, state int) {
	circuitBreakerState.WithLabelValues(service).Set(float64(state))
}
