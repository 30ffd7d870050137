package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vela-grid/vela/app"
	"github.com/vela-grid/vela/app/health"
)

var (
	startTime = time.Now()

	healthCheckTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vela_health_check_total",
			Help: "Total number of health check requests",
		},
		[]string{"endpoint", "status"},
	)

	healthCheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vela_health_check_duration_seconds",
			Help:    "Health check request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"endpoint"},
	)

	serviceHealthy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vela_service_healthy",
			Help: "1 if the component is healthy, 0.5 if degraded, 0 if unhealthy",
		},
		[]string{"component"},
	)
)

// startupGracePeriod is how long /health/startup reports starting before the
// readiness rules apply. The node needs time to open its RPC listener.
const startupGracePeriod = 30 * time.Second

// healthPollInterval is how often the background poll refreshes the
// Prometheus gauges.
const healthPollInterval = 15 * time.Second

// HealthCheck is the sidecar health server. It serves the node health
// checker's endpoints, adds a Kubernetes startup probe, and feeds the
// Prometheus gauges from a background poll.
type HealthCheck struct {
	server  *http.Server
	checker *health.Checker
	metrics *app.NodeMetrics
}

// StartHealthCheckServer starts the health check HTTP server. nodeMetrics may
// be nil when OTel is disabled.
func StartHealthCheckServer(port int, checker *health.Checker, nodeMetrics *app.NodeMetrics) *HealthCheck {
	hc := &HealthCheck{
		checker: checker,
		metrics: nodeMetrics,
	}

	router := mux.NewRouter()
	router.Use(hc.healthMetricsMiddleware)
	checker.RegisterRoutes(router)
	router.HandleFunc("/health/startup", hc.handleStartup).Methods("GET")

	hc.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		if err := hc.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("health check server error: %v\n", err)
		}
	}()

	go hc.pollComponents()

	return hc
}

// healthMetricsMiddleware records request counts and latency per endpoint.
func (hc *HealthCheck) healthMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		endpoint := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/health"), "/")
		if endpoint == "" {
			endpoint = "health"
		}

		healthCheckTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", rw.statusCode)).Inc()
		healthCheckDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// handleStartup serves Kubernetes startup probes. Within the grace period it
// reports starting; afterwards it follows the readiness check.
func (hc *HealthCheck) handleStartup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if time.Since(startTime) < startupGracePeriod {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "starting",
			"message": "application is initializing",
		})
		return
	}

	result, err := hc.checker.Check(r.Context(), false)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	statusCode := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(result)
}

// pollComponents refreshes the per-component gauges and forwards the block
// height to the OTel meter when one is configured.
func (hc *HealthCheck) pollComponents() {
	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		result, err := hc.checker.Check(ctx, false)
		cancel()
		if err != nil {
			continue
		}

		for name, component := range result.Components {
			var value float64
			switch component.Status {
			case health.StatusHealthy:
				value = 1
			case health.StatusDegraded:
				value = 0.5
			}
			serviceHealthy.WithLabelValues(name).Set(value)
		}

		if hc.metrics == nil {
			continue
		}
		if consensus, ok := result.Components["consensus"]; ok {
			if height, ok := consensus.Metrics["latest_block_height"].(int64); ok {
				hc.metrics.RecordBlockHeight(context.Background(), height)
			}
		}
	}
}

// Shutdown gracefully shuts down the health check server
func (hc *HealthCheck) Shutdown(ctx context.Context) error {
	if hc.server != nil {
		return hc.server.Shutdown(ctx)
	}
	return nil
}
