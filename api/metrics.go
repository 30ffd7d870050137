package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vela_gateway_requests_total",
			Help: "Total number of gateway API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vela_gateway_request_duration_seconds",
			Help:    "Gateway API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	gatewayWSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vela_gateway_ws_connections",
		Help: "Number of active WebSocket connections",
	})

	gatewayTxBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vela_gateway_tx_broadcasts_total",
			Help: "Transactions broadcast through the gateway by message type",
		},
		[]string{"msg_type", "status"},
	)

	gatewayChainHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vela_gateway_chain_height",
		Help: "Latest block height observed on the connected node",
	})
)

// MetricsMiddleware records request counts and latencies. Labels use the
// route template rather than the raw path to keep cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		status := fmt.Sprintf("%d", c.Writer.Status())
		gatewayRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		gatewayRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func recordTxBroadcast(msgType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	gatewayTxBroadcastsTotal.WithLabelValues(msgType, status).Inc()
}
