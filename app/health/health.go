// Package health reports the operational state of a Vela node.
//
// The checker probes the node over its own CometBFT RPC endpoint: RPC
// responsiveness, consensus freshness, peer connectivity and state store
// access, plus per-module checks for the marketplace modules on the
// detailed endpoint.
//
// Endpoints:
//   - /health          basic liveness
//   - /health/ready    readiness for load balancers
//   - /health/detailed full component breakdown with metrics
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/version"
	"github.com/gorilla/mux"

	rpcclient "github.com/cometbft/cometbft/rpc/client/http"
)

// Status is a component or overall health status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth is the result of probing one component.
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck is the aggregate response for the readiness and detailed
// endpoints.
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
	Metrics    map[string]interface{}     `json:"metrics,omitempty"`
}

// Checker probes a running node over its RPC endpoint.
type Checker struct {
	logger    log.Logger
	rpcClient *rpcclient.HTTP
	clientCtx client.Context

	maxBlockLag     int64
	maxResponseTime time.Duration
	minPeerCount    int

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds the checker's thresholds and RPC target.
type Config struct {
	// RPCURL is the URL of the CometBFT RPC endpoint
	RPCURL string

	// MaxBlockLag is the maximum acceptable block lag before marking as unhealthy
	MaxBlockLag int64

	// MaxResponseTime is the maximum acceptable RPC response time
	MaxResponseTime time.Duration

	// MinPeerCount is the minimum number of peers before marking as degraded
	MinPeerCount int

	// CacheDuration is how long to cache health check results
	CacheDuration time.Duration
}

// DefaultConfig returns thresholds suitable for a localnet or a single
// production node behind a load balancer.
func DefaultConfig() Config {
	return Config{
		RPCURL:          "http://localhost:26657",
		MaxBlockLag:     10,
		MaxResponseTime: 5 * time.Second,
		MinPeerCount:    3,
		CacheDuration:   5 * time.Second,
	}
}

// NewChecker builds a checker against cfg.RPCURL.
func NewChecker(logger log.Logger, cfg Config, clientCtx client.Context) (*Checker, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL is required")
	}

	rpcClient, err := rpcclient.New(cfg.RPCURL, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	return &Checker{
		logger:          logger,
		rpcClient:       rpcClient,
		clientCtx:       clientCtx,
		maxBlockLag:     cfg.MaxBlockLag,
		maxResponseTime: cfg.MaxResponseTime,
		minPeerCount:    cfg.MinPeerCount,
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

// probe is one named component check.
type probe struct {
	name string
	fn   func(context.Context) ComponentHealth
}

func (c *Checker) probes(detailed bool) []probe {
	probes := []probe{
		{"rpc", c.probeRPC},
		{"consensus", c.probeConsensus},
		{"network", c.probeNetwork},
		{"database", c.probeStateStore},
	}
	if detailed {
		probes = append(probes, probe{"modules", c.probeModules})
	}
	return probes
}

// Check runs every probe concurrently and folds the results. Readiness
// checks reuse a short-lived cache so load balancer polling does not
// hammer the RPC endpoint.
func (c *Checker) Check(ctx context.Context, detailed bool) (*HealthCheck, error) {
	if !detailed && c.cacheFresh() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth, nil
	}

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Version:    version.Version,
		Components: make(map[string]ComponentHealth),
		Metrics:    make(map[string]interface{}),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, p := range c.probes(detailed) {
		wg.Add(1)
		go func(p probe) {
			defer wg.Done()
			result := p.fn(ctx)
			mu.Lock()
			health.Components[p.name] = result
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	health.Status = aggregate(health.Components)

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.cachedHealth = health
	c.mu.Unlock()

	return health, nil
}

func unhealthy(format string, args ...interface{}) ComponentHealth {
	return ComponentHealth{
		Status:    StatusUnhealthy,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}
}

func result(status Status, message string, metrics map[string]interface{}) ComponentHealth {
	return ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
}

// probeRPC measures round-trip time to the Status endpoint.
func (c *Checker) probeRPC(ctx context.Context) ComponentHealth {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.maxResponseTime)
	defer cancel()

	start := time.Now()
	status, err := c.rpcClient.Status(timeoutCtx)
	duration := time.Since(start)

	if err != nil {
		return unhealthy("RPC connection failed: %v", err)
	}

	metrics := map[string]interface{}{
		"response_time_ms": duration.Milliseconds(),
		"node_info":        status.NodeInfo.Moniker,
		"network":          status.NodeInfo.Network,
	}

	if duration > c.maxResponseTime/2 {
		return result(StatusDegraded, "RPC endpoint response time is degraded", metrics)
	}
	return result(StatusHealthy, "RPC endpoint is responsive", metrics)
}

// probeConsensus reports sync state and block freshness.
func (c *Checker) probeConsensus(ctx context.Context) ComponentHealth {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.maxResponseTime)
	defer cancel()

	status, err := c.rpcClient.Status(timeoutCtx)
	if err != nil {
		return unhealthy("Failed to get consensus status: %v", err)
	}

	sync := status.SyncInfo
	metrics := map[string]interface{}{
		"latest_block_height": sync.LatestBlockHeight,
		"latest_block_time":   sync.LatestBlockTime.Format(time.RFC3339),
		"catching_up":         sync.CatchingUp,
	}

	// A marketplace node that stops seeing blocks also stops settling
	// leases; stale consensus is unhealthy, not merely degraded.
	blockAge := time.Since(sync.LatestBlockTime)
	if blockAge > 5*time.Minute {
		metrics["block_age_seconds"] = blockAge.Seconds()
		h := unhealthy("Node is stale (last block %.1f minutes ago)", blockAge.Minutes())
		h.Metrics = metrics
		return h
	}

	if sync.CatchingUp {
		return result(StatusDegraded, "Node is catching up with the network", metrics)
	}
	return result(StatusHealthy, "Consensus is healthy", metrics)
}

// probeNetwork reports peer connectivity.
func (c *Checker) probeNetwork(ctx context.Context) ComponentHealth {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.maxResponseTime)
	defer cancel()

	netInfo, err := c.rpcClient.NetInfo(timeoutCtx)
	if err != nil {
		return unhealthy("Failed to get network info: %v", err)
	}

	peerCount := netInfo.NPeers
	metrics := map[string]interface{}{
		"peer_count": peerCount,
		"listening":  netInfo.Listening,
		"listeners":  netInfo.Listeners,
	}

	switch {
	case peerCount == 0:
		h := unhealthy("No peers connected")
		h.Metrics = metrics
		return h
	case peerCount < c.minPeerCount:
		return result(StatusDegraded,
			fmt.Sprintf("Low peer count: %d (minimum recommended: %d)", peerCount, c.minPeerCount), metrics)
	default:
		return result(StatusHealthy, fmt.Sprintf("Network healthy with %d peers", peerCount), metrics)
	}
}

// probeStateStore verifies the state store answers queries. ABCIInfo reads
// the committed app state, so a wedged database surfaces here first.
func (c *Checker) probeStateStore(ctx context.Context) ComponentHealth {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.maxResponseTime)
	defer cancel()

	start := time.Now()
	_, err := c.rpcClient.ABCIInfo(timeoutCtx)
	duration := time.Since(start)

	if err != nil {
		return unhealthy("Database query failed: %v", err)
	}

	metrics := map[string]interface{}{
		"query_time_ms": duration.Milliseconds(),
	}

	if duration > time.Second {
		return result(StatusDegraded, "Database response time is degraded", metrics)
	}
	return result(StatusHealthy, "Database is responsive", metrics)
}

// probeModules reports the marketplace module set. A store query for each
// module verifies its store is reachable; a failed query marks the module
// unhealthy.
func (c *Checker) probeModules(ctx context.Context) ComponentHealth {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.maxResponseTime)
	defer cancel()

	modules := []string{"bank", "staking", "cert", "escrow", "deployment", "market"}
	moduleStatus := make(map[string]string, len(modules))

	overall := StatusHealthy
	message := "All modules operational"

	for _, module := range modules {
		// The store query only needs to succeed; content is irrelevant.
		_, err := c.rpcClient.ABCIQuery(timeoutCtx, fmt.Sprintf("/store/%s/key", module), []byte("params"))
		if err != nil {
			moduleStatus[module] = "unhealthy"
			overall = StatusUnhealthy
			message = fmt.Sprintf("Module %s store is unreachable", module)
			continue
		}
		moduleStatus[module] = "healthy"
	}

	return result(overall, message, map[string]interface{}{"modules": moduleStatus})
}

// aggregate folds component statuses into one: any unhealthy component
// wins, then any degraded one.
func aggregate(components map[string]ComponentHealth) Status {
	overall := StatusHealthy
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

func (c *Checker) cacheFresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cachedHealth != nil && time.Since(c.lastCheck) < c.cacheDuration
}

// RegisterRoutes mounts the three health endpoints on router.
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleLiveness).Methods("GET")
	router.HandleFunc("/health/ready", c.handleCheck(false)).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleCheck(true)).Methods("GET")
}

// handleLiveness answers without touching the RPC endpoint, so it stays
// green while the node is starting up.
func (c *Checker) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (c *Checker) handleCheck(detailed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health, err := c.Check(r.Context(), detailed)
		if err != nil {
			c.logger.Error("Health check failed", "detailed", detailed, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}

		statusCode := http.StatusOK
		if health.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		writeJSON(w, statusCode, health)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
