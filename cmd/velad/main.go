package main

import (
	"context"
	"fmt"
	"os"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"
	svrcmd "github.com/cosmos/cosmos-sdk/server/cmd"

	"github.com/vela-grid/vela/app"
	"github.com/vela-grid/vela/cmd/velad/cmd"
)

func main() {
	home := resolveNodeHome(os.Args[1:])
	metricsPort, healthPort := loadTelemetryPorts(home)
	rpcEndpoint := resolveRPCAddress(home)

	// Prometheus metrics server on the configured port.
	StartPrometheusServer(metricsPort)

	// OTLP tracing and the OTel meter are opt-in; configuring a collector
	// endpoint turns them on. The exported instruments land on the default
	// Prometheus registry, so they show up on the metrics port above.
	var nodeMetrics *app.NodeMetrics
	if cfg := loadTracingConfig(home, metricsPort); cfg.Enabled {
		provider, metrics, err := app.InitTelemetry(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "telemetry init failed: %v\n", err)
		} else {
			nodeMetrics = metrics
			defer func() {
				_ = provider.Shutdown(context.Background())
			}()
		}
	}

	// Health check server probing the node over its local RPC endpoint.
	logger := log.NewLogger(os.Stderr)
	checker, err := app.NewHealthChecker(logger, client.Context{}, rpcEndpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "health checker init failed: %v\n", err)
	} else {
		StartHealthCheckServer(healthPort, checker, nodeMetrics)
	}

	rootCmd := cmd.NewRootCmd(false)

	if err := svrcmd.Execute(rootCmd, "", app.DefaultNodeHome); err != nil {
		os.Exit(1)
	}
}
