package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"

	"github.com/vela-grid/vela/app/telemetry"
)

func TestNewNodeMetrics(t *testing.T) {
	// A meter provider without readers records into nothing, which is enough
	// to exercise instrument registration and the attribute paths.
	meter := metricsdk.NewMeterProvider().Meter("test")

	metrics, err := NewNodeMetrics(meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	metrics.RecordTransaction(ctx, "create_bid", 25*time.Millisecond, 85000, true)
	metrics.RecordTransaction(ctx, "close_lease", 10*time.Millisecond, 42000, false)
	metrics.RecordBlockHeight(ctx, 12)
	metrics.RecordOrderMatched(ctx)
	metrics.RecordLeaseClosed(ctx, "insufficient_funds")
	metrics.RecordSettlement(ctx, 60, "uvela")
}

func TestInitTelemetryDisabled(t *testing.T) {
	provider, metrics, err := InitTelemetry(telemetry.Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, provider)
	require.NotNil(t, metrics)

	require.NoError(t, provider.HealthCheck())
	require.NoError(t, provider.Shutdown(context.Background()))
}
