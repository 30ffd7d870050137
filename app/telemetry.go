package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/vela-grid/vela/app/telemetry"
)

// NodeMetrics records node and marketplace measurements on an OpenTelemetry
// meter. One instance is shared by the node process.
type NodeMetrics struct {
	meter metric.Meter

	txCounter     metric.Int64Counter
	txDuration    metric.Float64Histogram
	txGasUsed     metric.Int64Histogram
	blockHeight   metric.Int64Gauge
	ordersMatched metric.Int64Counter
	leasesClosed  metric.Int64Counter
	settledTotal  metric.Int64Counter
}

// NewNodeMetrics registers the node's instruments on the given meter.
func NewNodeMetrics(meter metric.Meter) (*NodeMetrics, error) {
	txCounter, err := meter.Int64Counter(
		"vela.tx.total",
		metric.WithDescription("Total number of transactions"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		return nil, err
	}

	txDuration, err := meter.Float64Histogram(
		"vela.tx.processing_time",
		metric.WithDescription("Transaction processing time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	txGasUsed, err := meter.Int64Histogram(
		"vela.tx.gas_used",
		metric.WithDescription("Gas used by transaction"),
		metric.WithUnit("{gas}"),
	)
	if err != nil {
		return nil, err
	}

	blockHeight, err := meter.Int64Gauge(
		"vela.block.height",
		metric.WithDescription("Current block height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	ordersMatched, err := meter.Int64Counter(
		"vela.market.orders_matched",
		metric.WithDescription("Orders matched to a winning bid"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	leasesClosed, err := meter.Int64Counter(
		"vela.market.leases_closed",
		metric.WithDescription("Leases closed, by reason"),
		metric.WithUnit("{lease}"),
	)
	if err != nil {
		return nil, err
	}

	settledTotal, err := meter.Int64Counter(
		"vela.market.settled_amount",
		metric.WithDescription("Cumulative amount paid out by lease settlement"),
		metric.WithUnit("{coin}"),
	)
	if err != nil {
		return nil, err
	}

	return &NodeMetrics{
		meter:         meter,
		txCounter:     txCounter,
		txDuration:    txDuration,
		txGasUsed:     txGasUsed,
		blockHeight:   blockHeight,
		ordersMatched: ordersMatched,
		leasesClosed:  leasesClosed,
		settledTotal:  settledTotal,
	}, nil
}

// RecordTransaction records transaction metrics
func (m *NodeMetrics) RecordTransaction(
	ctx context.Context,
	txType string,
	duration time.Duration,
	gasUsed int64,
	success bool,
) {
	status := "success"
	if !success {
		status = "failed"
	}

	attrs := []attribute.KeyValue{
		attribute.String("tx.type", txType),
		attribute.String("tx.status", status),
	}

	m.txCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.txDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.txGasUsed.Record(ctx, gasUsed, metric.WithAttributes(attrs...))
}

// RecordBlockHeight records the current block height
func (m *NodeMetrics) RecordBlockHeight(ctx context.Context, height int64) {
	m.blockHeight.Record(ctx, height)
}

// RecordOrderMatched counts a completed order match
func (m *NodeMetrics) RecordOrderMatched(ctx context.Context) {
	m.ordersMatched.Add(ctx, 1)
}

// RecordLeaseClosed counts a lease closure with its reason
// ("tenant", "provider", "insufficient_funds").
func (m *NodeMetrics) RecordLeaseClosed(ctx context.Context, reason string) {
	m.leasesClosed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lease.close_reason", reason),
	))
}

// RecordSettlement accumulates the amount paid out by a settlement sweep
func (m *NodeMetrics) RecordSettlement(ctx context.Context, amount int64, denom string) {
	m.settledTotal.Add(ctx, amount, metric.WithAttributes(
		attribute.String("denom", denom),
	))
}

// InitTelemetry builds the OTLP/Prometheus provider and the node metrics in
// one call. The node command starts it before the server commands run.
func InitTelemetry(cfg telemetry.Config) (*telemetry.Provider, *NodeMetrics, error) {
	provider, err := telemetry.NewProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := NewNodeMetrics(provider.Meter())
	if err != nil {
		return nil, nil, err
	}

	return provider, metrics, nil
}
