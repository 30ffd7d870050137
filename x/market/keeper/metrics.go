package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarketMetrics tracks order, bid and lease activity.
type MarketMetrics struct {
	OrdersOpened   prometheus.Counter
	OrdersClosed   *prometheus.CounterVec
	BidsPlaced     prometheus.Counter
	LeasesCreated  prometheus.Counter
	LeasesClosed   prometheus.Counter
	SettlementPaid prometheus.Counter
}

var (
	marketMetricsOnce     sync.Once
	marketMetricsInstance *MarketMetrics
)

// NewMarketMetrics returns the process-wide market metrics set. Registration
// with the default registry happens once regardless of how many keepers are
// constructed.
func NewMarketMetrics() *MarketMetrics {
	marketMetricsOnce.Do(func() {
		marketMetricsInstance = &MarketMetrics{
			OrdersOpened: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "market",
				Name:      "orders_opened_total",
				Help:      "Number of orders opened.",
			}),
			OrdersClosed: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "market",
				Name:      "orders_closed_total",
				Help:      "Number of orders closed, by reason.",
			}, []string{"reason"}),
			BidsPlaced: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "market",
				Name:      "bids_placed_total",
				Help:      "Number of bids placed.",
			}),
			LeasesCreated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "market",
				Name:      "leases_created_total",
				Help:      "Number of leases created.",
			}),
			LeasesClosed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "market",
				Name:      "leases_closed_total",
				Help:      "Number of leases closed.",
			}),
			SettlementPaid: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "market",
				Name:      "settlement_payments_total",
				Help:      "Number of settlement payouts made to providers.",
			}),
		}
	})
	return marketMetricsInstance
}
