package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics tracks custody activity across account scopes.
type EscrowMetrics struct {
	AccountsCreated *prometheus.CounterVec
	DepositVolume   *prometheus.CounterVec
	WithdrawVolume  *prometheus.CounterVec
	AccountsClosed  *prometheus.CounterVec
}

var (
	escrowMetricsOnce     sync.Once
	escrowMetricsInstance *EscrowMetrics
)

// NewEscrowMetrics returns the process-wide escrow metrics set. Registration
// with the default registry happens once regardless of how many keepers are
// constructed.
func NewEscrowMetrics() *EscrowMetrics {
	escrowMetricsOnce.Do(func() {
		escrowMetricsInstance = &EscrowMetrics{
			AccountsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "escrow",
				Name:      "accounts_created_total",
				Help:      "Number of escrow accounts opened, by scope.",
			}, []string{"scope"}),
			DepositVolume: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "escrow",
				Name:      "deposit_volume_total",
				Help:      "Total base units deposited into escrow, by scope.",
			}, []string{"scope"}),
			WithdrawVolume: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "escrow",
				Name:      "withdraw_volume_total",
				Help:      "Total base units paid out of escrow, by scope.",
			}, []string{"scope"}),
			AccountsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "escrow",
				Name:      "accounts_closed_total",
				Help:      "Number of escrow accounts closed, by scope and final state.",
			}, []string{"scope", "state"}),
		}
	})
	return escrowMetricsInstance
}
