package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DeploymentMetrics tracks deployment lifecycle activity.
type DeploymentMetrics struct {
	DeploymentsCreated prometheus.Counter
	DeploymentsClosed  prometheus.Counter
	GroupTransitions   *prometheus.CounterVec
}

var (
	deploymentMetricsOnce     sync.Once
	deploymentMetricsInstance *DeploymentMetrics
)

// NewDeploymentMetrics returns the process-wide deployment metrics set.
// Registration with the default registry happens once regardless of how many
// keepers are constructed.
func NewDeploymentMetrics() *DeploymentMetrics {
	deploymentMetricsOnce.Do(func() {
		deploymentMetricsInstance = &DeploymentMetrics{
			DeploymentsCreated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "deployment",
				Name:      "deployments_created_total",
				Help:      "Number of deployments created.",
			}),
			DeploymentsClosed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "deployment",
				Name:      "deployments_closed_total",
				Help:      "Number of deployments closed.",
			}),
			GroupTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vela",
				Subsystem: "deployment",
				Name:      "group_transitions_total",
				Help:      "Number of group state transitions, by resulting state.",
			}, []string{"state"}),
		}
	})
	return deploymentMetricsInstance
}
