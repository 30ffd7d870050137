package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CertMetrics holds all Prometheus metrics for the cert module
type CertMetrics struct {
	CertificatesIssued  prometheus.Counter
	CertificatesRevoked prometheus.Counter
	ValidityChecks      *prometheus.CounterVec
}

var (
	certMetricsOnce sync.Once
	certMetrics     *CertMetrics
)

// NewCertMetrics creates and registers cert metrics (singleton pattern)
func NewCertMetrics() *CertMetrics {
	certMetricsOnce.Do(func() {
		certMetrics = &CertMetrics{
			CertificatesIssued: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "vela",
					Subsystem: "cert",
					Name:      "certificates_issued_total",
					Help:      "Total number of certificates issued",
				},
			),
			CertificatesRevoked: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "vela",
					Subsystem: "cert",
					Name:      "certificates_revoked_total",
					Help:      "Total number of certificates revoked",
				},
			),
			ValidityChecks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "vela",
					Subsystem: "cert",
					Name:      "validity_checks_total",
					Help:      "Certificate validity checks by result",
				},
				[]string{"result"},
			),
		}
	})
	return certMetrics
}
