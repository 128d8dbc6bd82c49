// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK       = "ok"
	resultFailed   = "failed"
	resultDenied   = "denied"
	resultRejected = "rejected"
	resultInvalid  = "invalid_signature"
)

// Metrics counts sign callback invocations by result.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewMetrics creates the signer metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "miden_para",
			Subsystem: "signer",
			Name:      "requests_total",
			Help:      "Sign callback invocations by result.",
		}, []string{"result"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "miden_para",
			Subsystem: "signer",
			Name:      "duration_seconds",
			Help:      "Time spent in the sign callback, remote signing included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering signer metrics")
		}
	}
	return m, nil
}

// Requests returns the counter of the given result label.
func (m *Metrics) Requests(result string) prometheus.Counter {
	return m.requests.WithLabelValues(result)
}

func (m *Metrics) observe(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(result).Inc()
	m.latency.Observe(d.Seconds())
}
