package quote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeTimeout = "timeout"
	outcomeStatus  = "status"
	outcomeError   = "error"
)

var (
	relayAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_relay_attempts_total",
			Help: "Relay attempts by relay and outcome",
		},
		[]string{"relay", "outcome"},
	)
	cycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_quote_cycles_total",
			Help: "Quote fetch cycles by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)
	cycleLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_quote_cycle_seconds",
			Help:    "Time to run one quote fetch cycle",
			Buckets: prometheus.DefBuckets,
		})
	snapshotCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_quote_snapshots",
			Help: "Holdings with a snapshot after the last successful cycle",
		})
)
