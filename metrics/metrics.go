package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var namespace = "alpaca"
var subsystem = "marketcal"

var (
	// BuildDuration stores how long precomputing a calendar took (in seconds)
	BuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "build_duration_seconds",
		Help:      "Seconds taken to precompute the session table of a calendar",
	}, []string{"exchange"})

	// SessionsPrecomputed stores the size of each precomputed session table
	SessionsPrecomputed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_precomputed",
		Help:      "Number of sessions in the precomputed table partitioned by exchange",
	}, []string{"exchange"})

	// ResolutionFaults stores the number of days that failed to resolve
	ResolutionFaults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "resolution_faults",
		Help:      "Number of days in the supported span that failed to resolve partitioned by exchange",
	}, []string{"exchange"})

	// QueryErrorsTotal stores the number of rejected queries
	// partitioned by exchange and error kind
	QueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "query_errors_total",
		Help:      "Number of calendar queries that returned an error partitioned by exchange and kind",
	}, []string{"exchange", "kind"})
)
