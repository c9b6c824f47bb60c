package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// corruptionTotal counts stored values that failed to parse.
	corruptionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protocol_data_corruption_total",
			Help: "Stored values that could not be parsed, by kind.",
		},
		[]string{"kind"},
	)

	// allocationAttempts counts allocation attempts by outcome
	// (ok, conflict, unavailable, error).
	allocationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protocol_allocation_attempts_total",
			Help: "Protocol number allocation attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(corruptionTotal, allocationAttempts)
}
