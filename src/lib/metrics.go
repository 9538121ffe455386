package lib

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	lockOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "lock_requests_total",
			Help:      "Count of slot lock requests by outcome.",
		},
		[]string{"outcome"},
	)

	reservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "reservations_created_total",
			Help:      "Count of reservation rows written by status.",
		},
		[]string{"status"},
	)

	slotQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "slot_queries_total",
			Help:      "Count of availability queries by kind.",
		},
		[]string{"kind"},
	)

	purgedReservations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "reservations_purged_total",
			Help:      "Count of reservations removed by retention.",
		},
	)
)

// RegisterMetrics registers metrics (idempotent).
func RegisterMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(lockOutcomes, reservationsCreated, slotQueries, purgedReservations)
	})
}

func IncLockOutcome(outcome string) {
	lockOutcomes.WithLabelValues(outcome).Inc()
}

func IncReservationCreated(status string) {
	reservationsCreated.WithLabelValues(status).Inc()
}

func IncSlotQuery(kind string) {
	slotQueries.WithLabelValues(kind).Inc()
}

func AddPurged(n int64) {
	purgedReservations.Add(float64(n))
}
