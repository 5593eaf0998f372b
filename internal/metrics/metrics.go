package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	conflictsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "booking_conflicts_total",
			Help:      "Booking conflicts detected, by check path.",
		},
		[]string{"path"},
	)

	transitionsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "room_transitions_total",
			Help:      "Room status transitions applied, by trigger.",
		},
		[]string{"trigger"},
	)

	forcedSaves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "forced_saves_total",
			Help:      "Room saves committed despite a flagged conflict.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, conflictsDetected, transitionsApplied, forcedSaves)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncConflict counts a detected conflict on the given check path
// ("cache" or "bookings").
func IncConflict(path string) {
	conflictsDetected.WithLabelValues(path).Inc()
}

// IncTransition counts an applied room transition by trigger name.
func IncTransition(trigger string) {
	transitionsApplied.WithLabelValues(trigger).Inc()
}

// IncForcedSave counts a save committed with the force flag set.
func IncForcedSave() {
	forcedSaves.Inc()
}
