// Package monitoring exposes Prometheus counters for the workflow core. The
// /metrics endpoint in cmd/api serves them.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_transitions_total",
			Help: "Event lifecycle transitions by resulting status",
		},
		[]string{"status"},
	)

	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_registrations_total",
			Help: "Registration operations by action",
		},
		[]string{"action"},
	)

	checkins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_checkins_total",
			Help: "Attendance check-ins by method",
		},
		[]string{"method"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Persisted notifications by type",
		},
		[]string{"type"},
	)
)

// EventTransition records a lifecycle transition into status.
func EventTransition(status string) {
	eventTransitions.WithLabelValues(status).Inc()
}

// Registration records a register/unregister operation.
func Registration(action string) {
	registrations.WithLabelValues(action).Inc()
}

// CheckIn records a check-in by method.
func CheckIn(method string) {
	checkins.WithLabelValues(method).Inc()
}

// Notification records one persisted notification.
func Notification(kind string) {
	notifications.WithLabelValues(kind).Inc()
}
