package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "payment"

// Result labels
const (
	ResultSuccess      = "success"
	ResultNotFound     = "not_found"
	ResultInvalidState = "invalid_state"
	ResultForbidden    = "forbidden"
	ResultError        = "error"
)

var (
	Confirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_total",
			Help:      "Payment confirmation attempts by result",
		},
		[]string{"result"},
	)

	Cancellations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Payment cancellation attempts by result",
		},
		[]string{"result"},
	)

	ConfirmDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confirm_duration_seconds",
			Help:      "Time taken by the confirmation transaction",
			Buckets:   prometheus.DefBuckets,
		},
	)

	NotificationsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "Notification tasks handed to the dispatcher by result",
		},
		[]string{"result"},
	)

	NotificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_delivered_total",
			Help:      "Notification tasks processed by workers by result",
		},
		[]string{"result"},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Payment events published by type and result",
		},
		[]string{"type", "result"},
	)
)

// Register adds the payment collectors to reg
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		Confirmations,
		Cancellations,
		ConfirmDuration,
		NotificationsDispatched,
		NotificationsDelivered,
		EventsPublished,
	)
}
