package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessclub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitnessclub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessclub_booking_decisions_total",
			Help: "Booking decisions by resource kind and outcome",
		},
		[]string{"kind", "decision"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessclub_booking_cancellations_total",
			Help: "Booking cancellations by resource kind",
		},
		[]string{"kind"},
	)

	ClassRegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessclub_class_registrations_total",
			Help: "Class registration attempts by outcome",
		},
		[]string{"decision"},
	)

	GoalCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitnessclub_goal_completions_total",
			Help: "Fitness goals flipped to completed by the derivation engine",
		},
	)

	HealthMetricsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitnessclub_health_metrics_recorded_total",
			Help: "Health metric entries recorded",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitnessclub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitnessclub_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordBookingDecision counts an accept or a reject for one of the
// booking services. decision is "accepted" or the rejection reason.
func RecordBookingDecision(kind, decision string) {
	BookingDecisionsTotal.WithLabelValues(kind, decision).Inc()
}

func RecordBookingCancellation(kind string) {
	BookingCancellationsTotal.WithLabelValues(kind).Inc()
}

func RecordClassRegistration(decision string) {
	ClassRegistrationsTotal.WithLabelValues(decision).Inc()
}

func RecordGoalCompletion() {
	GoalCompletionsTotal.Inc()
}

func RecordHealthMetric() {
	HealthMetricsRecordedTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
