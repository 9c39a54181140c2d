package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paygo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paygo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paygo_bookings_created_total",
			Help: "Total number of bookings created",
		},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paygo_booking_cancellations_total",
			Help: "Total number of booking cancellations with refund",
		},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paygo_checkins_total",
			Help: "Total number of QR check-in attempts",
		},
		[]string{"result"},
	)

	WalletRechargesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paygo_wallet_recharges_total",
			Help: "Total number of wallet recharges confirmed",
		},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paygo_notifications_queued_total",
			Help: "Total number of notifications queued",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingCreated() {
	BookingsCreatedTotal.Inc()
}

func RecordCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordCheckIn(result string) {
	CheckInsTotal.WithLabelValues(result).Inc()
}

func RecordWalletRecharge() {
	WalletRechargesTotal.Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsQueuedTotal.WithLabelValues(notifType, status).Inc()
}
