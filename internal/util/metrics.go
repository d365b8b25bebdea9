package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings persisted",
	})

	BookingsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_failed_total",
		Help: "Total number of rejected or failed booking attempts",
	}, []string{"reason"})

	BookingsReplayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_replayed_total",
		Help: "Total number of booking requests answered from an idempotency key",
	})

	BookingTransactionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "booking_transaction_latency_seconds",
		Help:    "Latency of the booking critical section",
		Buckets: prometheus.DefBuckets,
	})

	StoreWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "store_write_latency_seconds",
		Help:    "Latency of inventory document writes",
		Buckets: prometheus.DefBuckets,
	})

	StoreWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_write_failures_total",
		Help: "Total number of failed inventory document writes",
	})

	AdminMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_mutations_total",
		Help: "Total number of admin catalog mutations",
	}, []string{"operation"})

	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of booking notifications handed off",
	}, []string{"channel"})

	NotificationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of booking notifications that failed",
	}, []string{"channel"})

	PaymentChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_checks_total",
		Help: "Total number of payment intent lookups by resulting status",
	}, []string{"status"})

	ConsumerDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_dropped_total",
		Help: "Total number of messages committed after the handler kept failing",
	}, []string{"topic"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
