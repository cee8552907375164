package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "Checkout attempts by outcome",
	}, []string{"outcome"})

	InventoryReserveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_inventory_reserve_latency_seconds",
		Help:    "Latency of stock reservation statements",
		Buckets: prometheus.DefBuckets,
	})

	InventoryReservationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_inventory_reservations_failed_total",
		Help: "Failed stock reservations",
	}, []string{"reason"})

	GatewayRequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_gateway_request_latency_seconds",
		Help:    "Latency of payment gateway transaction creation",
		Buckets: prometheus.DefBuckets,
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_payment_notifications_total",
		Help: "Gateway notifications by reconciliation action and result",
	}, []string{"action", "result"})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_transitions_total",
		Help: "Applied order status transitions",
	}, []string{"from", "to"})

	Inconsistencies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_inconsistencies_total",
		Help: "States that need manual reconciliation",
	}, []string{"kind"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
