package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Total number of orders completed",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order attempts",
	}, []string{"reason"})

	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of cart checkouts",
	})

	CartAddsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Total number of cart line additions",
	})

	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "searches_total",
		Help: "Total number of keyword product searches",
	})

	SessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_expired_total",
		Help: "Total number of sessions expired by inactivity",
	})

	StockAdjustmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of manual stock adjustments",
	})

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
