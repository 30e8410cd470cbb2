package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of orders submitted at checkout",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Total number of order status updates",
	}, []string{"to_status"})

	InvalidTransitionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_invalid_transitions_total",
		Help: "Total number of rejected order status transitions",
	})

	PriceConsistencyWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "price_consistency_warnings_total",
		Help: "Total number of sale items whose offer price was not below the reference price",
	})

	ExportsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_exports_generated_total",
		Help: "Total number of ledger exports generated",
	})

	AnalyticsBuildLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analytics_build_latency_seconds",
		Help:    "Latency of dashboard analytics aggregation",
		Buckets: prometheus.DefBuckets,
	})

	AnalyticsCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_cache_requests_total",
		Help: "Dashboard snapshot cache lookups",
	}, []string{"result"})

	CatalogCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Catalog cache lookups",
	}, []string{"result"})

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
