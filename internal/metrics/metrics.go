// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretsanta_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "secretsanta_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// Admin RPC metrics
	GRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretsanta_grpc_requests_total",
			Help: "Total admin RPC calls",
		},
		[]string{"method", "code"},
	)

	// Business metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretsanta_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"}, // "success" or "failure"
	)

	Shuffles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretsanta_shuffles_total",
			Help: "Completed shuffles",
		},
		[]string{"mode"}, // "random" or "fallback"
	)

	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretsanta_messages_sent_total",
			Help: "Messages sent",
		},
		[]string{"peer"}, // "assignment" or "santa"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secretsanta_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)
