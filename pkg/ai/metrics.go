package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	oracleRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_requests_total",
		Help: "Total number of oracle requests by outcome.",
	}, []string{"outcome"})

	oracleRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_request_duration_seconds",
		Help:    "Oracle request latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)

func observeRequest(elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	oracleRequestsTotal.WithLabelValues(outcome).Inc()
	oracleRequestDuration.Observe(elapsed.Seconds())
}
