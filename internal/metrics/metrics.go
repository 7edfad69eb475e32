// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package metrics provides Prometheus instrumentation for Spendsight:
// HTTP endpoint latency and throughput, recommendation outcomes, and matrix
// load timings.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spendsight_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spendsight_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spendsight_recommendations_total",
			Help: "Total recommendation calls by outcome",
		},
		[]string{"outcome"}, // "ok", "member_not_found", "index_out_of_range", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spendsight_recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	ThresholdFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spendsight_threshold_fallbacks_total",
			Help: "Recommendations where the min-threshold filter emptied the list and was ignored",
		},
	)

	// Matrix metrics
	MatrixLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spendsight_matrix_load_duration_seconds",
			Help:    "Time spent loading the propensity matrix from disk",
			Buckets: prometheus.DefBuckets,
		},
	)

	MatrixRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spendsight_matrix_rows",
			Help: "Row count of the currently served propensity matrix",
		},
	)
)

// ObserveHTTPRequest records one completed HTTP request.
func ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveRecommendation records one recommendation call outcome.
func ObserveRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// ObserveMatrixLoad records a matrix load and publishes its row count.
func ObserveMatrixLoad(rows int, duration time.Duration) {
	MatrixLoadDuration.Observe(duration.Seconds())
	MatrixRows.Set(float64(rows))
}
