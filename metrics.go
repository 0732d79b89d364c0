package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics that are exposed by the application.

// httpRequestsTotal is a Prometheus counter vector that tracks the total number of HTTP requests.
// It is partitioned by the request's URL path, HTTP method, and the resulting status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "willitclear_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// cacheHits and cacheMisses track plan cache effectiveness, partitioned by
// the cached payload kind.
var cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "willitclear_cache_hits_total",
	Help: "Total number of cache hits by payload kind.",
}, []string{"kind"})

var cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "willitclear_cache_misses_total",
	Help: "Total number of cache misses by payload kind.",
}, []string{"kind"})

// providerFailures counts failed upstream provider calls that triggered a
// fallback, partitioned by provider name.
var providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "willitclear_provider_failures_total",
	Help: "Total number of failed provider calls by provider.",
}, []string{"provider"})

// externalRequestDuration observes the latency of outbound provider
// requests, partitioned by target host. Failed round trips are observed
// too, so timeouts show up in the tail.
var externalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "willitclear_external_request_duration_seconds",
	Help:    "Duration of outbound provider HTTP requests by host.",
	Buckets: prometheus.DefBuckets,
}, []string{"host"})

// rateLimitRejections counts requests refused with 429, partitioned by
// endpoint class.
var rateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "willitclear_ratelimit_rejections_total",
	Help: "Total number of rate-limited requests by endpoint class.",
}, []string{"class"})
