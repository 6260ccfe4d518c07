// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the pressluft proxy.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pressluft_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pressluft_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// InflightRequests tracks the number of requests currently being served.
	InflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pressluft_inflight_requests",
			Help: "Requests in flight",
		},
	)

	// CompressedResponsesTotal counts responses compressed, by encoding token.
	CompressedResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pressluft_compressed_responses_total",
			Help: "Compressed responses",
		},
		[]string{"encoding"},
	)

	// SkippedResponsesTotal counts responses passed through uncompressed,
	// by skip reason (already_encoded, excluded_type, not_accepted, no_body).
	SkippedResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pressluft_skipped_responses_total",
			Help: "Responses passed through uncompressed",
		},
		[]string{"reason"},
	)

	// CompressedBytesTotal counts body bytes by direction: "in" is plain
	// bytes consumed, "out" is compressed bytes produced.
	CompressedBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pressluft_compressed_bytes_total",
			Help: "Body bytes through the compressor",
		},
		[]string{"encoding", "direction"},
	)

	// CompressionFailuresTotal counts compressions that failed mid-stream.
	CompressionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pressluft_compression_failures_total",
			Help: "Failed compressions",
		},
		[]string{"encoding"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		InflightRequests,
		CompressedResponsesTotal,
		SkippedResponsesTotal,
		CompressedBytesTotal,
		CompressionFailuresTotal,
	)
}
