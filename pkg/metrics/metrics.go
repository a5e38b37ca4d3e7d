// Package metrics provides the Prometheus registry reference for the
// pageviews client. All metrics are defined in their respective packages
// (client, fetch, limiter) to maintain modularity and avoid circular
// dependencies.
//
// This package documents the available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the pageviews
// client. All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - pageviews_requests_total{status} (Counter): Requests by HTTP status
//     ("network_error" for transport failures)
//   - pageviews_request_duration_seconds (Histogram): Request duration
//   - pageviews_errors_total{kind} (Counter): Errors by kind
//     (malformed_url, network, remote, decode, parse)
//
// Orchestration Metrics (pkg/fetch):
//   - pageviews_chunks_total (Counter): Successfully completed chunks
//   - pageviews_chunk_failures_total (Counter): Chunks aborted by a page failure
//   - pageviews_pages_fetched_total (Counter): Pages fetched successfully
//
// Limiter Metrics (pkg/limiter):
//   - pageviews_inflight_requests (Gauge): Currently admitted requests
//   - pageviews_limiter_waits_total (Counter): Acquisitions that waited for a slot
//
// Example Prometheus Queries:
//
//   # Request error rate
//   rate(pageviews_errors_total[5m])
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(pageviews_request_duration_seconds_bucket[5m]))
//
//   # Connection saturation
//   pageviews_inflight_requests
