// Package client provides the HTTP client for the Wikimedia REST
// pageviews per-article API with connection capping, structured logging
// and error handling.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sgaripov/wiki-pageviews-client/pkg/limiter"
	"github.com/sgaripov/wiki-pageviews-client/pkg/pageviews"
)

// DefaultBaseURL is the fixed endpoint of the per-article pageviews API.
const DefaultBaseURL = "https://wikimedia.org/api/rest_v1/metrics/pageviews/per-article"

// Prometheus metrics for pageviews client operations.
var (
	pageviewsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pageviews_requests_total",
		Help: "Total pageviews API requests by HTTP status",
	}, []string{"status"})

	pageviewsRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pageviews_request_duration_seconds",
		Help:    "Pageviews API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	pageviewsErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pageviews_errors_total",
		Help: "Total pageviews client errors by kind",
	}, []string{"kind"})
)

// Client is the pageviews API client. A Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *limiter.Limiter
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the per-article endpoint. Defaults to DefaultBaseURL;
	// override only for tests.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout applied uniformly to every HTTP call.
	Timeout time.Duration

	// MaxConnections caps concurrent in-flight requests. This is the
	// physical connection-pool limit; keep it in line with the fetcher's
	// chunk size.
	MaxConnections int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		UserAgent:      "wiki-pageviews-client/0.1.0",
		Timeout:        60 * time.Second,
		MaxConnections: 10,
	}
}

// New creates a pageviews client. Zero fields fall back to DefaultConfig
// values.
func New(cfg Config) (*Client, error) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxConnections < 0 {
		return nil, fmt.Errorf("max_connections must be >= 0 (got %d)", cfg.MaxConnections)
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = def.MaxConnections
	}

	logger := log.With().Str("component", "pageviews-client").Logger()

	return &Client{
		httpClient: &http.Client{
			// Redirect following stays enabled (net/http default).
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     cfg.MaxConnections,
				MaxIdleConnsPerHost: cfg.MaxConnections,
			},
		},
		limiter: limiter.New(cfg.MaxConnections),
		config:  cfg,
		logger:  logger,
	}, nil
}

// Get performs a GET request against the pageviews endpoint. The path must
// already be rendered (see pageviews.Request.Path). Admission through the
// connection limiter is the only backpressure applied.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("connection slot: %w", err)
	}
	defer c.limiter.Release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	pageviewsRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		pageviewsErrorsTotal.WithLabelValues("network").Inc()
		pageviewsRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, err
	}

	pageviewsRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()
	return resp, nil
}

// apiResponse is the JSON shape of a per-article response.
type apiResponse struct {
	Items []pageviews.Item `json:"items"`
}

// PageStatistics queries statistics for one article. A malformed article
// URL fails before any network call; a non-2xx response fails immediately
// with an *APIError carrying the status code, without retrying.
func (c *Client) PageStatistics(ctx context.Context, req pageviews.Request) (*pageviews.Statistics, error) {
	path, err := req.Path()
	if err != nil {
		pageviewsErrorsTotal.WithLabelValues("malformed_url").Inc()
		return nil, err
	}

	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		pageviewsErrorsTotal.WithLabelValues("remote").Inc()
		c.logger.Warn().
			Str("page", req.URL).
			Int("status_code", resp.StatusCode).
			Msg("Pageviews request failed")
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		pageviewsErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("decode response for %s: %w", req.URL, err)
	}

	records := make([]pageviews.Record, 0, len(payload.Items))
	for _, item := range payload.Items {
		record, err := pageviews.ParseItem(item)
		if err != nil {
			pageviewsErrorsTotal.WithLabelValues("parse").Inc()
			return nil, fmt.Errorf("parse response for %s: %w", req.URL, err)
		}
		records = append(records, record)
	}

	stats, err := pageviews.NewStatistics(records)
	if err != nil {
		return nil, fmt.Errorf("collect statistics for %s: %w", req.URL, err)
	}

	c.logger.Debug().
		Str("page", req.URL).
		Int("records", stats.Count()).
		Msg("Pageviews request succeeded")

	return stats, nil
}

// Limiter exposes the connection limiter (for tests and the proxy).
func (c *Client) Limiter() *limiter.Limiter {
	return c.limiter
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
