// Command pageviews-proxy exposes the pageviews client over HTTP: a
// query endpoint running the chunked multi-page fetch, a health probe and
// Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sgaripov/wiki-pageviews-client/pkg/client"
	"github.com/sgaripov/wiki-pageviews-client/pkg/export"
	"github.com/sgaripov/wiki-pageviews-client/pkg/fetch"
	"github.com/sgaripov/wiki-pageviews-client/pkg/logging"
	"github.com/sgaripov/wiki-pageviews-client/pkg/pageviews"
)

const dateLayout = "2006-01-02"

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
		Output: os.Stderr,
	}).With().Str("component", "pageviews-proxy").Logger()

	cfg := client.Config{
		Timeout:        durationEnv("PAGEVIEWS_TIMEOUT", 60*time.Second),
		MaxConnections: intEnv("PAGEVIEWS_MAX_CONNECTIONS", 10),
	}
	pvClient, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create pageviews client")
	}

	fetcher := fetch.New(pvClient, fetch.Config{
		ChunkSize: intEnv("PAGEVIEWS_CHUNK_SIZE", 10),
	})

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/v1/pageviews", pageviewsHandler(fetcher))

	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting pageviews proxy")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}
}

// pageviewsHandler runs the chunked multi-page fetch and returns the
// exported rows as JSON.
func pageviewsHandler(fetcher *fetch.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, err := parseQuery(c.Request.URL.Query())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		stats, err := fetcher.Pages(c.Request.Context(), query)
		if err != nil {
			if errors.Is(err, pageviews.ErrUnprocessableURL) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			resp := gin.H{"error": err.Error()}
			if status := client.StatusOf(err); status != 0 {
				resp["upstream_status"] = status
			}
			c.JSON(http.StatusBadGateway, resp)
			return
		}

		frame, err := export.Frame(stats...)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"count": frame.Nrow(),
			"rows":  frame.Maps(),
		})
	}
}

// parseQuery validates the query endpoint's parameters into a PagesQuery.
func parseQuery(values url.Values) (fetch.PagesQuery, error) {
	var q fetch.PagesQuery

	pagesParam := values.Get("pages")
	if pagesParam == "" {
		return q, errors.New("pages parameter is required")
	}
	for _, p := range strings.Split(pagesParam, ",") {
		if p = strings.TrimSpace(p); p != "" {
			q.Pages = append(q.Pages, p)
		}
	}
	if len(q.Pages) == 0 {
		return q, errors.New("pages parameter is required")
	}

	start, err := time.ParseInLocation(dateLayout, values.Get("start"), time.UTC)
	if err != nil {
		return q, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, values.Get("end"), time.UTC)
	if err != nil {
		return q, fmt.Errorf("invalid end date: %w", err)
	}
	q.Start, q.End = start, end

	if s := values.Get("granularity"); s != "" {
		if q.Granularity, err = pageviews.ParseGranularity(s); err != nil {
			return q, err
		}
	}
	if s := values.Get("access"); s != "" {
		if q.Access, err = pageviews.ParseAccessType(s); err != nil {
			return q, err
		}
	}
	if s := values.Get("agent"); s != "" {
		if q.Agent, err = pageviews.ParseUserAgent(s); err != nil {
			return q, err
		}
	}

	return q, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// intEnv retrieves an integer environment variable or returns a default.
func intEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// durationEnv retrieves a duration environment variable or returns a default.
func durationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
