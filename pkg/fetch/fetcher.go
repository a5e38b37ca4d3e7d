package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sgaripov/wiki-pageviews-client/pkg/pageviews"
)

// Prometheus metrics for multi-page orchestration.
var (
	pageviewsChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_chunks_total",
		Help: "Total successfully completed fetch chunks",
	})

	pageviewsChunkFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_chunk_failures_total",
		Help: "Total chunks aborted by a page failure",
	})

	pageviewsPagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_pages_fetched_total",
		Help: "Total pages fetched successfully",
	})
)

// PageFetcher is the single-page capability the fetcher fans out over.
// *client.Client implements it.
type PageFetcher interface {
	PageStatistics(ctx context.Context, req pageviews.Request) (*pageviews.Statistics, error)
}

// Config holds fetcher configuration.
type Config struct {
	// ChunkSize is the number of pages fetched concurrently per chunk.
	// Chunks are strictly sequential, so this is also the upper bound on
	// in-flight page requests.
	ChunkSize int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{ChunkSize: 10}
}

// Fetcher collects statistics for many pages in bounded-concurrency
// chunks with all-or-nothing failure semantics.
type Fetcher struct {
	client PageFetcher
	config Config
	logger zerolog.Logger
}

// New creates a fetcher on top of a single-page client.
func New(client PageFetcher, cfg Config) *Fetcher {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	return &Fetcher{
		client: client,
		config: cfg,
		logger: log.With().Str("component", "pageviews-fetch").Logger(),
	}
}

// PagesQuery describes one multi-page collection run. Zero enum fields
// take the usual defaults: daily granularity, any access, human agents.
type PagesQuery struct {
	// Pages are full article URLs. Duplicates are fetched at most once.
	Pages []string

	// Start and End bound the date range, in either order.
	Start time.Time
	End   time.Time

	Granularity pageviews.Granularity
	Access      pageviews.AccessType
	Agent       pageviews.UserAgent
}

func (q PagesQuery) withDefaults() PagesQuery {
	if q.Granularity == "" {
		q.Granularity = pageviews.GranularityDaily
	}
	if q.Access == "" {
		q.Access = pageviews.AccessAny
	}
	if q.Agent == "" {
		q.Agent = pageviews.AgentUser
	}
	return q
}

// Pages fetches statistics for every unique page in the query. Results
// come back in chunk-then-intra-chunk order, one Statistics per unique
// page. The first failure in a chunk cancels the chunk's remaining
// requests, aborts later chunks and is returned to the caller; no partial
// results survive a failure.
func (f *Fetcher) Pages(ctx context.Context, q PagesQuery) ([]*pageviews.Statistics, error) {
	q = q.withDefaults()
	pages := dedupePages(q.Pages)

	start := time.Now()
	f.logger.Info().
		Int("pages", len(pages)).
		Int("chunk_size", f.config.ChunkSize).
		Msg("Starting multi-page fetch")

	collected := make([]*pageviews.Statistics, 0, len(pages))
	for lo := 0; lo < len(pages); lo += f.config.ChunkSize {
		hi := lo + f.config.ChunkSize
		if hi > len(pages) {
			hi = len(pages)
		}

		stats, err := f.fetchChunk(ctx, pages[lo:hi], q)
		if err != nil {
			return nil, err
		}
		collected = append(collected, stats...)
	}

	f.logger.Info().
		Int("pages", len(collected)).
		Dur("duration", time.Since(start)).
		Msg("Multi-page fetch complete")

	return collected, nil
}

// fetchChunk fans out one request per page and collects results in call
// order. Results land in an index-addressed slice, so completion order
// never reorders the output.
func (f *Fetcher) fetchChunk(ctx context.Context, chunk []string, q PagesQuery) ([]*pageviews.Statistics, error) {
	chunkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*pageviews.Statistics, len(chunk))
	errs := make(chan error, len(chunk))

	var wg sync.WaitGroup
	for i, page := range chunk {
		wg.Add(1)
		go func(i int, page string) {
			defer wg.Done()

			stats, err := f.client.PageStatistics(chunkCtx, pageviews.Request{
				URL:         page,
				Start:       q.Start,
				End:         q.End,
				Granularity: q.Granularity,
				Access:      q.Access,
				Agent:       q.Agent,
			})
			if err != nil {
				select {
				case errs <- err:
				default:
				}
				// Cancel the chunk's siblings; their outcomes are discarded.
				cancel()
				return
			}
			results[i] = stats
		}(i, page)
	}
	wg.Wait()

	select {
	case err := <-errs:
		pageviewsChunkFailuresTotal.Inc()
		f.logger.Warn().
			Err(err).
			Int("chunk_size", len(chunk)).
			Msg("Chunk failed, remaining page requests cancelled")
		return nil, err
	default:
	}

	pageviewsChunksTotal.Inc()
	pageviewsPagesFetchedTotal.Add(float64(len(chunk)))
	return results, nil
}

// dedupePages removes duplicate page URLs, keeping first-occurrence order.
func dedupePages(pages []string) []string {
	seen := make(map[string]struct{}, len(pages))
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
