// Package fetch orchestrates multi-page pageviews collection in
// bounded-concurrency chunks.
//
// The page list is deduplicated and partitioned into consecutive chunks
// of at most ChunkSize pages. Chunks run strictly sequentially; within a
// chunk every page request is launched concurrently and results are
// collected in call order, so at most ChunkSize requests are in flight
// at any instant.
//
// Example usage:
//
//	c, _ := client.New(client.DefaultConfig())
//	f := fetch.New(c, fetch.DefaultConfig())
//	stats, err := f.Pages(ctx, fetch.PagesQuery{
//		Pages: []string{"https://en.wikipedia.org/wiki/Go_(programming_language)"},
//		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
//		End:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
//	})
//
// Failure semantics are all-or-nothing: the first failed page request
// cancels its chunk siblings, later chunks never start, and the caller
// receives the failure instead of a partial result set.
package fetch
