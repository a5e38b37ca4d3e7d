package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sgaripov/wiki-pageviews-client/pkg/pageviews"
)

// fakePageFetcher records call order and tracks peak concurrency.
type fakePageFetcher struct {
	mu           sync.Mutex
	calls        []string
	inflight     int32
	maxInflight  int32
	cancelled    int32
	delay        time.Duration
	perPageDelay map[string]time.Duration
	failOn       map[string]error
}

func (f *fakePageFetcher) PageStatistics(ctx context.Context, req pageviews.Request) (*pageviews.Statistics, error) {
	cur := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		max := atomic.LoadInt32(&f.maxInflight)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxInflight, max, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, req.URL)
	f.mu.Unlock()

	delay := f.delay
	if d, ok := f.perPageDelay[req.URL]; ok {
		delay = d
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			atomic.AddInt32(&f.cancelled, 1)
			return nil, ctx.Err()
		}
	}

	if err, ok := f.failOn[req.URL]; ok {
		return nil, err
	}

	project, article, err := pageviews.ParseArticleURL(req.URL)
	if err != nil {
		return nil, err
	}
	return pageviews.NewStatistics([]pageviews.Record{{
		Project:     project,
		Article:     article,
		Granularity: req.Granularity,
		Timestamp:   req.Start,
		Access:      req.Access,
		Agent:       req.Agent,
		Views:       1,
	}})
}

func (f *fakePageFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func pageURL(i int) string {
	return fmt.Sprintf("https://en.wikipedia.org/wiki/Article_%02d", i)
}

func testQuery(pages []string) PagesQuery {
	return PagesQuery{
		Pages: pages,
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestNew_DefaultChunkSize(t *testing.T) {
	f := New(&fakePageFetcher{}, Config{})
	if f.config.ChunkSize != 10 {
		t.Errorf("ChunkSize = %d, want 10", f.config.ChunkSize)
	}
}

func TestPages_ChunkingAndConcurrency(t *testing.T) {
	fake := &fakePageFetcher{delay: 20 * time.Millisecond}
	f := New(fake, Config{ChunkSize: 10})

	pages := make([]string, 25)
	for i := range pages {
		pages[i] = pageURL(i)
	}

	results, err := f.Pages(context.Background(), testQuery(pages))
	if err != nil {
		t.Fatalf("Pages() unexpected error: %v", err)
	}

	if len(results) != 25 {
		t.Errorf("got %d results, want 25", len(results))
	}
	if fake.callCount() != 25 {
		t.Errorf("fetcher made %d calls, want 25", fake.callCount())
	}
	if max := atomic.LoadInt32(&fake.maxInflight); max > 10 {
		t.Errorf("peak concurrency %d exceeds chunk size 10", max)
	}
	// The 10-page chunks actually fan out.
	if max := atomic.LoadInt32(&fake.maxInflight); max < 2 {
		t.Errorf("peak concurrency %d, expected parallel requests within a chunk", max)
	}
}

func TestPages_OrderPreserved(t *testing.T) {
	// Earlier pages take longer, so completion order is reversed.
	fake := &fakePageFetcher{perPageDelay: map[string]time.Duration{}}
	pages := make([]string, 8)
	for i := range pages {
		pages[i] = pageURL(i)
		fake.perPageDelay[pages[i]] = time.Duration(8-i) * 10 * time.Millisecond
	}

	f := New(fake, Config{ChunkSize: 8})

	results, err := f.Pages(context.Background(), testQuery(pages))
	if err != nil {
		t.Fatalf("Pages() unexpected error: %v", err)
	}

	for i, st := range results {
		if want := pages[i]; st.URL() != want {
			t.Errorf("results[%d] = %s, want %s (call order, not completion order)", i, st.URL(), want)
		}
	}
}

func TestPages_DuplicatesFetchedOnce(t *testing.T) {
	fake := &fakePageFetcher{}
	f := New(fake, Config{ChunkSize: 10})

	pages := []string{
		pageURL(1), pageURL(2), pageURL(1), pageURL(3), pageURL(2), pageURL(1),
	}

	results, err := f.Pages(context.Background(), testQuery(pages))
	if err != nil {
		t.Fatalf("Pages() unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("got %d results, want 3 unique pages", len(results))
	}
	if fake.callCount() != 3 {
		t.Errorf("fetcher made %d calls, want 3", fake.callCount())
	}
}

func TestPages_FailureCancelsSiblings(t *testing.T) {
	errBoom := errors.New("boom")

	pages := make([]string, 10)
	fake := &fakePageFetcher{
		delay:        300 * time.Millisecond,
		perPageDelay: map[string]time.Duration{},
		failOn:       map[string]error{},
	}
	for i := range pages {
		pages[i] = pageURL(i)
	}
	// The third call fails immediately; its siblings are still waiting.
	fake.perPageDelay[pages[2]] = 0
	fake.failOn[pages[2]] = errBoom

	f := New(fake, Config{ChunkSize: 10})

	start := time.Now()
	results, err := f.Pages(context.Background(), testQuery(pages))

	if !errors.Is(err, errBoom) {
		t.Fatalf("Pages() error = %v, want errBoom", err)
	}
	if results != nil {
		t.Errorf("Pages() returned %d partial results, want none", len(results))
	}
	if got := atomic.LoadInt32(&fake.cancelled); got != 9 {
		t.Errorf("%d siblings observed cancellation, want 9", got)
	}
	// Cancellation must short-circuit the 300ms sibling delays.
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("Pages() took %v, cancellation did not short-circuit", elapsed)
	}
}

func TestPages_FailureAbortsLaterChunks(t *testing.T) {
	errBoom := errors.New("boom")

	pages := make([]string, 12)
	fake := &fakePageFetcher{failOn: map[string]error{}}
	for i := range pages {
		pages[i] = pageURL(i)
	}
	fake.failOn[pages[1]] = errBoom

	f := New(fake, Config{ChunkSize: 4})

	_, err := f.Pages(context.Background(), testQuery(pages))
	if !errors.Is(err, errBoom) {
		t.Fatalf("Pages() error = %v, want errBoom", err)
	}
	if fake.callCount() > 4 {
		t.Errorf("fetcher made %d calls after a first-chunk failure, want at most 4", fake.callCount())
	}
}

func TestPages_EmptyPageList(t *testing.T) {
	fake := &fakePageFetcher{}
	f := New(fake, Config{ChunkSize: 10})

	results, err := f.Pages(context.Background(), testQuery(nil))
	if err != nil {
		t.Fatalf("Pages() unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestPagesQuery_Defaults(t *testing.T) {
	q := PagesQuery{}.withDefaults()

	if q.Granularity != pageviews.GranularityDaily {
		t.Errorf("Granularity = %q, want daily", q.Granularity)
	}
	if q.Access != pageviews.AccessAny {
		t.Errorf("Access = %q, want all-access", q.Access)
	}
	if q.Agent != pageviews.AgentUser {
		t.Errorf("Agent = %q, want user", q.Agent)
	}
}
