package main

import (
	"net/url"
	"testing"
	"time"

	"github.com/sgaripov/wiki-pageviews-client/pkg/pageviews"
)

func TestParseQuery(t *testing.T) {
	values := url.Values{
		"pages": {"https://en.wikipedia.org/wiki/Gopher, https://en.wikipedia.org/wiki/Marmot"},
		"start": {"2025-01-01"},
		"end":   {"2025-01-10"},
	}

	q, err := parseQuery(values)
	if err != nil {
		t.Fatalf("parseQuery() unexpected error: %v", err)
	}

	if len(q.Pages) != 2 {
		t.Errorf("got %d pages, want 2", len(q.Pages))
	}
	if q.Pages[1] != "https://en.wikipedia.org/wiki/Marmot" {
		t.Errorf("pages[1] = %q, whitespace not trimmed", q.Pages[1])
	}
	if !q.Start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", q.Start)
	}
	if !q.End.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", q.End)
	}
	// Enum defaults are applied later by the fetcher; here they stay zero.
	if q.Granularity != "" || q.Access != "" || q.Agent != "" {
		t.Errorf("unexpected enum values: %q %q %q", q.Granularity, q.Access, q.Agent)
	}
}

func TestParseQuery_Selectors(t *testing.T) {
	values := url.Values{
		"pages":       {"https://en.wikipedia.org/wiki/Gopher"},
		"start":       {"2025-01-01"},
		"end":         {"2025-01-10"},
		"granularity": {"monthly"},
		"access":      {"desktop"},
		"agent":       {"spider"},
	}

	q, err := parseQuery(values)
	if err != nil {
		t.Fatalf("parseQuery() unexpected error: %v", err)
	}

	if q.Granularity != pageviews.GranularityMonthly {
		t.Errorf("granularity = %q, want monthly", q.Granularity)
	}
	if q.Access != pageviews.AccessDesktop {
		t.Errorf("access = %q, want desktop", q.Access)
	}
	if q.Agent != pageviews.AgentSpider {
		t.Errorf("agent = %q, want spider", q.Agent)
	}
}

func TestParseQuery_Invalid(t *testing.T) {
	base := func() url.Values {
		return url.Values{
			"pages": {"https://en.wikipedia.org/wiki/Gopher"},
			"start": {"2025-01-01"},
			"end":   {"2025-01-10"},
		}
	}

	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{name: "missing pages", mutate: func(v url.Values) { v.Del("pages") }},
		{name: "blank pages", mutate: func(v url.Values) { v.Set("pages", " , ") }},
		{name: "missing start", mutate: func(v url.Values) { v.Del("start") }},
		{name: "bad end", mutate: func(v url.Values) { v.Set("end", "10.01.2025") }},
		{name: "bad granularity", mutate: func(v url.Values) { v.Set("granularity", "hourly") }},
		{name: "bad access", mutate: func(v url.Values) { v.Set("access", "teleport") }},
		{name: "bad agent", mutate: func(v url.Values) { v.Set("agent", "cyborg") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := base()
			tt.mutate(values)

			if _, err := parseQuery(values); err == nil {
				t.Error("parseQuery() should fail")
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PV_TEST_STR", "hello")
	t.Setenv("PV_TEST_INT", "42")
	t.Setenv("PV_TEST_DUR", "15s")
	t.Setenv("PV_TEST_BAD", "nope")

	if got := getEnv("PV_TEST_STR", "default"); got != "hello" {
		t.Errorf("getEnv = %q, want hello", got)
	}
	if got := getEnv("PV_TEST_MISSING", "default"); got != "default" {
		t.Errorf("getEnv = %q, want default", got)
	}
	if got := intEnv("PV_TEST_INT", 1); got != 42 {
		t.Errorf("intEnv = %d, want 42", got)
	}
	if got := intEnv("PV_TEST_BAD", 7); got != 7 {
		t.Errorf("intEnv = %d, want fallback 7", got)
	}
	if got := durationEnv("PV_TEST_DUR", time.Second); got != 15*time.Second {
		t.Errorf("durationEnv = %v, want 15s", got)
	}
	if got := durationEnv("PV_TEST_BAD", time.Second); got != time.Second {
		t.Errorf("durationEnv = %v, want fallback 1s", got)
	}
}
