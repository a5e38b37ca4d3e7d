package pageviews

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item is one element of the API response's "items" array. Views is
// decoded through json.Number so both number and numeric-string payloads
// coerce to an integer the same way.
type Item struct {
	Project     string      `json:"project"`
	Article     string      `json:"article"`
	Granularity string      `json:"granularity"`
	Timestamp   string      `json:"timestamp"`
	Access      string      `json:"access"`
	Agent       string      `json:"agent"`
	Views       json.Number `json:"views"`
}

// Record is one (project, article, day, access, agent) view-count
// observation. Records are immutable and safe to share.
type Record struct {
	Project     string
	Article     string
	Granularity Granularity
	Timestamp   time.Time
	Access      AccessType
	Agent       UserAgent
	Views       int64
}

// Key identifies a record for deduplication. Views is deliberately
// excluded: two records that differ only in view count are the same
// observation, so duplicate scrapes collapse.
type Key struct {
	Project     string
	Article     string
	Granularity Granularity
	Timestamp   time.Time
	Access      AccessType
	Agent       UserAgent
}

// Key returns the views-excluded identity of the record.
func (r Record) Key() Key {
	return Key{
		Project:     r.Project,
		Article:     r.Article,
		Granularity: r.Granularity,
		Timestamp:   r.Timestamp,
		Access:      r.Access,
		Agent:       r.Agent,
	}
}

// ParseTimestamp parses the API's YYYYMMDD00 day-bucket string into a UTC
// calendar date.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) != 10 || !strings.HasSuffix(s, "00") {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	t, err := time.ParseInLocation(timestampLayout, s[:8], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t, nil
}

// ParseItem converts one decoded response item into a typed Record,
// validating every enum field against its closed set.
func ParseItem(item Item) (Record, error) {
	ts, err := ParseTimestamp(item.Timestamp)
	if err != nil {
		return Record{}, err
	}

	access, err := ParseAccessType(item.Access)
	if err != nil {
		return Record{}, err
	}

	granularity, err := ParseGranularity(item.Granularity)
	if err != nil {
		return Record{}, err
	}

	agent, err := ParseUserAgent(item.Agent)
	if err != nil {
		return Record{}, err
	}

	views, err := strconv.ParseInt(item.Views.String(), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("unparseable view count %q for %s/%s", item.Views.String(), item.Project, item.Article)
	}
	if views < 0 {
		return Record{}, fmt.Errorf("negative view count %d for %s/%s", views, item.Project, item.Article)
	}

	return Record{
		Project:     item.Project,
		Article:     item.Article,
		Granularity: granularity,
		Timestamp:   ts,
		Access:      access,
		Agent:       agent,
		Views:       views,
	}, nil
}
