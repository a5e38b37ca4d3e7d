package pageviews

import (
	"fmt"
	"sort"
	"time"
)

// Statistics holds the deduplicated, timestamp-sorted records for one
// article under one access/agent/granularity selection. It owns its record
// set exclusively and is never mutated after construction.
type Statistics struct {
	project     string
	article     string
	granularity Granularity
	access      AccessType
	agent       UserAgent

	// records is sorted ascending by timestamp and deduplicated by Key.
	records []Record
}

// NewStatistics builds Statistics from one or more records. The first
// record seeds the identity fields; any record that disagrees on project,
// article, granularity, access or agent fails construction. Records with
// equal keys collapse to the first occurrence.
func NewStatistics(records []Record) (*Statistics, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	first := records[0]
	seen := make(map[Key]struct{}, len(records))
	deduped := make([]Record, 0, len(records))

	for _, r := range records {
		if r.Project != first.Project ||
			r.Article != first.Article ||
			r.Granularity != first.Granularity ||
			r.Access != first.Access ||
			r.Agent != first.Agent {
			return nil, fmt.Errorf("%w: %s/%s does not match %s/%s",
				ErrInconsistentRecords, r.Project, r.Article, first.Project, first.Article)
		}

		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		deduped = append(deduped, r)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Timestamp.Before(deduped[j].Timestamp)
	})

	return &Statistics{
		project:     first.Project,
		article:     first.Article,
		granularity: first.Granularity,
		access:      first.Access,
		agent:       first.Agent,
		records:     deduped,
	}, nil
}

// Project returns the project the records belong to, e.g. "en.wikipedia".
func (s *Statistics) Project() string { return s.project }

// Article returns the article title the records belong to.
func (s *Statistics) Article() string { return s.article }

// Granularity returns the time bucket shared by all records.
func (s *Statistics) Granularity() Granularity { return s.granularity }

// Access returns the access selector shared by all records.
func (s *Statistics) Access() AccessType { return s.access }

// Agent returns the agent selector shared by all records.
func (s *Statistics) Agent() UserAgent { return s.agent }

// Count returns the number of stored records.
func (s *Statistics) Count() int { return len(s.records) }

// Records returns a copy of the stored records in ascending timestamp order.
func (s *Statistics) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// StartDate returns the earliest record timestamp.
func (s *Statistics) StartDate() time.Time {
	return s.records[0].Timestamp
}

// EndDate returns the latest record timestamp.
func (s *Statistics) EndDate() time.Time {
	return s.records[len(s.records)-1].Timestamp
}

// TotalViews sums the view counts across all records.
func (s *Statistics) TotalViews() int64 {
	var total int64
	for _, r := range s.records {
		total += r.Views
	}
	return total
}

// TopViewsRecord returns the record with the highest view count. The scan
// keeps the last equal maximum, so ties resolve to the latest timestamp.
func (s *Statistics) TopViewsRecord() Record {
	top := s.records[0]
	for _, r := range s.records[1:] {
		if r.Views >= top.Views {
			top = r
		}
	}
	return top
}

// URL returns the canonical article URL rebuilt from the identity fields.
func (s *Statistics) URL() string {
	return fmt.Sprintf("https://%s.org/wiki/%s", s.project, s.article)
}
