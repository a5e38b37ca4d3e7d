// Package export flattens per-article statistics into a single tabular
// structure suitable for further analysis.
package export

import (
	"errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/sgaripov/wiki-pageviews-client/pkg/pageviews"
)

// ErrNoStatistics is returned when exporting zero statistics objects.
var ErrNoStatistics = errors.New("no statistics to export")

// dateLayout renders the timestamp column.
const dateLayout = "2006-01-02"

// Frame flattens every record of every input Statistics into one
// dataframe with columns project, article, granularity, timestamp,
// access, agent and views.
//
// Rows are deduplicated by full-row equality including the view count.
// This differs from the views-excluded key Statistics uses internally:
// rows for the same day that disagree on views are both kept. The row
// index is dense and zero-based after deduplication.
func Frame(stats ...*pageviews.Statistics) (dataframe.DataFrame, error) {
	if len(stats) == 0 {
		return dataframe.DataFrame{}, ErrNoStatistics
	}

	seen := make(map[pageviews.Record]struct{})
	var rows []pageviews.Record
	for _, st := range stats {
		for _, r := range st.Records() {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			rows = append(rows, r)
		}
	}

	projects := make([]string, len(rows))
	articles := make([]string, len(rows))
	granularities := make([]string, len(rows))
	timestamps := make([]string, len(rows))
	accesses := make([]string, len(rows))
	agents := make([]string, len(rows))
	views := make([]int, len(rows))

	for i, r := range rows {
		projects[i] = r.Project
		articles[i] = r.Article
		granularities[i] = string(r.Granularity)
		timestamps[i] = r.Timestamp.Format(dateLayout)
		accesses[i] = string(r.Access)
		agents[i] = string(r.Agent)
		views[i] = int(r.Views)
	}

	df := dataframe.New(
		series.New(projects, series.String, "project"),
		series.New(articles, series.String, "article"),
		series.New(granularities, series.String, "granularity"),
		series.New(timestamps, series.String, "timestamp"),
		series.New(accesses, series.String, "access"),
		series.New(agents, series.String, "agent"),
		series.New(views, series.Int, "views"),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
