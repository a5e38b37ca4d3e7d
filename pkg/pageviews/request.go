package pageviews

import (
	"fmt"
	"regexp"
	"time"
)

// articleURLPattern extracts (project, article) from a full article URL.
// The article group stops at "/" or "#" so section anchors and sub-paths
// are never treated as part of the title.
var articleURLPattern = regexp.MustCompile(`^https://(\w+\.wikipedia)\.org/wiki/([^/#]+)`)

// timestampLayout is the API's day-bucket convention: YYYYMMDD followed by
// a literal "00". The suffix is not an hour field.
const timestampLayout = "20060102"

// Request describes one per-article pageviews query. The zero value is not
// usable; construct it with all fields set. Request values are immutable
// and safe to share.
type Request struct {
	// URL is the full article URL, e.g. https://en.wikipedia.org/wiki/Go.
	URL string

	// Start and End bound the queried date range. They may be passed in
	// either order; rendering sorts them ascending.
	Start time.Time
	End   time.Time

	Granularity Granularity
	Access      AccessType
	Agent       UserAgent
}

// ParseArticleURL extracts the project (e.g. "en.wikipedia") and article
// title from a full article URL.
func ParseArticleURL(url string) (project, article string, err error) {
	m := articleURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q: unable to extract project and article title", ErrUnprocessableURL, url)
	}
	return m[1], m[2], nil
}

// Path renders the request into the API's path scheme:
//
//	/{project}/{access}/{agent}/{article}/{granularity}/{start}/{end}
//
// with both dates formatted as YYYYMMDD00 in ascending order.
func (r Request) Path() (string, error) {
	project, article, err := ParseArticleURL(r.URL)
	if err != nil {
		return "", err
	}

	start, end := r.Start, r.End
	if end.Before(start) {
		start, end = end, start
	}

	return fmt.Sprintf("/%s/%s/%s/%s/%s/%s00/%s00",
		project, r.Access, r.Agent, article, r.Granularity,
		start.Format(timestampLayout), end.Format(timestampLayout)), nil
}
