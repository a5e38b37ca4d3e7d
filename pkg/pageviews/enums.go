// Package pageviews defines the data model for the Wikimedia REST
// pageviews per-article API: request values, response records and
// per-article statistics.
package pageviews

import "fmt"

// AccessType selects which device class the views were counted for.
type AccessType string

const (
	// AccessAny counts views from all access methods.
	AccessAny AccessType = "all-access"

	// AccessDesktop counts desktop browser views only.
	AccessDesktop AccessType = "desktop"

	// AccessMobileWeb counts mobile browser views only.
	AccessMobileWeb AccessType = "mobile-web"

	// AccessMobileApp counts official app views only.
	AccessMobileApp AccessType = "mobile-app"
)

// UserAgent selects who accessed the page.
type UserAgent string

const (
	// AgentAny counts views from all agent classes.
	AgentAny UserAgent = "all-agents"

	// AgentUser counts human traffic only.
	AgentUser UserAgent = "user"

	// AgentSpider counts crawler traffic only.
	AgentSpider UserAgent = "spider"

	// AgentAutomated counts bot traffic only.
	AgentAutomated UserAgent = "automated"
)

// Granularity is the time bucket the API aggregates views by.
type Granularity string

const (
	// GranularityDaily aggregates views per day.
	GranularityDaily Granularity = "daily"

	// GranularityMonthly aggregates views per month.
	GranularityMonthly Granularity = "monthly"
)

// ParseAccessType validates a wire value against the closed AccessType set.
func ParseAccessType(s string) (AccessType, error) {
	switch v := AccessType(s); v {
	case AccessAny, AccessDesktop, AccessMobileWeb, AccessMobileApp:
		return v, nil
	}
	return "", fmt.Errorf("%w: access %q", ErrInvalidEnumValue, s)
}

// ParseUserAgent validates a wire value against the closed UserAgent set.
func ParseUserAgent(s string) (UserAgent, error) {
	switch v := UserAgent(s); v {
	case AgentAny, AgentUser, AgentSpider, AgentAutomated:
		return v, nil
	}
	return "", fmt.Errorf("%w: agent %q", ErrInvalidEnumValue, s)
}

// ParseGranularity validates a wire value against the closed Granularity set.
func ParseGranularity(s string) (Granularity, error) {
	switch v := Granularity(s); v {
	case GranularityDaily, GranularityMonthly:
		return v, nil
	}
	return "", fmt.Errorf("%w: granularity %q", ErrInvalidEnumValue, s)
}
