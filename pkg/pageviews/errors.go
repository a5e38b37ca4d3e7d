package pageviews

import "errors"

// Errors returned by the data model.
var (
	// ErrUnprocessableURL is returned when an article URL does not match
	// the https://<project>.wikipedia.org/wiki/<article> pattern.
	ErrUnprocessableURL = errors.New("unprocessable article URL")

	// ErrInvalidEnumValue is returned when a response field is not a
	// recognized member of its enumeration.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrInvalidTimestamp is returned when a response timestamp is not in
	// the YYYYMMDD00 form the API uses.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInconsistentRecords is returned when records grouped into one
	// Statistics disagree on project, article, granularity, access or agent.
	ErrInconsistentRecords = errors.New("inconsistent records")

	// ErrNoRecords is returned when Statistics is constructed from zero
	// records; the first record seeds the identity fields.
	ErrNoRecords = errors.New("no records")
)
