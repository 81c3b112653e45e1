package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrNoSeedURL is returned when no seed URL was given.
	ErrNoSeedURL = errors.New("no seed URL specified: provide a URL argument or answer the prompt")

	// ErrInvalidSeedURL is returned when the seed URL is not an absolute http(s) URL with a host.
	ErrInvalidSeedURL = errors.New("invalid seed URL: must be an absolute http or https URL")

	// ErrInvalidOutputFormat is returned when the output format is neither html nor json.
	ErrInvalidOutputFormat = errors.New(`invalid output format: must be "html" or "json"`)

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the request delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Use 0 for no cap.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrEmptyContentSelector is returned when the content selector is blank.
	ErrEmptyContentSelector = errors.New("invalid content selector: must not be empty")
)
