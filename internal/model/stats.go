package model

import "time"

// VisitStatus is the terminal state of one dequeued URL.
type VisitStatus string

const (
	// VisitSaved means the page was fetched and its output file written.
	VisitSaved VisitStatus = "saved"

	// VisitFetchFailed means the request failed or returned a non-success status.
	VisitFetchFailed VisitStatus = "fetch_failed"

	// VisitWriteFailed means the page was fetched but its output could not be
	// produced or written.
	VisitWriteFailed VisitStatus = "write_failed"
)

// Visit records what happened to one URL during a crawl.
type Visit struct {
	// URL is the canonical URL that was visited.
	URL string `json:"url"`

	// Status is the terminal state of the visit.
	Status VisitStatus `json:"status"`

	// StatusCode is the HTTP status code, 0 when no response was received.
	StatusCode int `json:"status_code,omitempty"`

	// OutputPath is the written file, empty unless Status is VisitSaved.
	OutputPath string `json:"output_path,omitempty"`

	// Error is the error message for failed visits.
	Error string `json:"error,omitempty"`

	// Discovered is the number of same-host links found on the page.
	Discovered int `json:"discovered"`

	// VisitedAt is when the visit finished.
	VisitedAt time.Time `json:"visited_at"`
}

// CrawlStats summarizes a finished (or interrupted) crawl run.
type CrawlStats struct {
	// Visited is the size of the visited set: every URL that was dequeued
	// and attempted, successful or not.
	Visited int `json:"visited"`

	// Saved is the number of output files written.
	Saved int `json:"saved"`

	// FetchErrors is the number of URLs abandoned because the fetch failed.
	FetchErrors int `json:"fetch_errors"`

	// WriteErrors is the number of pages whose output could not be written.
	WriteErrors int `json:"write_errors"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
}

// Record updates the counters for one finished visit.
func (s *CrawlStats) Record(v Visit) {
	switch v.Status {
	case VisitSaved:
		s.Saved++
	case VisitFetchFailed:
		s.FetchErrors++
	case VisitWriteFailed:
		s.WriteErrors++
	}
}
