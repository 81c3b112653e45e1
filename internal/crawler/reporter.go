package crawler

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives the human-readable progress of a crawl.
// Implementations must be safe for concurrent use.
type Reporter interface {
	// Fetching is called before a URL is requested.
	Fetching(url string)
	// Saved is called after an output file was written.
	Saved(path string)
	// FetchFailed is called when a URL is abandoned.
	FetchFailed(url string, err error)
	// WriteFailed is called when a fetched page could not be saved.
	WriteFailed(url string, err error)
	// Finished is called once with the number of visited URLs.
	Finished(visited int)
}

// ConsoleReporter prints one line per event.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleReporter creates a ConsoleReporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (r *ConsoleReporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, format+"\n", args...) //nolint:errcheck // progress output is best effort
}

// Fetching prints "Fetching <url>".
func (r *ConsoleReporter) Fetching(url string) {
	r.printf("Fetching %s", url)
}

// Saved prints "Saved <path>".
func (r *ConsoleReporter) Saved(path string) {
	r.printf("Saved %s", path)
}

// FetchFailed prints "Error fetching <url>: <message>".
func (r *ConsoleReporter) FetchFailed(url string, err error) {
	r.printf("Error fetching %s: %v", url, err)
}

// WriteFailed prints "Error saving <url>: <message>".
func (r *ConsoleReporter) WriteFailed(url string, err error) {
	r.printf("Error saving %s: %v", url, err)
}

// Finished prints the summary line.
func (r *ConsoleReporter) Finished(visited int) {
	r.printf("Crawl finished. Pages visited: %d", visited)
}

// nopReporter discards all events.
type nopReporter struct{}

func (nopReporter) Fetching(string)           {}
func (nopReporter) Saved(string)              {}
func (nopReporter) FetchFailed(string, error) {}
func (nopReporter) WriteFailed(string, error) {}
func (nopReporter) Finished(int)              {}
