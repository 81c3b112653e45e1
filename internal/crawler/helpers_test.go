package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/output"
)

const testSeed = "https://example.test/"

// roundTripFunc lets a function act as an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// serve answers requests in process with h, so tests can use any hostname.
func serve(h http.Handler) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		resp := rec.Result()
		resp.Request = r
		return resp, nil
	}
}

// site serves HTML pages by path and counts every request.
type site struct {
	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	hits   map[string]int
	hosts  map[string]int
}

func newSite(pages map[string]string) *site {
	return &site{
		pages:  pages,
		status: make(map[string]int),
		hits:   make(map[string]int),
		hosts:  make(map[string]int),
	}
}

func (s *site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.hosts[r.URL.Host]++
	code, hasCode := s.status[r.URL.Path]
	body, ok := s.pages[r.URL.Path]
	s.mu.Unlock()

	if hasCode {
		http.Error(w, http.StatusText(code), code)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, body) //nolint:errcheck // test server
}

func (s *site) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *site) hitsSnapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.hits))
	for k, v := range s.hits {
		out[k] = v
	}
	return out
}

func (s *site) hostsSnapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.hosts))
	for k, v := range s.hosts {
		out[k] = v
	}
	return out
}

// recordingReporter keeps every progress event as a line.
type recordingReporter struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingReporter) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Fetching(url string)               { r.add("fetching %s", url) }
func (r *recordingReporter) Saved(path string)                 { r.add("saved %s", path) }
func (r *recordingReporter) FetchFailed(url string, err error) { r.add("fetch failed %s: %v", url, err) }
func (r *recordingReporter) WriteFailed(url string, err error) { r.add("write failed %s: %v", url, err) }
func (r *recordingReporter) Finished(visited int)              { r.add("finished %d", visited) }

func (r *recordingReporter) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// fetchOrder returns the URLs of the fetching events in order.
func (r *recordingReporter) fetchOrder() []string {
	var out []string
	for _, line := range r.snapshot() {
		if u, ok := strings.CutPrefix(line, "fetching "); ok {
			out = append(out, u)
		}
	}
	return out
}

// memRecorder keeps visits in memory.
type memRecorder struct {
	visits []model.Visit
}

func (m *memRecorder) RecordVisit(_ context.Context, v model.Visit) error {
	m.visits = append(m.visits, v)
	return nil
}

func (m *memRecorder) byURL(u string) (model.Visit, bool) {
	for _, v := range m.visits {
		if v.URL == u {
			return v, true
		}
	}
	return model.Visit{}, false
}

// failingWriter is an output.Writer whose writes always fail.
type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) WritePage(*output.Page) (string, error) { return "", errDiskFull }
func (failingWriter) Format() model.OutputFormat             { return model.FormatStructured }
func (failingWriter) Dir() string                            { return "unused" }

// testConfig returns a valid configuration without delay or history.
func testConfig(t *testing.T, format model.OutputFormat) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.SeedURL = testSeed
	cfg.OutputFormat = format
	cfg.OutputDir = filepath.Join(t.TempDir(), "pages_"+format.Extension())
	cfg.RequestDelay = 0
	cfg.SaveHistory = false
	return cfg
}

// newTestCrawler builds a Crawler that talks to rt and writes into cfg.OutputDir.
func newTestCrawler(t *testing.T, rt http.RoundTripper, cfg *config.Config, opts ...Option) *Crawler {
	t.Helper()
	w, err := output.NewWriter(cfg.OutputFormat, cfg.ResolvedOutputDir())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	c, err := New(&http.Client{Transport: rt}, cfg, w, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
