package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/sitecrawl/internal/canonical"
	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/extract"
	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/output"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidSeed is returned when the seed URL is not on the target host.
var ErrInvalidSeed = errors.New("seed URL cannot be normalized")

// VisitRecorder stores the outcome of every visit, for example in the
// crawl history database. It is only called from the Run goroutine.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, v model.Visit) error
}

// Crawler crawls one host breadth-first.
// A Crawler is single use: create a new one for every run.
type Crawler struct {
	fetcher    *fetcher
	normalizer canonical.Normalizer
	extractor  *extract.Extractor
	writer     output.Writer

	seedURL  string
	delay    time.Duration
	workers  int
	maxPages int

	reporter Reporter
	recorder VisitRecorder
	logger   *slog.Logger

	frontier *Frontier
	visited  *VisitedSet
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithReporter sets the progress reporter. The default discards progress.
func WithReporter(r Reporter) Option {
	return func(c *Crawler) {
		c.reporter = r
	}
}

// WithRecorder sets where visit outcomes are stored.
func WithRecorder(r VisitRecorder) Option {
	return func(c *Crawler) {
		c.recorder = r
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler for cfg that saves pages through w.
// The client is used as is; timeouts come from cfg.Timeout.
func New(client *http.Client, cfg *config.Config, w output.Writer, opts ...Option) (*Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := extract.ValidateSelector(cfg.ContentSelector); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, errors.New("output writer is required")
	}
	if w.Format() != cfg.OutputFormat {
		return nil, fmt.Errorf("writer format %q does not match configured format %q", w.Format(), cfg.OutputFormat)
	}
	if client == nil {
		client = http.DefaultClient
	}

	normalizer := canonical.NewNormalizer(cfg.TargetDomain())
	seed, ok := normalizer.Normalize(cfg.SeedURL, cfg.SeedURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeed, cfg.SeedURL)
	}

	c := &Crawler{
		fetcher: &fetcher{
			client:      client,
			userAgent:   cfg.UserAgent,
			headers:     cfg.Headers,
			timeout:     cfg.Timeout,
			maxBodySize: cfg.MaxBodySize,
		},
		normalizer: normalizer,
		extractor:  extract.NewExtractor(normalizer, cfg.ContentSelector),
		writer:     w,
		seedURL:    seed,
		delay:      cfg.RequestDelay,
		workers:    cfg.Workers,
		maxPages:   cfg.MaxPages,
		reporter:   nopReporter{},
		frontier:   NewFrontier(seed),
		visited:    NewVisitedSet(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// SeedURL returns the canonical seed URL.
func (c *Crawler) SeedURL() string {
	return c.seedURL
}

// Run crawls until the frontier is empty, the page limit is reached or ctx
// is cancelled. It always returns the statistics collected so far; the error
// is only non-nil on cancellation.
func (c *Crawler) Run(ctx context.Context) (model.CrawlStats, error) {
	start := time.Now()
	var stats model.CrawlStats

	c.logger.Debug("crawl started",
		"seed", c.seedURL,
		"host", c.normalizer.Host(),
		"format", c.writer.Format(),
		"output_dir", c.writer.Dir(),
		"workers", c.workers,
	)

	var err error
	if c.workers <= 1 {
		err = c.runSequential(ctx, &stats)
	} else {
		err = c.runPool(ctx, &stats)
	}

	stats.Visited = c.visited.Len()
	stats.Duration = time.Since(start)
	c.reporter.Finished(stats.Visited)

	c.logger.Debug("crawl finished",
		"visited", stats.Visited,
		"saved", stats.Saved,
		"fetch_errors", stats.FetchErrors,
		"write_errors", stats.WriteErrors,
		"pending", c.frontier.Len(),
		"elapsed", stats.Duration,
	)
	if pending := c.frontier.Pending(); len(pending) > 0 {
		c.logger.Debug("crawl stopped with unvisited URLs", "urls", pending)
	}

	return stats, err
}

// runSequential processes one URL at a time in strict FIFO order.
func (c *Crawler) runSequential(ctx context.Context, stats *model.CrawlStats) error {
	for !c.limitReached() {
		if err := ctx.Err(); err != nil {
			return err
		}

		pageURL, ok := c.next()
		if !ok {
			return nil
		}

		c.absorb(ctx, c.visit(ctx, pageURL), stats)

		if c.frontier.Len() > 0 && !c.limitReached() {
			if err := c.pause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// runPool fetches up to c.workers URLs concurrently.
// Only this goroutine touches the frontier; workers hand their results back
// over a channel.
func (c *Crawler) runPool(ctx context.Context, stats *model.CrawlStats) error {
	results := make(chan visitResult, c.workers)
	inFlight := 0

	g := new(errgroup.Group)
	g.SetLimit(c.workers)

	receive := func() {
		c.absorb(ctx, <-results, stats)
		inFlight--
	}

	for ctx.Err() == nil && !c.limitReached() {
		pageURL, ok := c.next()
		if !ok {
			if inFlight == 0 {
				break
			}
			// Results of running workers may refill the frontier.
			receive()
			continue
		}

		task := func() error {
			res := c.visit(ctx, pageURL)
			_ = c.pause(ctx) //nolint:errcheck // cancellation is checked by the dispatch loop
			results <- res
			return nil
		}
		for !g.TryGo(task) {
			if inFlight == 0 {
				// Every worker already delivered its result and is about to
				// release its slot.
				g.Go(task)
				break
			}
			receive()
		}
		inFlight++
	}

	for inFlight > 0 {
		receive()
	}
	_ = g.Wait() //nolint:errcheck // tasks never return errors

	return ctx.Err()
}

// next pops frontier entries until it finds one that was not visited yet
// and marks it visited.
func (c *Crawler) next() (string, bool) {
	for {
		pageURL, ok := c.frontier.Pop()
		if !ok {
			return "", false
		}
		if c.visited.MarkIfNew(pageURL) {
			return pageURL, true
		}
	}
}

// limitReached reports whether the page limit stops further dequeuing.
func (c *Crawler) limitReached() bool {
	return c.maxPages > 0 && c.visited.Len() >= c.maxPages
}

// pause waits for the request delay or until ctx is done.
func (c *Crawler) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// visitResult is what one worker learned about a URL.
type visitResult struct {
	visit model.Visit
	links []string
}

// visit fetches and saves one page. It does not touch the frontier.
func (c *Crawler) visit(ctx context.Context, pageURL string) (res visitResult) {
	res = visitResult{visit: model.Visit{URL: pageURL}}
	defer func() { res.visit.VisitedAt = time.Now() }()

	c.reporter.Fetching(pageURL)

	resp, err := c.fetcher.fetch(ctx, pageURL)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			res.visit.StatusCode = statusErr.StatusCode
		}
		res.visit.Status = model.VisitFetchFailed
		res.visit.Error = err.Error()
		c.reporter.FetchFailed(pageURL, err)
		c.logger.Warn("fetch failed", "url", pageURL, "error", err)
		return res
	}
	res.visit.StatusCode = resp.statusCode

	page := &output.Page{URL: pageURL, Body: resp.body}

	doc, parseErr := extract.Parse(resp.body, resp.contentType)
	if parseErr != nil {
		c.logger.Warn("failed to parse page", "url", pageURL, "error", parseErr)
	} else {
		res.links = extract.PageLinks(doc, c.normalizer, pageURL)
		res.visit.Discovered = len(res.links)
	}

	if c.writer.Format() == model.FormatStructured {
		if parseErr != nil {
			return c.writeFailed(res, parseErr)
		}
		page.Record = c.extractor.Extract(doc, pageURL)
	}

	path, err := c.writer.WritePage(page)
	if err != nil {
		return c.writeFailed(res, err)
	}

	res.visit.Status = model.VisitSaved
	res.visit.OutputPath = path
	c.reporter.Saved(path)
	return res
}

func (c *Crawler) writeFailed(res visitResult, err error) visitResult {
	res.visit.Status = model.VisitWriteFailed
	res.visit.Error = err.Error()
	c.reporter.WriteFailed(res.visit.URL, err)
	c.logger.Warn("failed to save page", "url", res.visit.URL, "error", err)
	return res
}

// absorb queues the unvisited links of a result and records its outcome.
func (c *Crawler) absorb(ctx context.Context, res visitResult, stats *model.CrawlStats) {
	queued := 0
	for _, link := range res.links {
		if !c.visited.Has(link) {
			c.frontier.Push(link)
			queued++
		}
	}

	stats.Record(res.visit)

	c.logger.Debug("page processed",
		"url", res.visit.URL,
		"status", res.visit.Status,
		"links", len(res.links),
		"queued", queued,
	)

	if c.recorder == nil {
		return
	}
	// History must not be lost when the crawl is being cancelled.
	if err := c.recorder.RecordVisit(context.WithoutCancel(ctx), res.visit); err != nil {
		c.logger.Warn("failed to record visit", "url", res.visit.URL, "error", err)
	}
}
