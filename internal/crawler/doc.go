// Package crawler implements the breadth-first crawl of a single host.
//
// # Architecture
//
// A Crawler owns all state of one run: the Frontier of pending URLs and the
// VisitedSet of URLs that were already attempted. Nothing is global, so two
// crawlers can run side by side in one process.
//
// One iteration of the loop:
//  1. Pop the head of the frontier and atomically mark it visited. URLs that
//     were already visited are dropped here.
//  2. Fetch it. A failed fetch is reported and the URL is abandoned; it is
//     never retried or re-queued.
//  3. Save the raw body, or extract a model.PageRecord and save it as JSON.
//  4. Normalize every anchor of the whole page and append the unvisited
//     results to the frontier.
//  5. Sleep for the configured delay.
//
// The frontier does not deduplicate its own contents. A URL found on two
// pages may be queued twice; the visited check in step 1 makes sure it is
// fetched once.
//
// # Workers
//
// With Workers set to 1 the loop is strictly sequential and pages are fetched
// in discovery order. With more workers, steps 2 and 3 run concurrently on an
// errgroup bounded to that many goroutines while the frontier stays owned by
// the Run goroutine. Each URL is still fetched at most once, but the global
// order is only roughly breadth-first and the delay applies per worker.
//
// # Errors
//
// Per-page failures never stop a crawl. They are reported through the
// Reporter, logged, counted in model.CrawlStats and recorded in the history.
// Run only returns an error when the context is cancelled.
package crawler
