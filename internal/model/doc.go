// Package model defines the data structures shared by the crawler, the
// output writers and the history database.
//
// This package contains the following main types:
//   - PageRecord: the structured record extracted from one page
//   - OutputFormat: raw HTML or structured JSON output
//   - Visit and CrawlStats: per-URL outcomes and run totals
package model
