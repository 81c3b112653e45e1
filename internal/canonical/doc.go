// Package canonical turns hrefs found in pages into canonical URLs and maps
// canonical URLs to file names.
//
// A canonical URL is an absolute http(s) URL on the crawl's target host with
// an empty query and fragment. Two hrefs that normalize to the same string
// are the same page. Normalization is idempotent.
package canonical
