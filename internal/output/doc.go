// Package output writes one file per crawled page.
//
// Two writers exist, one per output format:
//   - RawWriter stores the response body unchanged as <name>.html
//   - JSONWriter stores the extracted model.PageRecord as <name>.json
//
// The file name comes from canonical.FileName. Distinct URLs can map to the
// same name; the page written last wins.
package output
