// Package extract turns a parsed HTML page into a model.PageRecord.
//
// The extraction rules are written against the small Document and Selection
// interfaces instead of a concrete HTML library. Parse returns the goquery
// backed implementation, which is the only one used in production.
//
// Two link lists come out of a page:
//   - Extractor.Extract collects anchors inside the main-content region only.
//     These end up in the saved record.
//   - PageLinks collects anchors from the whole document. The crawler uses
//     them for discovery, so navigation menus and footers are followed even
//     though they never show up in a record.
package extract
