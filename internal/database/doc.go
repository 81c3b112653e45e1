// Package database stores the crawl history in SQLite.
//
// Every crawl gets one row in the runs table and one row per visited URL in
// the visits table. The history is only read back by the history command; a
// new crawl never resumes from it.
//
// The driver is modernc.org/sqlite, a CGO-free SQLite port, so the binary
// stays statically linkable.
package database
