// Package history renders stored crawl runs for the history command.
//
// Three renderers are available: plain text for the terminal, JSON for
// scripts and Markdown for sharing. They all read from database.Run and
// model.Visit and never touch the database themselves.
package history
