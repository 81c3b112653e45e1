// Package main provides the entry point for the sitecrawl CLI.
//
// sitecrawl crawls one website breadth-first, staying on the host of the
// seed URL, and saves every page either as raw HTML or as a structured
// JSON record.
//
// Usage:
//
//	sitecrawl crawl https://www.example.com/
//	sitecrawl crawl --format html --workers 4 https://www.example.com/
//	sitecrawl history --list
//
// See --help for all available options.
package main

// main is the entry point for sitecrawl.
func main() {
	Execute()
}
