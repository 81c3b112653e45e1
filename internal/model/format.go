package model

import (
	"fmt"
	"strings"
)

// OutputFormat selects what is written for each fetched page.
type OutputFormat string

const (
	// FormatRaw writes the unmodified response body as an .html file.
	FormatRaw OutputFormat = "html"

	// FormatStructured writes an extracted PageRecord as a .json file.
	FormatStructured OutputFormat = "json"
)

// ParseOutputFormat converts user input into an OutputFormat.
// It accepts the file extensions ("html", "json") as well as the
// mode names ("raw", "structured"), case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "raw":
		return FormatRaw, nil
	case "json", "structured":
		return FormatStructured, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use \"html\" or \"json\")", s)
	}
}

// Valid reports whether f is one of the known formats.
func (f OutputFormat) Valid() bool {
	return f == FormatRaw || f == FormatStructured
}

// Extension returns the file extension without the leading dot.
func (f OutputFormat) Extension() string {
	return string(f)
}

// String returns the format name.
func (f OutputFormat) String() string {
	return string(f)
}
