package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/model"
)

// Format selects a renderer.
type Format string

const (
	// FormatText is aligned plain text.
	FormatText Format = "text"

	// FormatJSON is pretty-printed JSON.
	FormatJSON Format = "json"

	// FormatMarkdown is GitHub flavored Markdown.
	FormatMarkdown Format = "markdown"
)

// timeLayout is how timestamps are shown in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

// Renderer writes crawl history to an output.
type Renderer interface {
	// RenderRuns writes a list of runs, newest first.
	RenderRuns(runs []database.Run) error

	// RenderRun writes one run with all its visits.
	RenderRun(run *database.Run, visits []model.Visit) error
}

// NewRenderer returns the renderer for format writing to w.
func NewRenderer(format Format, w io.Writer) (Renderer, error) {
	switch format {
	case FormatText, "":
		return NewTextRenderer(w), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown history format %q", format)
	}
}

// TextRenderer writes human-readable plain text.
type TextRenderer struct {
	output io.Writer
}

// NewTextRenderer creates a TextRenderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{output: w}
}

// RenderRuns writes one line per run.
func (r *TextRenderer) RenderRuns(runs []database.Run) error {
	if len(runs) == 0 {
		_, err := io.WriteString(r.output, "No crawl runs recorded.\n")
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %-12s %-24s %8s %6s %7s  %s\n",
		"ID", "STATUS", "STARTED", "VISITED", "SAVED", "ERRORS", "SEED"))
	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("%-6d %-12s %-24s %8d %6d %7d  %s\n",
			run.ID,
			run.Status,
			formatTime(run.StartedAt),
			run.Stats.Visited,
			run.Stats.Saved,
			errorCount(run.Stats),
			run.SeedURL,
		))
	}

	_, err := io.WriteString(r.output, sb.String())
	return err
}

// RenderRun writes the run details followed by its visits.
func (r *TextRenderer) RenderRun(run *database.Run, visits []model.Visit) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:          %d\n", run.ID))
	sb.WriteString(fmt.Sprintf("Seed URL:     %s\n", run.SeedURL))
	sb.WriteString(fmt.Sprintf("Format:       %s\n", run.Format))
	sb.WriteString(fmt.Sprintf("Output dir:   %s\n", run.OutputDir))
	sb.WriteString(fmt.Sprintf("Workers:      %d\n", run.Workers))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", run.Status))
	sb.WriteString(fmt.Sprintf("Started:      %s\n", formatTime(run.StartedAt)))
	sb.WriteString(fmt.Sprintf("Finished:     %s\n", formatTime(run.FinishedAt)))
	sb.WriteString(fmt.Sprintf("Duration:     %s\n", run.Stats.Duration))
	sb.WriteString(fmt.Sprintf("Visited:      %d\n", run.Stats.Visited))
	sb.WriteString(fmt.Sprintf("Saved:        %d\n", run.Stats.Saved))
	sb.WriteString(fmt.Sprintf("Fetch errors: %d\n", run.Stats.FetchErrors))
	sb.WriteString(fmt.Sprintf("Write errors: %d\n", run.Stats.WriteErrors))
	sb.WriteString("\n")

	if len(visits) == 0 {
		sb.WriteString("No visits recorded.\n")
	} else {
		sb.WriteString("Visits:\n")
		for _, v := range visits {
			sb.WriteString(fmt.Sprintf("  %-12s %3s  %s", v.Status, statusCode(v), v.URL))
			switch {
			case v.OutputPath != "":
				sb.WriteString(" -> " + v.OutputPath)
			case v.Error != "":
				sb.WriteString(" (" + v.Error + ")")
			}
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(r.output, sb.String())
	return err
}

// formatTime renders t, or "-" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

// statusCode renders the HTTP status of a visit, or "-" when none was received.
func statusCode(v model.Visit) string {
	if v.StatusCode == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", v.StatusCode)
}

func errorCount(s model.CrawlStats) int {
	return s.FetchErrors + s.WriteErrors
}
