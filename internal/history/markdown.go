package history

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/model"
)

// MarkdownRenderer writes GitHub flavored Markdown.
type MarkdownRenderer struct {
	output io.Writer
}

// NewMarkdownRenderer creates a MarkdownRenderer writing to w.
func NewMarkdownRenderer(w io.Writer) *MarkdownRenderer {
	return &MarkdownRenderer{output: w}
}

// RenderRuns writes a table of runs.
func (r *MarkdownRenderer) RenderRuns(runs []database.Run) error {
	md := markdown.NewMarkdown(r.output)
	md.H1("Crawl History")
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No crawl runs recorded.")
		return md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			string(run.Status),
			formatTime(run.StartedAt),
			strconv.Itoa(run.Stats.Visited),
			strconv.Itoa(run.Stats.Saved),
			strconv.Itoa(errorCount(run.Stats)),
			"`" + run.SeedURL + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Status", "Started", "Visited", "Saved", "Errors", "Seed"},
		Rows:   rows,
	})
	md.PlainText("")

	return md.Build()
}

// RenderRun writes the run details, a chart of visit outcomes and the visits.
func (r *MarkdownRenderer) RenderRun(run *database.Run, visits []model.Visit) error {
	md := markdown.NewMarkdown(r.output)
	md.H1("Crawl Run " + strconv.FormatInt(run.ID, 10))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + run.SeedURL + "`"},
			{"Format", string(run.Format)},
			{"Output Directory", "`" + run.OutputDir + "`"},
			{"Workers", strconv.Itoa(run.Workers)},
			{"Status", string(run.Status)},
			{"Started", formatTime(run.StartedAt)},
			{"Finished", formatTime(run.FinishedAt)},
			{"Duration", run.Stats.Duration.String()},
			{"Visited", strconv.Itoa(run.Stats.Visited)},
			{"Saved", strconv.Itoa(run.Stats.Saved)},
			{"Fetch Errors", strconv.Itoa(run.Stats.FetchErrors)},
			{"Write Errors", strconv.Itoa(run.Stats.WriteErrors)},
		},
	})
	md.PlainText("")

	r.writeAlert(md, run)

	md.H2("Visits")
	md.PlainText("")
	if len(visits) == 0 {
		md.PlainText("No visits recorded.")
		md.PlainText("")
		return md.Build()
	}

	r.writePieChart(md, visits)

	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, []string{
			"`" + v.URL + "`",
			string(v.Status),
			statusCode(v),
			v.OutputPath,
			v.Error,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "HTTP", "Output", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	return md.Build()
}

// writeAlert summarizes the run outcome.
func (r *MarkdownRenderer) writeAlert(md *markdown.Markdown, run *database.Run) {
	switch {
	case run.Status == database.RunInterrupted:
		md.Warningf("The crawl was interrupted after %d page(s).", run.Stats.Visited)
	case errorCount(run.Stats) > 0:
		md.Importantf("%d page(s) could not be fetched or saved.", errorCount(run.Stats))
	default:
		md.Tip("All visited pages were saved.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the visit outcomes.
func (r *MarkdownRenderer) writePieChart(md *markdown.Markdown, visits []model.Visit) {
	counts := make(map[model.VisitStatus]int)
	for _, v := range visits {
		counts[v.Status]++
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Visit Outcomes"),
		piechart.WithShowData(true),
	)
	for _, status := range []model.VisitStatus{model.VisitSaved, model.VisitFetchFailed, model.VisitWriteFailed} {
		if n := counts[status]; n > 0 {
			chart.LabelAndIntValue(string(status), uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
