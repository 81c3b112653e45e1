package history

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/model"
)

// JSONRenderer writes pretty-printed JSON.
type JSONRenderer struct {
	output io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{output: w}
}

// runJSON is the JSON shape of a run.
type runJSON struct {
	ID         int64              `json:"id"`
	SeedURL    string             `json:"seed_url"`
	Format     model.OutputFormat `json:"format"`
	OutputDir  string             `json:"output_dir"`
	Workers    int                `json:"workers"`
	Status     database.RunStatus `json:"status"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt *time.Time         `json:"finished_at"`
	Stats      model.CrawlStats   `json:"stats"`
}

func newRunJSON(run *database.Run) runJSON {
	out := runJSON{
		ID:        run.ID,
		SeedURL:   run.SeedURL,
		Format:    run.Format,
		OutputDir: run.OutputDir,
		Workers:   run.Workers,
		Status:    run.Status,
		StartedAt: run.StartedAt,
		Stats:     run.Stats,
	}
	if !run.FinishedAt.IsZero() {
		finished := run.FinishedAt
		out.FinishedAt = &finished
	}
	return out
}

// RenderRuns writes {"runs": [...]}.
func (r *JSONRenderer) RenderRuns(runs []database.Run) error {
	out := struct {
		Runs []runJSON `json:"runs"`
	}{Runs: make([]runJSON, 0, len(runs))}
	for i := range runs {
		out.Runs = append(out.Runs, newRunJSON(&runs[i]))
	}
	return r.write(out)
}

// RenderRun writes {"run": {...}, "visits": [...]}.
func (r *JSONRenderer) RenderRun(run *database.Run, visits []model.Visit) error {
	if visits == nil {
		visits = make([]model.Visit, 0)
	}
	out := struct {
		Run    runJSON       `json:"run"`
		Visits []model.Visit `json:"visits"`
	}{Run: newRunJSON(run), Visits: visits}
	return r.write(out)
}

func (r *JSONRenderer) write(v any) error {
	enc := json.NewEncoder(r.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
