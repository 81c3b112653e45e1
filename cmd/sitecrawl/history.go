package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/history"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is how many runs --list shows.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past crawl runs",
		Long: `History shows the crawl runs recorded in the history database.

Without flags the most recent runs are listed. Use --run to see every URL
one run visited, with its status and output file.

Examples:
  # List the latest runs
  sitecrawl history

  # Show every visit of run 3 as Markdown
  sitecrawl history --run 3 --markdown > run3.md

  # Export the 100 latest runs as JSON
  sitecrawl history --list --limit 100 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List recorded runs, newest first (default when --run is not given)")
	cmd.Flags().Int64P("run", "r", 0,
		"Show the visits of the run with this ID")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 means all)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output history in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	cmd.MarkFlagsMutuallyExclusive("list", "run")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return errors.New("limit must not be negative")
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	format := history.FormatText
	switch {
	case jsonOutput:
		format = history.FormatJSON
	case markdownOutput:
		format = history.FormatMarkdown
	}

	renderer, err := history.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir(cmd), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if runID == 0 {
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		return renderer.RenderRuns(runs)
	}

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return fmt.Errorf("run %d not found (use 'sitecrawl history --list' to see available IDs)", runID)
		}
		return fmt.Errorf("failed to get run: %w", err)
	}
	visits, err := db.GetVisits(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get visits: %w", err)
	}
	return renderer.RenderRun(run, visits)
}
