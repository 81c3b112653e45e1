package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/database"
	"github.com/nao1215/sitecrawl/internal/extract"
	"github.com/nao1215/sitecrawl/internal/log"
	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/output"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url]",
		Short: "Crawl a website and save its pages",
		Long: `Crawl visits every page reachable from the seed URL on the same host,
breadth-first and at most once per URL, and saves each page to disk.

Output formats:
- html: the raw response body, one .html file per page
- json: a record with url, title, paragraphs, images, documents and links

Without a seed URL argument the command asks for the URL and the format.

Examples:
  # Crawl a site and save JSON records to ./pages_json
  sitecrawl crawl https://www.example.com/

  # Save raw HTML with four workers and no delay
  sitecrawl crawl --format html --workers 4 --delay 0 www.example.com

  # Stop after 100 pages and use a different content region
  sitecrawl crawl --max-pages 100 --content-selector "main article" https://blog.example.com/

  # Answer the questions interactively
  sitecrawl crawl`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Output flags
	cmd.Flags().StringP("format", "F", string(model.FormatStructured),
		`Output format: "html" (raw pages) or "json" (structured records)`)
	cmd.Flags().StringP("output", "o", "",
		"Output directory (default: pages_html or pages_json)")

	// Crawl behavior flags
	cmd.Flags().DurationP("delay", "d", config.DefaultRequestDelay,
		"Pause between page fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for requests")
	cmd.Flags().StringP("content-selector", "s", config.DefaultContentSelector,
		"CSS selector of the main-content region used for JSON output")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetch workers (1 keeps breadth-first order)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to visit (0 means no limit)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitecrawl in current or home directory)")

	// History
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := extract.ValidateSelector(cfg.ContentSelector); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cmd.OutOrStdout(), cfg, logger)
}

// buildConfig creates a Config from flags, the config file and the prompt.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	format, err := flags.GetString("format")
	if err != nil {
		return nil, err
	}
	if cfg.OutputFormat, err = model.ParseOutputFormat(format); err != nil {
		return nil, err
	}

	if cfg.OutputDir, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.RequestDelay, err = flags.GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.ContentSelector, err = flags.GetString("content-selector"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.DBDir = dbDir(cmd)
	cfg.Verbose = persistentBool(cmd, "verbose")

	// An explicit config path must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file, flags.Changed)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if len(args) > 0 {
		cfg.SeedURL = config.PrepareSeedURL(args[0])
		return cfg, nil
	}

	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	if err := p.run(cfg, !flags.Changed("format")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger creates the diagnostic logger on stderr.
// Custom header names are masked in addition to the built-in sensitive keys.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	names := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	w := cmd.ErrOrStderr()
	if persistentBool(cmd, "log-json") {
		return log.NewSecureJSONLogger(w, cfg.Verbose, log.WithSensitiveKeys(names...))
	}
	return log.NewSecureLogger(w, cfg.Verbose, log.WithSensitiveKeys(names...))
}

// runCrawl prepares the output directory and the history run, then crawls.
func runCrawl(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	writer, err := output.NewWriter(cfg.OutputFormat, cfg.ResolvedOutputDir())
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	opts := []crawler.Option{
		crawler.WithReporter(crawler.NewConsoleReporter(out)),
		crawler.WithLogger(logger),
	}

	var (
		db    *database.CrawlDB
		runID int64
	)
	if cfg.SaveHistory {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		runID, err = db.StartRun(ctx, database.RunInfo{
			SeedURL:   cfg.SeedURL,
			Format:    cfg.OutputFormat,
			OutputDir: writer.Dir(),
			Workers:   cfg.Workers,
			StartedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to record crawl run: %w", err)
		}
		opts = append(opts, crawler.WithRecorder(db.Recorder(runID)))
		logger.Debug("history run started", "run", runID, "db", db.Path())
	}

	c, err := crawler.New(&http.Client{}, cfg, writer, opts...)
	if err != nil {
		finishRun(ctx, db, runID, database.RunInterrupted, model.CrawlStats{}, logger)
		return err
	}

	fmt.Fprintf(out, "\nStarting crawl at: %s\n", c.SeedURL())
	fmt.Fprintf(out, "Saving files to: %s\n\n", writer.Dir())

	stats, runErr := c.Run(ctx)

	status := database.RunFinished
	if runErr != nil {
		status = database.RunInterrupted
	}
	finishRun(ctx, db, runID, status, stats, logger)

	fmt.Fprintf(out, "Saved: %d, fetch errors: %d, write errors: %d, elapsed: %s\n",
		stats.Saved, stats.FetchErrors, stats.WriteErrors, stats.Duration.Round(time.Millisecond))
	if db != nil {
		fmt.Fprintf(out, "Run %d recorded (sitecrawl history --run %d)\n", runID, runID)
	}

	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("crawl interrupted: %w", runErr)
	}
	return runErr
}

// finishRun closes the history run. A nil db means history is disabled.
func finishRun(ctx context.Context, db *database.CrawlDB, runID int64, status database.RunStatus, stats model.CrawlStats, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.FinishRun(context.WithoutCancel(ctx), runID, status, stats, time.Now()); err != nil {
		logger.Error("failed to finish history run", "run", runID, "error", err)
	}
}
