package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitecrawl/internal/model"
)

// DBFileName is the name of the database file inside the database directory.
const DBFileName = "sitecrawl.db"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("crawl run not found")

// RunStatus is the state of a crawl run.
type RunStatus string

const (
	// RunRunning means the run has started and not finished yet.
	// A run left in this state was killed without cleanup.
	RunRunning RunStatus = "running"

	// RunFinished means the frontier drained or the page cap was reached.
	RunFinished RunStatus = "finished"

	// RunInterrupted means the run was cancelled, for example by Ctrl+C.
	RunInterrupted RunStatus = "interrupted"
)

// CrawlDB is the crawl history database.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_url TEXT NOT NULL,
		format TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		workers INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		visited INTEGER NOT NULL DEFAULT 0,
		saved INTEGER NOT NULL DEFAULT 0,
		fetch_errors INTEGER NOT NULL DEFAULT 0,
		write_errors INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed_url);

	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		status_code INTEGER NOT NULL DEFAULT 0,
		output_path TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		discovered INTEGER NOT NULL DEFAULT 0,
		visited_at TEXT NOT NULL,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_visits_run ON visits(run_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one stored crawl run.
type Run struct {
	ID         int64
	SeedURL    string
	Format     model.OutputFormat
	OutputDir  string
	Workers    int
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      model.CrawlStats
}

// RunInfo describes a run that is about to start.
type RunInfo struct {
	SeedURL   string
	Format    model.OutputFormat
	OutputDir string
	Workers   int
	StartedAt time.Time
}

// StartRun inserts a new run in the running state and returns its ID.
func (cdb *CrawlDB) StartRun(ctx context.Context, info RunInfo) (int64, error) {
	startedAt := info.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	query := `
	INSERT INTO runs (seed_url, format, output_dir, workers, status, started_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := cdb.db.ExecContext(ctx, query,
		info.SeedURL,
		string(info.Format),
		info.OutputDir,
		info.Workers,
		string(RunRunning),
		formatTimestamp(startedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}

	return result.LastInsertId()
}

// RecordVisit stores the outcome of one visit.
// Recording the same URL twice for a run replaces the earlier row.
func (cdb *CrawlDB) RecordVisit(ctx context.Context, runID int64, v model.Visit) error {
	visitedAt := v.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = time.Now()
	}

	query := `
	INSERT INTO visits (run_id, url, status, status_code, output_path, error, discovered, visited_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, url) DO UPDATE SET
		status = excluded.status,
		status_code = excluded.status_code,
		output_path = excluded.output_path,
		error = excluded.error,
		discovered = excluded.discovered,
		visited_at = excluded.visited_at
	`

	_, err := cdb.db.ExecContext(ctx, query,
		runID,
		v.URL,
		string(v.Status),
		v.StatusCode,
		v.OutputPath,
		v.Error,
		v.Discovered,
		formatTimestamp(visitedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}

	return nil
}

// FinishRun stores the final statistics and status of a run.
func (cdb *CrawlDB) FinishRun(ctx context.Context, runID int64, status RunStatus, stats model.CrawlStats, finishedAt time.Time) error {
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	query := `
	UPDATE runs SET
		status = ?,
		finished_at = ?,
		duration_ms = ?,
		visited = ?,
		saved = ?,
		fetch_errors = ?,
		write_errors = ?
	WHERE id = ?
	`

	result, err := cdb.db.ExecContext(ctx, query,
		string(status),
		formatTimestamp(finishedAt),
		stats.Duration.Milliseconds(),
		stats.Visited,
		stats.Saved,
		stats.FetchErrors,
		stats.WriteErrors,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	return nil
}

const runColumns = `id, seed_url, format, output_dir, workers, status, started_at, finished_at,
	duration_ms, visited, saved, fetch_errors, write_errors`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*Run, error) {
	var (
		run        Run
		format     string
		status     string
		startedAt  string
		finishedAt sql.NullString
		durationMS int64
	)

	err := s.Scan(
		&run.ID,
		&run.SeedURL,
		&format,
		&run.OutputDir,
		&run.Workers,
		&status,
		&startedAt,
		&finishedAt,
		&durationMS,
		&run.Stats.Visited,
		&run.Stats.Saved,
		&run.Stats.FetchErrors,
		&run.Stats.WriteErrors,
	)
	if err != nil {
		return nil, err
	}

	run.Format = model.OutputFormat(format)
	run.Status = RunStatus(status)
	run.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTimestamp(finishedAt.String)
	}
	run.Stats.Duration = time.Duration(durationMS) * time.Millisecond

	return &run, nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (cdb *CrawlDB) GetRun(ctx context.Context, runID int64) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	run, err := scanRun(cdb.db.QueryRowContext(ctx, query, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first.
// A limit of 0 or less returns all runs.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetVisits returns the visits of a run in the order they were recorded.
func (cdb *CrawlDB) GetVisits(ctx context.Context, runID int64) ([]model.Visit, error) {
	query := `
	SELECT url, status, status_code, output_path, error, discovered, visited_at
	FROM visits
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get visits: %w", err)
	}
	defer rows.Close()

	visits := make([]model.Visit, 0)
	for rows.Next() {
		var (
			v         model.Visit
			status    string
			visitedAt string
		)
		if err := rows.Scan(&v.URL, &status, &v.StatusCode, &v.OutputPath, &v.Error, &v.Discovered, &visitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		v.Status = model.VisitStatus(status)
		v.VisitedAt = parseTimestamp(visitedAt)
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// RunRecorder records the visits of one run.
// It satisfies crawler.VisitRecorder.
type RunRecorder struct {
	db    *CrawlDB
	runID int64
}

// Recorder returns a RunRecorder for runID.
func (cdb *CrawlDB) Recorder(runID int64) *RunRecorder {
	return &RunRecorder{db: cdb, runID: runID}
}

// RunID returns the run the recorder writes to.
func (r *RunRecorder) RunID() int64 {
	return r.runID
}

// RecordVisit stores v under the recorder's run.
func (r *RunRecorder) RecordVisit(ctx context.Context, v model.Visit) error {
	return r.db.RecordVisit(ctx, r.runID, v)
}

// formatTimestamp stores times as UTC RFC 3339 so that they sort as text.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // formatTimestamp
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
