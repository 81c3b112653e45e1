package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/database"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	if cmd.Use != "crawl [seed-url]" {
		t.Errorf("expected use 'crawl [seed-url]', got %q", cmd.Use)
	}

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "format", shorthand: "F", defValue: "json"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "delay", shorthand: "d", defValue: "500ms"},
		{name: "timeout", shorthand: "t", defValue: "10s"},
		{name: "user-agent", shorthand: "u", defValue: config.DefaultUserAgent},
		{name: "content-selector", shorthand: "s", defValue: ".entry-content"},
		{name: "workers", shorthand: "w", defValue: "1"},
		{name: "max-pages", shorthand: "p", defValue: "0"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "no-history", defValue: "false"},
	}
	for _, tt := range flags {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestRunCrawlCmd crawls a local site end to end and inspects the history.
func TestRunCrawlCmd(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	dirs := newCrawlDirs(t, "")

	stdout, _, err := executeCmd(t, "", dirs.args(srv.URL)...)
	if err != nil {
		t.Fatalf("crawl failed: %v\n%s", err, stdout)
	}

	for _, want := range []string{
		"Starting crawl at: " + srv.URL + "/",
		"Fetching " + srv.URL + "/\n",
		"Fetching " + srv.URL + "/about/\n",
		"Error fetching " + srv.URL + "/missing/: request failed with status code 404",
		"Crawl finished. Pages visited: 3",
		"Saved: 2, fetch errors: 1, write errors: 0",
		"Run 1 recorded",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout does not contain %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "report.pdf") {
		t.Errorf("document links must not be crawled:\n%s", stdout)
	}

	data, err := os.ReadFile(filepath.Join(dirs.out, "home.json"))
	if err != nil {
		t.Fatal(err)
	}
	var home struct {
		URL       string   `json:"url"`
		Title     *string  `json:"title"`
		Documents []string `json:"documents"`
		Links     []string `json:"links"`
	}
	if err := json.Unmarshal(data, &home); err != nil {
		t.Fatalf("home.json: %v\n%s", err, data)
	}
	if home.URL != srv.URL+"/" || home.Title == nil || *home.Title != "Home" {
		t.Errorf("unexpected home record: %s", data)
	}
	if !slices.Equal(home.Documents, []string{srv.URL + "/files/report.pdf"}) {
		t.Errorf("documents = %v", home.Documents)
	}
	if !slices.Equal(home.Links, []string{srv.URL + "/about/"}) {
		t.Errorf("links = %v", home.Links)
	}
	if _, err := os.Stat(filepath.Join(dirs.out, "about-.json")); err != nil {
		t.Errorf("about page not saved: %v", err)
	}

	t.Run("history list", func(t *testing.T) {
		out, _, err := executeCmd(t, "", "history", "--db-dir", dirs.db, "--json")
		if err != nil {
			t.Fatal(err)
		}
		var got struct {
			Runs []struct {
				ID      int64  `json:"id"`
				SeedURL string `json:"seed_url"`
				Status  string `json:"status"`
				Stats   struct {
					Visited     int `json:"visited"`
					Saved       int `json:"saved"`
					FetchErrors int `json:"fetch_errors"`
				} `json:"stats"`
			} `json:"runs"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("history json: %v\n%s", err, out)
		}
		if len(got.Runs) != 1 {
			t.Fatalf("runs = %d, want 1", len(got.Runs))
		}
		run := got.Runs[0]
		if run.ID != 1 || run.SeedURL != srv.URL+"/" || run.Status != string(database.RunFinished) {
			t.Errorf("unexpected run: %+v", run)
		}
		if run.Stats.Visited != 3 || run.Stats.Saved != 2 || run.Stats.FetchErrors != 1 {
			t.Errorf("unexpected stats: %+v", run.Stats)
		}
	})

	t.Run("history run", func(t *testing.T) {
		out, _, err := executeCmd(t, "", "history", "--db-dir", dirs.db, "--run", "1")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"Run:          1", "fetch_failed", srv.URL + "/missing/", "saved", "home.json"} {
			if !strings.Contains(out, want) {
				t.Errorf("history output does not contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("history markdown", func(t *testing.T) {
		out, _, err := executeCmd(t, "", "history", "--db-dir", dirs.db, "--run", "1", "--markdown")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "# Crawl Run 1") {
			t.Errorf("unexpected markdown:\n%s", out)
		}
	})
}

// TestRunCrawlCmd_Prompt tests the interactive questions.
func TestRunCrawlCmd_Prompt(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	dirs := newCrawlDirs(t, "")

	// blank URL, then the site; an unknown format, then html
	stdin := "\n" + srv.URL + "\nxml\nHTML\n"
	stdout, _, err := executeCmd(t, stdin, dirs.args("--no-history")...)
	if err != nil {
		t.Fatalf("crawl failed: %v\n%s", err, stdout)
	}

	if strings.Count(stdout, "1) Enter the base URL") != 2 {
		t.Errorf("expected the URL question twice:\n%s", stdout)
	}
	if strings.Count(stdout, "2) Choose the output format") != 2 {
		t.Errorf("expected the format question twice:\n%s", stdout)
	}

	got, err := os.ReadFile(filepath.Join(dirs.out, "home.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != testSitePages["/"] {
		t.Errorf("home.html is not the raw body:\n%s", got)
	}
	if _, err := os.Stat(filepath.Join(dirs.db, database.DBFileName)); !os.IsNotExist(err) {
		t.Errorf("history database must not be created with --no-history, stat err = %v", err)
	}
}

// TestRunCrawlCmd_PromptSkipsFormat tests that --format suppresses the format question.
func TestRunCrawlCmd_PromptSkipsFormat(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	dirs := newCrawlDirs(t, "")

	stdout, _, err := executeCmd(t, srv.URL+"\n", dirs.args("--no-history", "--format", "html", "--max-pages", "1")...)
	if err != nil {
		t.Fatalf("crawl failed: %v\n%s", err, stdout)
	}
	if strings.Contains(stdout, "2) Choose the output format") {
		t.Errorf("format question must be skipped:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(dirs.out, "home.html")); err != nil {
		t.Error(err)
	}
}

// TestRunCrawlCmd_ConfigFile tests that file values apply unless a flag is set.
func TestRunCrawlCmd_ConfigFile(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)

	t.Run("file value applies", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "maxPages: 1\nheaders:\n  X-Test: yes\n")
		stdout, _, err := executeCmd(t, "", dirs.args("--no-history", srv.URL)...)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stdout, "Crawl finished. Pages visited: 1") {
			t.Errorf("maxPages from file not applied:\n%s", stdout)
		}
	})

	t.Run("flag wins over file", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "maxPages: 1\n")
		stdout, _, err := executeCmd(t, "", dirs.args("--no-history", "--max-pages", "2", srv.URL)...)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stdout, "Crawl finished. Pages visited: 2") {
			t.Errorf("--max-pages flag should win:\n%s", stdout)
		}
	})
}

// TestRunCrawlCmd_Errors tests failures that happen before any fetch.
func TestRunCrawlCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid workers", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "")
		_, _, err := executeCmd(t, "", dirs.args("--workers", "0", "https://example.test/")...)
		if !errors.Is(err, config.ErrInvalidWorkers) {
			t.Fatalf("error = %v, want ErrInvalidWorkers", err)
		}
		if _, statErr := os.Stat(dirs.out); !os.IsNotExist(statErr) {
			t.Errorf("output directory must not be created on a config error")
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "")
		if _, _, err := executeCmd(t, "", dirs.args("--format", "xml", "https://example.test/")...); err == nil {
			t.Fatal("expected an error for an unknown format")
		}
	})

	t.Run("invalid selector", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "")
		_, _, err := executeCmd(t, "", dirs.args("--content-selector", "div[", "https://example.test/")...)
		if err == nil || !strings.Contains(err.Error(), "configuration error") {
			t.Fatalf("error = %v, want a configuration error", err)
		}
	})

	t.Run("missing explicit config", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "")
		args := []string{"crawl", "--db-dir", dirs.db, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "https://example.test/"}
		_, _, err := executeCmd(t, "", args...)
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Fatalf("error = %v, want configuration file not found", err)
		}
	})

	t.Run("prompt closed", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "")
		_, _, err := executeCmd(t, "", dirs.args()...)
		if !errors.Is(err, errPromptClosed) {
			t.Fatalf("error = %v, want errPromptClosed", err)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()

		dirs := newCrawlDirs(t, "")
		if _, _, err := executeCmd(t, "", dirs.args("https://a.test/", "https://b.test/")...); err == nil {
			t.Fatal("expected an error for two seed URLs")
		}
	})
}
