package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCmd runs the root command with args and stdin and returns stdout and stderr.
func executeCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// testSitePages is a two-page site with a document link and a broken link.
var testSitePages = map[string]string{
	"/": `<html><head><title>Test</title></head><body>
<h1>Home</h1>
<div class="entry-content">
  <p>Welcome</p>
  <a href="/about/">About</a>
  <a href="/files/report.pdf">Report</a>
</div>
</body></html>`,
	"/about/": `<html><body>
<h1>About</h1>
<div class="entry-content">
  <p>About us</p>
  <a href="/">Home</a>
  <a href="/missing/">Missing</a>
</div>
</body></html>`,
}

// newTestSite serves testSitePages and 404 for everything else.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := testSitePages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body) //nolint:errcheck // test server
	}))
	t.Cleanup(srv.Close)
	return srv
}

// crawlDirs holds the per-test directories used by crawl commands.
type crawlDirs struct {
	out    string
	db     string
	config string
}

// newCrawlDirs creates temp directories and a config file with the given content.
// Passing the config explicitly keeps a user's ~/.sitecrawl out of the tests.
func newCrawlDirs(t *testing.T, configContent string) crawlDirs {
	t.Helper()

	root := t.TempDir()
	dirs := crawlDirs{
		out:    filepath.Join(root, "out"),
		db:     filepath.Join(root, "db"),
		config: filepath.Join(root, "sitecrawl.yaml"),
	}
	if configContent == "" {
		configContent = "workers: 1\n"
	}
	if err := os.WriteFile(dirs.config, []byte(configContent), 0o600); err != nil {
		t.Fatal(err)
	}
	return dirs
}

// args returns the flags shared by every crawl in the tests.
func (d crawlDirs) args(extra ...string) []string {
	base := []string{"crawl", "--db-dir", d.db, "--config", d.config, "--output", d.out, "--delay", "0"}
	return append(base, extra...)
}
