package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/sitecrawl/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitecrawl"

	// DefaultRequestDelay is the pause between two page fetches.
	// It is the only politeness mechanism the crawler has, so it applies
	// even when a fetch fails.
	DefaultRequestDelay = 500 * time.Millisecond

	// DefaultTimeout bounds a single HTTP request including the body read.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; sitecrawl/1.0; +https://github.com/nao1215/sitecrawl)"

	// DefaultContentSelector selects the main-content region of a page.
	// WordPress themes wrap the article body in this class.
	DefaultContentSelector = ".entry-content"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultWorkers keeps the crawl strictly sequential.
	DefaultWorkers = 1

	// DefaultMaxPages of 0 means the crawl runs until the frontier drains.
	DefaultMaxPages = 0

	// outputDirPrefix is prepended to the format name to build the default
	// output directory ("pages_html", "pages_json").
	outputDirPrefix = "pages_"
)

// Config holds all options for one crawl run.
// It is built by the CLI from flags and the optional config file, validated
// once, and then treated as immutable by the crawler.
type Config struct {
	// SeedURL is the absolute URL the crawl starts from.
	// The prompt and the crawl command make sure it ends with "/".
	SeedURL string

	// OutputFormat selects raw HTML or structured JSON output.
	OutputFormat model.OutputFormat

	// OutputDir is the directory that receives one file per saved page.
	// Empty means "pages_<ext>" in the current directory.
	OutputDir string

	// RequestDelay is the pause after each processed page.
	RequestDelay time.Duration

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// ContentSelector is the CSS selector of the main-content region used
	// by structured extraction.
	ContentSelector string

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// Workers is the number of concurrent fetch workers.
	// 1 gives strict breadth-first order; larger values relax the order.
	Workers int

	// MaxPages caps the number of visited pages. 0 means unlimited.
	MaxPages int

	// Headers are extra HTTP headers added to every request.
	Headers map[string]string

	// Verbose enables debug level diagnostics.
	Verbose bool

	// SaveHistory records the run and every visit in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	DBDir string

	// ConfigFilePath is the explicit config file path given on the command line.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputFormat:    model.FormatStructured,
		RequestDelay:    DefaultRequestDelay,
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		ContentSelector: DefaultContentSelector,
		MaxBodySize:     DefaultMaxBodySize,
		Workers:         DefaultWorkers,
		MaxPages:        DefaultMaxPages,
		Headers:         make(map[string]string),
		SaveHistory:     true,
		DBDir:           XDGDataDir(),
	}
}

// TargetDomain returns the hostname every crawled URL must belong to.
// It returns an empty string when the seed URL cannot be parsed.
func (c *Config) TargetDomain() string {
	u, err := url.Parse(c.SeedURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ResolvedOutputDir returns OutputDir, or the format-specific default.
func (c *Config) ResolvedOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return outputDirPrefix + c.OutputFormat.Extension()
}

// ApplyFile copies the values present in the config file into c.
// Values are skipped when their flag was set explicitly; changed reports
// whether a flag with the given name was set on the command line.
func (c *Config) ApplyFile(f *File, changed func(name string) bool) {
	if f == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if f.Delay != nil && !changed("delay") {
		c.RequestDelay = f.Delay.Duration
	}
	if f.Timeout != nil && !changed("timeout") {
		c.Timeout = f.Timeout.Duration
	}
	if f.UserAgent != "" && !changed("user-agent") {
		c.UserAgent = f.UserAgent
	}
	if f.ContentSelector != "" && !changed("content-selector") {
		c.ContentSelector = f.ContentSelector
	}
	if f.Workers != 0 && !changed("workers") {
		c.Workers = f.Workers
	}
	if f.MaxPages != 0 && !changed("max-pages") {
		c.MaxPages = f.MaxPages
	}
	if f.OutputDir != "" && !changed("output") {
		c.OutputDir = f.OutputDir
	}
	for k, v := range f.Headers {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[k] = v
	}
}

// XDGDataDir returns the XDG data directory for sitecrawl.
// On Linux: ~/.local/share/sitecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitecrawl.
// On Linux: ~/.config/sitecrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors in errors.go.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SeedURL) == "" {
		return ErrNoSeedURL
	}

	u, err := url.Parse(c.SeedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return ErrInvalidSeedURL
	}

	if !c.OutputFormat.Valid() {
		return ErrInvalidOutputFormat
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RequestDelay < 0 {
		return ErrInvalidDelay
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if strings.TrimSpace(c.ContentSelector) == "" {
		return ErrEmptyContentSelector
	}

	return nil
}

// PrepareSeedURL turns user input into a seed URL the crawler accepts.
// A missing http(s) scheme becomes "https://" and a trailing "/" is added.
func PrepareSeedURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s
}
