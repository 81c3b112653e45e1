package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/sitecrawl/internal/canonical"
	"github.com/nao1215/sitecrawl/internal/model"
)

const (
	// dirPerm is the permission of the output directory.
	dirPerm = 0o755

	// filePerm is the permission of every written page file.
	filePerm = 0o644
)

// ErrMissingRecord is returned by JSONWriter when a page has no record.
var ErrMissingRecord = errors.New("page has no extracted record")

// Page is one fetched page handed to a Writer.
type Page struct {
	// URL is the canonical URL the page was fetched from.
	URL string

	// Body is the unmodified response body.
	Body []byte

	// Record is the extracted content. It is only set in structured mode.
	Record *model.PageRecord
}

// Writer persists crawled pages.
// Implementations must be safe for concurrent use by multiple crawl workers.
type Writer interface {
	// WritePage stores one page and returns the path of the written file.
	WritePage(page *Page) (string, error)

	// Format returns the output format the writer produces.
	Format() model.OutputFormat

	// Dir returns the output directory.
	Dir() string
}

// NewWriter creates the output directory if needed and returns the writer
// for the given format.
func NewWriter(format model.OutputFormat, dir string) (Writer, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	switch format {
	case model.FormatRaw:
		return NewRawWriter(dir), nil
	case model.FormatStructured:
		return NewJSONWriter(dir), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// baseWriter holds what every file writer shares.
type baseWriter struct {
	dir    string
	format model.OutputFormat
}

// newBaseWriter creates a baseWriter for dir and format.
func newBaseWriter(dir string, format model.OutputFormat) baseWriter {
	return baseWriter{dir: dir, format: format}
}

// Format returns the output format.
func (b baseWriter) Format() model.OutputFormat {
	return b.format
}

// Dir returns the output directory.
func (b baseWriter) Dir() string {
	return b.dir
}

// PathFor returns the file path the page at pageURL is written to.
func (b baseWriter) PathFor(pageURL string) string {
	return filepath.Join(b.dir, canonical.FileName(pageURL)+"."+b.format.Extension())
}

// writeFile writes data to the path of pageURL.
func (b baseWriter) writeFile(pageURL string, data []byte) (string, error) {
	path := b.PathFor(pageURL)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
