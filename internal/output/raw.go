package output

import "github.com/nao1215/sitecrawl/internal/model"

// RawWriter stores the response body of each page unchanged.
type RawWriter struct {
	baseWriter
}

// NewRawWriter creates a RawWriter for an existing directory.
func NewRawWriter(dir string) *RawWriter {
	return &RawWriter{baseWriter: newBaseWriter(dir, model.FormatRaw)}
}

// WritePage writes page.Body to <name>.html.
func (w *RawWriter) WritePage(page *Page) (string, error) {
	return w.writeFile(page.URL, page.Body)
}
