package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nao1215/sitecrawl/internal/model"
)

// indent is one indentation level of the stored records.
const indent = "  "

// JSONWriter stores the extracted record of each page as JSON indented by
// two spaces. Keys appear in the field order of model.PageRecord and
// characters such as & are not escaped.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter for an existing directory.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(dir, model.FormatStructured)}
}

// WritePage writes page.Record to <name>.json.
func (w *JSONWriter) WritePage(page *Page) (string, error) {
	if page.Record == nil {
		return "", fmt.Errorf("%s: %w", page.URL, ErrMissingRecord)
	}
	data, err := w.Marshal(page.Record)
	if err != nil {
		return "", err
	}
	return w.writeFile(page.URL, data)
}

// Marshal encodes a record the way WritePage stores it.
// The output has no trailing newline.
func (w *JSONWriter) Marshal(rec *model.PageRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("failed to encode record for %s: %w", rec.URL, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
