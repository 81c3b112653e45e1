package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/sitecrawl/internal/model"
)

// TestNewWriter tests writer selection and directory creation.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "b")
		w, err := NewWriter(model.FormatRaw, dir)
		if err != nil {
			t.Fatalf("NewWriter() error = %v", err)
		}
		if w.Format() != model.FormatRaw {
			t.Errorf("Format() = %q", w.Format())
		}
		if w.Dir() != dir {
			t.Errorf("Dir() = %q, want %q", w.Dir(), dir)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	})

	t.Run("structured format", func(t *testing.T) {
		t.Parallel()

		w, err := NewWriter(model.FormatStructured, t.TempDir())
		if err != nil {
			t.Fatalf("NewWriter() error = %v", err)
		}
		if _, ok := w.(*JSONWriter); !ok {
			t.Errorf("expected *JSONWriter, got %T", w)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		if _, err := NewWriter(model.OutputFormat("xml"), t.TempDir()); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("directory cannot be created", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := NewWriter(model.FormatRaw, filepath.Join(file, "sub")); err == nil {
			t.Error("expected error when a file blocks the directory path")
		}
	})
}

// TestRawWriter tests raw body output.
func TestRawWriter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewRawWriter(dir)
	body := []byte("<html><body>caf\xc3\xa9</body></html>")

	path, err := w.WritePage(&Page{URL: "https://example.test/", Body: body})
	if err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if want := filepath.Join(dir, "home.html"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(body) {
		t.Errorf("file content = %q, want %q", got, body)
	}

	path, err = w.WritePage(&Page{URL: "https://example.test/a/b", Body: body})
	if err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if want := filepath.Join(dir, "a-b.html"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

// TestJSONWriter tests structured record output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("pretty prints in field order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := NewJSONWriter(dir)
		rec := model.NewPageRecord("https://example.test/")
		rec.SetTitle("Hello <World>")
		rec.Paragraphs = append(rec.Paragraphs, "a & b")
		rec.Links = append(rec.Links, "https://example.test/page2")

		path, err := w.WritePage(&Page{URL: rec.URL, Record: rec})
		if err != nil {
			t.Fatalf("WritePage() error = %v", err)
		}
		if want := filepath.Join(dir, "home.json"); path != want {
			t.Errorf("path = %q, want %q", path, want)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		want := `{
  "url": "https://example.test/",
  "title": "Hello <World>",
  "paragraphs": [
    "a & b"
  ],
  "images": [],
  "documents": [],
  "links": [
    "https://example.test/page2"
  ]
}`
		if string(got) != want {
			t.Errorf("file content =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("null title", func(t *testing.T) {
		t.Parallel()

		w := NewJSONWriter(t.TempDir())
		data, err := w.Marshal(model.NewPageRecord("https://example.test/x"))
		if err != nil {
			t.Fatal(err)
		}
		want := `{
  "url": "https://example.test/x",
  "title": null,
  "paragraphs": [],
  "images": [],
  "documents": [],
  "links": []
}`
		if string(data) != want {
			t.Errorf("Marshal() = %s, want %s", data, want)
		}
	})

	t.Run("no trailing newline", func(t *testing.T) {
		t.Parallel()

		w := NewJSONWriter(t.TempDir())
		path, err := w.WritePage(&Page{URL: "https://example.test/x", Record: model.NewPageRecord("https://example.test/x")})
		if err != nil {
			t.Fatalf("WritePage() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasSuffix(got, []byte("}")) {
			t.Errorf("file ends with %q, want a closing brace", got[len(got)-1:])
		}
	})

	t.Run("missing record", func(t *testing.T) {
		t.Parallel()

		w := NewJSONWriter(t.TempDir())
		_, err := w.WritePage(&Page{URL: "https://example.test/", Body: []byte("x")})
		if !errors.Is(err, ErrMissingRecord) {
			t.Errorf("expected ErrMissingRecord, got %v", err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()

		w := NewJSONWriter(filepath.Join(t.TempDir(), "missing"))
		_, err := w.WritePage(&Page{URL: "https://example.test/", Record: model.NewPageRecord("https://example.test/")})
		if err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
