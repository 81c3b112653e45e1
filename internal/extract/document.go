package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html/charset"
)

// Selection is an ordered set of elements matched in a Document.
type Selection interface {
	// Find returns the descendants of the selection matching a CSS selector.
	Find(selector string) Selection
	// First reduces the selection to its first element.
	First() Selection
	// Each calls fn for every element in document order.
	Each(fn func(Selection))
	// Text returns the combined text of the elements and their descendants.
	Text() string
	// Attr returns the attribute of the first element.
	Attr(name string) (string, bool)
	// Len returns the number of elements.
	Len() int
}

// Document is a parsed HTML page.
type Document interface {
	// Find returns all elements of the page matching a CSS selector.
	Find(selector string) Selection
}

// Parse decodes body according to contentType and parses it as HTML.
// Bodies that are not UTF-8 are converted using the charset named in the
// Content-Type header or in a <meta> element.
func Parse(body []byte, contentType string) (Document, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}
	return ParseReader(r)
}

// ParseReader parses UTF-8 HTML from r.
func ParseReader(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return goqueryDocument{doc: doc}, nil
}

// ValidateSelector reports whether selector is a valid CSS selector group.
// goquery silently matches nothing for an invalid selector, so user supplied
// selectors are checked up front.
func ValidateSelector(selector string) error {
	if _, err := cascadia.Compile(selector); err != nil {
		return fmt.Errorf("invalid CSS selector %q: %w", selector, err)
	}
	return nil
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d goqueryDocument) Find(selector string) Selection {
	return goquerySelection{sel: d.doc.Find(selector)}
}

type goquerySelection struct {
	sel *goquery.Selection
}

func (s goquerySelection) Find(selector string) Selection {
	return goquerySelection{sel: s.sel.Find(selector)}
}

func (s goquerySelection) First() Selection {
	return goquerySelection{sel: s.sel.First()}
}

func (s goquerySelection) Each(fn func(Selection)) {
	s.sel.Each(func(_ int, el *goquery.Selection) {
		fn(goquerySelection{sel: el})
	})
}

func (s goquerySelection) Text() string {
	return s.sel.Text()
}

func (s goquerySelection) Attr(name string) (string, bool) {
	return s.sel.Attr(name)
}

func (s goquerySelection) Len() int {
	return s.sel.Length()
}
