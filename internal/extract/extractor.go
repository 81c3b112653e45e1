package extract

import (
	"strings"

	"github.com/nao1215/sitecrawl/internal/canonical"
	"github.com/nao1215/sitecrawl/internal/model"
)

// documentExtensions are the suffixes that mark an anchor as a document link.
// The match is case-sensitive and done on the href as written in the page.
// Document links go to PageRecord.Documents and are never crawled.
var documentExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx"}

// Extractor builds page records for one crawl target.
type Extractor struct {
	normalizer      canonical.Normalizer
	contentSelector string
}

// NewExtractor returns an Extractor that keeps links on the normalizer's host
// and reads article content from the region matched by contentSelector.
func NewExtractor(normalizer canonical.Normalizer, contentSelector string) *Extractor {
	return &Extractor{
		normalizer:      normalizer,
		contentSelector: contentSelector,
	}
}

// Extract builds the record of the page at pageURL.
// pageURL must be the canonical URL the page was fetched from.
func (e *Extractor) Extract(doc Document, pageURL string) *model.PageRecord {
	rec := model.NewPageRecord(pageURL)
	rec.SetTitle(strings.TrimSpace(doc.Find("h1").First().Text()))

	content := doc.Find(e.contentSelector)

	content.Find("p").Each(func(p Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			rec.Paragraphs = append(rec.Paragraphs, text)
		}
	})

	content.Find("img").Each(func(img Selection) {
		src, _ := img.Attr("src")
		if u, ok := e.resolveAsset(src, pageURL); ok {
			rec.Images = append(rec.Images, u)
		}
	})

	content.Find("a").Each(func(a Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		// A document link is listed once, under Documents. A page linking
		// page2 and a PDF has links = [page2].
		if isDocumentHref(href) {
			if u, ok := e.resolveAsset(href, pageURL); ok {
				rec.Documents = append(rec.Documents, u)
			}
			return
		}
		if u, ok := e.normalizer.Normalize(href, pageURL); ok {
			rec.Links = append(rec.Links, u)
		}
	})

	return rec
}

// resolveAsset resolves image and document references.
// Same-host references are normalized; anything else falls back to plain
// resolution against the page so that CDN hosted assets are kept.
func (e *Extractor) resolveAsset(ref, pageURL string) (string, bool) {
	if strings.TrimSpace(ref) == "" {
		return "", false
	}
	if u, ok := e.normalizer.Normalize(ref, pageURL); ok {
		return u, true
	}
	return canonical.Resolve(ref, pageURL)
}

func isDocumentHref(href string) bool {
	for _, ext := range documentExtensions {
		if strings.HasSuffix(href, ext) {
			return true
		}
	}
	return false
}

// PageLinks returns the canonical same-host targets of every anchor in the
// document, in document order. Duplicates are kept. Document links are
// skipped, so a page linking page2 and a PDF queues only page2.
func PageLinks(doc Document, normalizer canonical.Normalizer, pageURL string) []string {
	links := make([]string, 0)
	doc.Find("a").Each(func(a Selection) {
		href, ok := a.Attr("href")
		if !ok || isDocumentHref(href) {
			return
		}
		if u, ok := normalizer.Normalize(href, pageURL); ok {
			links = append(links, u)
		}
	})
	return links
}
