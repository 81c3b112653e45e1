package model

// PageRecord is the structured output for one successfully fetched page.
// It is created once per page, serialized immediately and then dropped.
//
// Field order is the order of the JSON output and must not change:
// url, title, paragraphs, images, documents, links.
type PageRecord struct {
	// URL is the canonical URL of the page.
	URL string `json:"url"`

	// Title is the text of the first <h1>, trimmed.
	// Nil when the page has no heading or the heading is empty; it is
	// serialized as null in that case.
	Title *string `json:"title"`

	// Paragraphs holds the non-empty, trimmed texts of the paragraphs in the
	// main-content region, in document order.
	Paragraphs []string `json:"paragraphs"`

	// Images holds the absolute URLs of the images in the main-content region.
	// Images may point to another host.
	Images []string `json:"images"`

	// Documents holds the absolute URLs of links to office documents
	// (pdf, doc, docx, xls, xlsx) in the main-content region.
	Documents []string `json:"documents"`

	// Links holds the canonical same-host URLs linked from the main-content region.
	Links []string `json:"links"`
}

// NewPageRecord creates an empty record for the given canonical URL.
// All lists are non-nil so they serialize as [] rather than null.
func NewPageRecord(url string) *PageRecord {
	return &PageRecord{
		URL:        url,
		Paragraphs: make([]string, 0),
		Images:     make([]string, 0),
		Documents:  make([]string, 0),
		Links:      make([]string, 0),
	}
}

// SetTitle sets the title, leaving it nil for an empty string.
func (p *PageRecord) SetTitle(title string) {
	if title == "" {
		p.Title = nil
		return
	}
	p.Title = &title
}

// TitleText returns the title or an empty string when there is none.
func (p *PageRecord) TitleText() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}
