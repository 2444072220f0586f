package htmltopdf

// PageKind tells how a page source reaches wkhtmltopdf.
type PageKind int

// Page kinds.
const (
	PageURL      PageKind = iota // fetched by wkhtmltopdf
	PageFile                     // local path passed through
	PageHTML                     // inline HTML, written to a temp file
	PageMarkdown                 // inline Markdown, rendered then written to a temp file
)

func (k PageKind) String() string {
	switch k {
	case PageURL:
		return "url"
	case PageFile:
		return "file"
	case PageHTML:
		return "html"
	case PageMarkdown:
		return "markdown"
	}
	return "unknown"
}

// Page is one input document, in the order it appears in the PDF.
type Page struct {
	Kind   PageKind
	Source string // URL, path, or inline content depending on Kind

	// BaseDir resolves relative references of a Markdown page. Empty
	// leaves them as written.
	BaseDir string
}

// Inline reports whether the page must be materialized to a temp file.
func (p Page) Inline() bool {
	return p.Kind == PageHTML || p.Kind == PageMarkdown
}
