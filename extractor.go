package tenk

// ExtractResult holds the readable content of a filing page.
type ExtractResult struct {
	// Title is the document title from page metadata.
	Title string

	// ContentHTML is the filing body as HTML with scripts, styles and
	// hidden inline-XBRL header blocks removed.
	ContentHTML string
}

// Extractor extracts the readable body of a filing page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
