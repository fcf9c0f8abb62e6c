package tenk

// Converter converts filing HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be the filing body returned by an Extractor.
	Convert(html string) (string, error)
}
