package bookdex

// ExtractResult holds the content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML, with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Web sources run detail pages through an Extractor before handing the
// text to the Normalizer, so the model sees prose instead of markup soup.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown. Used to turn extracted content
// into prompt-friendly text.
type Converter interface {
	Convert(html string) (string, error)
}
