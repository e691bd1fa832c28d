package mock

import "bookdex"

var _ bookdex.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of bookdex.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*bookdex.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*bookdex.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ bookdex.Converter = (*Converter)(nil)

// Converter is a mock implementation of bookdex.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
