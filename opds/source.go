// Package opds provides a source adapter for OPDS (Atom) catalog feeds.
// Many book catalogs expose an OPDS feed; its entries already carry
// title, author, summary, and an acquisition link, so the raw text handed
// to normalization is comparatively clean.
package opds

import (
	"context"
	"net/url"
	"strings"

	"bookdex"

	"github.com/beevik/etree"
)

// acquisitionRel is the Atom link relation for a downloadable artifact.
const acquisitionRel = "http://opds-spec.org/acquisition"

// Ensure Source implements bookdex.Source at compile time.
var _ bookdex.Source = (*Source)(nil)

// Source harvests raw records from a paginated OPDS feed.
// The cursor is the URL of the next feed page, taken from the feed's own
// rel="next" link; a feed page without one is the last page.
type Source struct {
	name     string
	startURL string
	fetcher  bookdex.Fetcher
}

// NewSource creates an OPDS feed source rooted at startURL.
func NewSource(name, startURL string, fetcher bookdex.Fetcher) *Source {
	return &Source{name: name, startURL: startURL, fetcher: fetcher}
}

// Name returns the source name.
func (s *Source) Name() string {
	return s.name
}

// FetchNext fetches one feed page and yields its entries.
func (s *Source) FetchNext(ctx context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
	pageURL := cursor
	if pageURL == "" {
		pageURL = s.startURL
	}

	body, _, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, "", false, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, "", false, bookdex.Errorf(bookdex.EINVALID, "source %s returned malformed XML", s.name)
	}

	feed := doc.SelectElement("feed")
	if feed == nil {
		return nil, "", false, bookdex.Errorf(bookdex.EINVALID, "source %s returned a non-Atom document", s.name)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", false, err
	}

	var records []bookdex.RawRecord
	for _, entry := range feed.SelectElements("entry") {
		if len(records) >= bookdex.MaxBatchSize {
			break
		}
		rec, ok := s.recordFromEntry(entry, base)
		if ok {
			records = append(records, rec)
		}
		// Entries without an acquisition link are skipped.
	}

	next := nextPageURL(feed, base)
	if next == "" {
		return records, pageURL, true, nil
	}
	return records, next, false, nil
}

// recordFromEntry extracts one record from an Atom entry.
func (s *Source) recordFromEntry(entry *etree.Element, base *url.URL) (bookdex.RawRecord, bool) {
	link := ""
	for _, el := range entry.SelectElements("link") {
		if el.SelectAttrValue("rel", "") != acquisitionRel {
			continue
		}
		href := el.SelectAttrValue("href", "")
		if href == "" {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		link = base.ResolveReference(ref).String()
		break
	}
	if link == "" {
		return bookdex.RawRecord{}, false
	}

	var parts []string
	if title := elementText(entry, "title"); title != "" {
		parts = append(parts, title)
	}
	if author := entry.SelectElement("author"); author != nil {
		if name := elementText(author, "name"); name != "" {
			parts = append(parts, "by "+name)
		}
	}
	if summary := elementText(entry, "summary"); summary != "" {
		parts = append(parts, summary)
	}
	if len(parts) == 0 {
		return bookdex.RawRecord{}, false
	}

	key := elementText(entry, "id")
	if key == "" {
		key = link
	}

	return bookdex.RawRecord{
		SourceName: s.name,
		Key:        key,
		Text:       strings.Join(parts, "\n"),
		Location: bookdex.Location{
			Kind: bookdex.LocationDirect,
			URL:  link,
		},
	}, true
}

// nextPageURL returns the feed's rel="next" link resolved against the
// current page, or the empty string on the last page.
func nextPageURL(feed *etree.Element, base *url.URL) string {
	for _, el := range feed.SelectElements("link") {
		if el.SelectAttrValue("rel", "") != "next" {
			continue
		}
		href := el.SelectAttrValue("href", "")
		if href == "" {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		return base.ResolveReference(ref).String()
	}
	return ""
}

func elementText(parent *etree.Element, tag string) string {
	el := parent.SelectElement(tag)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
