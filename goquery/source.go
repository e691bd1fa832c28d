// Package goquery provides a selector-driven web listing source adapter.
// It walks numbered listing pages of a book site and yields one raw record
// per listing card. The CSS selectors are configuration, not code, so the
// adapter itself stays independent of any particular site's markup.
package goquery

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bookdex"

	"github.com/PuerkitoBio/goquery"
)

// Selectors configures how records are located on a listing page.
type Selectors struct {
	// Record selects one listing card.
	Record string

	// Title selects the title element within a card.
	Title string

	// Link selects the anchor within a card whose href points at the
	// record's artifact or detail page.
	Link string
}

// DetailPipeline turns a record's detail page into clean prompt text:
// the extractor strips boilerplate, the converter renders the remaining
// content as markdown.
type DetailPipeline struct {
	Extractor bookdex.Extractor
	Converter bookdex.Converter
}

// Ensure Source implements bookdex.Source at compile time.
var _ bookdex.Source = (*Source)(nil)

// Source harvests raw records from numbered listing pages.
// The cursor is the last fetched page number; an empty page signals
// exhaustion. Batches are page-granular: a page with more records than
// MaxBatchSize is rejected rather than truncated, because the cursor
// cannot resume in the middle of a page.
type Source struct {
	name      string
	pageURL   string // printf pattern with one %d verb for the page number
	selectors Selectors
	fetcher   bookdex.Fetcher
	detail    *DetailPipeline
}

// Option configures a Source.
type Option func(*Source)

// WithDetailPipeline makes the source fetch each record's detail page and
// run it through the pipeline to produce richer text for normalization.
// Without it the record text is the listing card's text.
func WithDetailPipeline(extractor bookdex.Extractor, converter bookdex.Converter) Option {
	return func(s *Source) {
		s.detail = &DetailPipeline{Extractor: extractor, Converter: converter}
	}
}

// NewSource creates a listing-page source. pageURL must contain one %d
// verb that receives the 1-based page number.
func NewSource(name, pageURL string, selectors Selectors, fetcher bookdex.Fetcher, opts ...Option) *Source {
	s := &Source{
		name:      name,
		pageURL:   pageURL,
		selectors: selectors,
		fetcher:   fetcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name.
func (s *Source) Name() string {
	return s.name
}

// FetchNext fetches the page after cursor and yields its records.
func (s *Source) FetchNext(ctx context.Context, cursor string) ([]bookdex.RawRecord, string, bool, error) {
	page := 1
	if cursor != "" {
		last, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", false, bookdex.Errorf(bookdex.EINVALID, "malformed cursor %q for source %s", cursor, s.name)
		}
		page = last + 1
	}

	pageURL := fmt.Sprintf(s.pageURL, page)
	body, _, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, "", false, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, "", false, fmt.Errorf("parsing page %d of %s: %w", page, s.name, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", false, err
	}

	cards := doc.Find(s.selectors.Record)
	if cards.Length() > bookdex.MaxBatchSize {
		// The page-number cursor cannot resume mid-page, so truncating
		// here would silently drop the overflow forever.
		return nil, "", false, bookdex.Errorf(bookdex.EINVALID,
			"page %d of %s has %d records, more than one batch can carry", page, s.name, cards.Length())
	}

	var records []bookdex.RawRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		rec, ok := s.recordFromCard(ctx, card, base)
		if ok {
			records = append(records, rec)
		}
		// A malformed card is skipped; the batch continues.
	})

	next := strconv.Itoa(page)
	exhausted := cards.Length() == 0
	return records, next, exhausted, nil
}

// recordFromCard extracts one record from a listing card. Returns false
// if the card is missing its link, the one field a record cannot exist
// without.
func (s *Source) recordFromCard(ctx context.Context, card *goquery.Selection, base *url.URL) (bookdex.RawRecord, bool) {
	href, ok := card.Find(s.selectors.Link).First().Attr("href")
	if !ok || href == "" {
		return bookdex.RawRecord{}, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return bookdex.RawRecord{}, false
	}
	link := base.ResolveReference(ref).String()

	title := squashSpace(card.Find(s.selectors.Title).First().Text())
	text := squashSpace(card.Text())
	if s.detail != nil {
		if detailText, err := s.detailText(ctx, link); err == nil && detailText != "" {
			text = detailText
		}
	}
	if title != "" && !strings.Contains(text, title) {
		text = title + "\n" + text
	}

	return bookdex.RawRecord{
		SourceName: s.name,
		Key:        link,
		Text:       text,
		Location: bookdex.Location{
			Kind: bookdex.LocationDirect,
			URL:  link,
		},
	}, true
}

// detailText fetches a record's detail page and reduces it to markdown.
func (s *Source) detailText(ctx context.Context, link string) (string, error) {
	body, _, err := s.fetcher.Fetch(ctx, link)
	if err != nil {
		return "", err
	}
	extracted, err := s.detail.Extractor.Extract(string(body))
	if err != nil {
		return "", err
	}
	markdown, err := s.detail.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return "", err
	}
	if extracted.Title != "" {
		return extracted.Title + "\n\n" + markdown, nil
	}
	return markdown, nil
}

func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
