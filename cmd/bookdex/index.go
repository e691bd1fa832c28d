package main

import (
	"fmt"
	"log/slog"

	"bookdex"
	"bookdex/goquery"
	"bookdex/htmltomarkdown"
	bookhttp "bookdex/http"
	"bookdex/ingest"
	"bookdex/opds"
	bookslog "bookdex/slog"
	"bookdex/trafilatura"
)

// crawlRatePerSecond bounds requests per source domain during ingestion.
const crawlRatePerSecond = 1.0

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fetcher := bookhttp.NewFetcher(
		bookhttp.WithDomainLimiter(bookhttp.NewDomainLimiter(crawlRatePerSecond)),
	)
	defer fetcher.Close()

	var source bookdex.Source
	switch c.Kind {
	case "opds":
		source = opds.NewSource(c.Name, c.URL, fetcher)
	default:
		var opts []goquery.Option
		if c.Detail {
			opts = append(opts, goquery.WithDetailPipeline(
				trafilatura.NewExtractor(),
				htmltomarkdown.NewConverter(),
			))
		}
		source = goquery.NewSource(c.Name, c.URL, goquery.Selectors{
			Record: c.Record,
			Title:  c.Title,
			Link:   c.Link,
		}, fetcher, opts...)
	}

	ingestor := &ingest.Ingestor{
		Source:      bookslog.NewLoggingSource(source, logger),
		Normalizer:  deps.Normalizer,
		Catalog:     deps.Catalog,
		Cursors:     deps.Cursors,
		Pacer:       ingest.NewUniformPacer(0, 0),
		Concurrency: c.Concurrency,
		MaxBatches:  c.Pages,
		Logger:      logger,
	}

	result, err := ingestor.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %d batches, %d fetched, %d indexed, %d duplicates, %d unreadable\n",
		c.Name, result.Batches, result.Fetched, result.Inserted, result.Duplicates, result.Fallbacks)
	if !result.Exhausted {
		fmt.Fprintf(deps.Stdout, "more pages remain; rerun 'bookdex index %s %s' to continue\n", c.Name, c.URL)
	}

	return nil
}
