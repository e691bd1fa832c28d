package main

import (
	"context"
	"io"
	"log/slog"

	"bookdex"
	"bookdex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Catalog  bookdex.CatalogService
	Cursors  bookdex.CursorService
	Resolver bookdex.Resolver
	Deliver  bookdex.Deliverer

	// Normalizer is wired for the index command.
	Normalizer bookdex.Normalizer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log progress to stderr"`

	Index IndexCmd `cmd:"" help:"Ingest a source into the catalog"`
	Find  FindCmd  `cmd:"" help:"Find a catalog entry from a free-form request"`
	Get   GetCmd   `cmd:"" help:"Deliver the artifact for a catalog entry"`
	Stats StatsCmd `cmd:"" help:"Show catalog size and ingestion positions"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Name string `arg:"" help:"Source name (also the cursor key)"`
	URL  string `arg:"" help:"Listing page URL pattern with %d, or OPDS feed URL"`

	Kind        string `default:"web" enum:"web,opds" help:"Source kind: web or opds"`
	Record      string `default:".book-card" help:"CSS selector for one record (web)"`
	Title       string `default:".book-title" help:"CSS selector for the record title (web)"`
	Link        string `default:"a" help:"CSS selector for the record link (web)"`
	Detail      bool   `help:"Fetch and extract each record's detail page (web)"`
	Pages       int    `short:"n" default:"0" help:"Stop after this many pages (0 = until exhausted)"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent normalization limit"`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	Query []string `arg:"" help:"Free-form description of the book"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Title  string `arg:"" help:"Exact catalog title"`
	Output string `short:"o" help:"Write a fetched artifact to this file instead of stdout"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
