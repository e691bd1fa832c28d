package main

import (
	"fmt"
	"strings"

	"bookdex"
)

// Run executes the find command.
func (c *FindCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	title, err := deps.Resolver.Resolve(deps.Ctx, query)
	if err != nil {
		if bookdex.ErrorCode(err) == bookdex.ENOTFOUND {
			fmt.Fprintln(deps.Stdout, "No catalog entry matches that request.")
			return nil
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookdex.ErrorMessage(err))
		return err
	}

	entry, err := deps.Catalog.FindByTitle(deps.Ctx, title)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s\n", entry.Title)
	fmt.Fprintf(deps.Stdout, "by %s\n", entry.Author)
	if entry.Summary != "" {
		fmt.Fprintf(deps.Stdout, "\n%s\n", entry.Summary)
	}
	fmt.Fprintf(deps.Stdout, "\nsource: %s\n", entry.SourceName)
	switch entry.Location.Kind {
	case bookdex.LocationDirect:
		fmt.Fprintf(deps.Stdout, "link: %s\n", entry.Location.URL)
	case bookdex.LocationArchive:
		fmt.Fprintf(deps.Stdout, "archive: %s record %d\n", entry.Location.SourceID, entry.Location.RecordID)
	}

	return nil
}
