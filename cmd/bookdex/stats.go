package main

import (
	"fmt"
	"sort"

	"bookdex"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	count, err := deps.Catalog.Count(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookdex.ErrorMessage(err))
		return err
	}

	cursors, err := deps.Cursors.Cursors(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "entries: %d\n", count)

	if len(cursors) == 0 {
		return nil
	}

	sources := make([]string, 0, len(cursors))
	for source := range cursors {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	fmt.Fprintln(deps.Stdout, "sources:")
	for _, source := range sources {
		fmt.Fprintf(deps.Stdout, "  %s  cursor=%s\n", source, cursors[source])
	}

	return nil
}
