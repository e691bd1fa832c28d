package main

import (
	"fmt"
	"os"

	"bookdex"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	entry, err := deps.Catalog.FindByTitle(deps.Ctx, c.Title)
	if err != nil {
		if bookdex.ErrorCode(err) == bookdex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no entry titled %q. Use 'bookdex find' to locate one.\n", c.Title)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", bookdex.ErrorMessage(err))
		}
		return err
	}

	artifact, err := deps.Deliver.Deliver(deps.Ctx, entry)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bookdex.ErrorMessage(err))
		return err
	}

	if artifact.Forwarded {
		// The forwarder already reported the re-emission request.
		return nil
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, artifact.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %q: %w", c.Output, err)
		}
		fmt.Fprintf(deps.Stdout, "wrote %d bytes (%s) to %s\n", len(artifact.Data), artifact.ContentType, c.Output)
		return nil
	}

	if _, err := deps.Stdout.Write(artifact.Data); err != nil {
		return err
	}
	return nil
}
