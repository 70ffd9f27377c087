package main

import (
	"fmt"

	"github.com/fwojciec/postharvest"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	keys, err := deps.Archive.PostKeys(deps.Ctx, 0, 0)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return err
	}
	entries, err := deps.Archive.ReadEntries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Posts saved: %d\n", len(keys))
	fmt.Fprintf(deps.Stdout, "URLs discovered: %d\n", len(entries))

	summary, err := deps.Archive.LatestSummary(deps.Ctx)
	if postharvest.ErrorCode(err) == postharvest.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "\nNo runs recorded")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nLast run:\n%s", postharvest.FormatSummary(summary))
	return nil
}

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if c.Limit < 0 || c.Offset < 0 {
		err := postharvest.Errorf(postharvest.EINVALID, "--limit and --offset must not be negative")
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return err
	}

	keys, err := deps.Archive.PostKeys(deps.Ctx, c.Limit, c.Offset)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return err
	}
	for _, key := range keys {
		fmt.Fprintln(deps.Stdout, key)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	post, err := deps.Archive.ReadPost(deps.Ctx, c.Slug)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return err
	}
	return writePostJSON(deps.Stdout, post)
}
