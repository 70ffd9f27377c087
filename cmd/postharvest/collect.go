package main

import (
	"fmt"

	"github.com/fwojciec/postharvest"
)

// Run executes the collect command.
func (c *CollectCmd) Run(deps *Dependencies) error {
	entries, err := collectEntries(deps)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(deps.Stdout, "%d\t%s\t%s\n", e.Year, e.URL, e.Title)
	}

	if deps.Reports != nil {
		if err := deps.Reports.WriteEntries(deps.Ctx, entries); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
			return err
		}
	}
	return nil
}

// collectEntries discovers and filters the post entries. An empty result
// is an error: nothing downstream can succeed without entries.
func collectEntries(deps *Dependencies) ([]postharvest.SitemapEntry, error) {
	entries, err := deps.Collector.Collect(deps.Ctx, deps.Years)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return nil, err
	}

	entries = postharvest.FilterEntries(entries, deps.Filter)
	if len(entries) == 0 {
		err := postharvest.Errorf(postharvest.ENOTFOUND, "no posts left after filtering")
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return nil, err
	}

	fmt.Fprintf(deps.Stderr, "Found %d posts\n", len(entries))
	return entries, nil
}
