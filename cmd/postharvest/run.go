package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/postharvest"
	"github.com/fwojciec/postharvest/crawl"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	entries, err := collectEntries(deps)
	if err != nil {
		return err
	}

	if deps.Reports != nil {
		if err := deps.Reports.WriteEntries(deps.Ctx, entries); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
			return err
		}
	}

	runner := &crawl.Runner{
		Extractor: deps.Extractor,
		Store:     deps.Store,
		Persist:   deps.Store != nil,
		RateLimit: deps.RateLimit,
		Pause:     deps.Pause,
	}

	progress := func(p crawl.Progress) {
		if p.Type == crawl.ProgressFailed {
			fmt.Fprintln(deps.Stderr, crawl.FormatProgress(p))
			return
		}
		fmt.Fprintln(deps.Stdout, crawl.FormatProgress(p))
	}

	summary, runErr := runner.Run(deps.Ctx, entries, progress)
	if summary == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(runErr))
		return runErr
	}

	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(deps.Stderr, "Interrupted, partial results:")
	}
	fmt.Fprintf(deps.Stdout, "\n%s", postharvest.FormatSummary(summary))

	if deps.Reports != nil {
		// Persisted even when the run was interrupted.
		if err := deps.Reports.WriteSummary(context.WithoutCancel(deps.Ctx), summary); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
			if runErr == nil {
				runErr = err
			}
		}
	}
	return runErr
}
