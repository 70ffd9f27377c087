package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/postharvest"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	post, err := deps.Extractor.Extract(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postharvest.ErrorMessage(err))
		return err
	}
	return writePostJSON(deps.Stdout, post)
}

func writePostJSON(w io.Writer, post *postharvest.Post) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(post)
}
