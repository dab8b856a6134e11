package main

import (
	"fmt"

	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/crawl"
)

// Width of URLs in progress lines.
const progressURLWidth = 60

// Run reads every URL and reports progress and a summary on stderr.
func (c *ReadCmd) Run(deps *Dependencies) error {
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n",
				crawl.TruncateURL(event.URL, progressURLWidth), readtext.ErrorMessage(event.Error))
		case crawl.ProgressCompleted:
			if event.Error != nil {
				fmt.Fprintf(deps.Stderr, "  partial %s: %s\n",
					crawl.TruncateURL(event.URL, progressURLWidth), readtext.ErrorMessage(event.Error))
			}
		}
	}

	result, err := deps.Batch.Run(deps.Ctx, c.URLs, progress)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stderr, "Read %d URLs: %s\n", len(c.URLs), crawl.FormatResult(result))

	if result.Saved == 0 && result.Failed > 0 {
		return fmt.Errorf("no articles read")
	}
	return nil
}
