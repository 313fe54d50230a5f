// Package report renders a diagnostic collection as a non-interactive
// report for pipes, CI logs and other tools.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aezell/chex/internal/model"
)

// Format selects the report encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name. The empty string means FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text|json|markdown|html)", s)
	}
}

// Options controls report output.
type Options struct {
	Format Format
	// Highlight colors quoted source lines in text reports.
	Highlight bool
	// Width truncates text summaries to this many cells. Zero disables.
	Width int
	// NoColor disables all escape sequences in text reports.
	NoColor bool
	// Title names the project in markdown and html headings.
	Title string
}

// Write renders c to w in the requested format.
func Write(w io.Writer, c *model.Collection, opts Options) error {
	if c.Len() == 0 {
		// A clean build prints nothing, whatever the format.
		if _, err := ParseFormat(string(opts.Format)); err != nil {
			return err
		}
		return nil
	}
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, c)
	case FormatMarkdown:
		return writeMarkdown(w, c, opts)
	case FormatHTML:
		return writeHTML(w, c, opts)
	case FormatText, "":
		return writeText(w, c, opts)
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}
