package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aezell/chex/internal/model"
)

func writeMarkdown(w io.Writer, c *model.Collection, opts Options) error {
	var b strings.Builder
	b.WriteString("## Diagnostics")
	if opts.Title != "" {
		fmt.Fprintf(&b, ": %s", opts.Title)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**%s**\n\n", c.Counts())
	b.WriteString("| Level | Code | Location | Message |\n")
	b.WriteString("|-------|------|----------|---------|\n")
	for _, r := range c.All() {
		code := ""
		if r.HasCode() {
			code = "`" + r.Code() + "`"
		}
		loc := ""
		if l := r.Location(); !l.IsZero() {
			loc = "`" + l.String() + "`"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Level(), code, loc, escapeCell(r.Message()))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// escapeCell keeps a message inside a single table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
