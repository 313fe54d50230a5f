package report

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/aezell/chex/internal/model"
)

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>chex: %s</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 960px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  h1 { color: #bd93f9; }
  .summary { background: #343746; padding: 16px; border-radius: 8px; margin-bottom: 24px; }
  .error { color: #ff5555; font-weight: bold; }
  .warning { color: #f1fa8c; font-weight: bold; }
  .other { font-weight: bold; }
  details { border-bottom: 1px solid #44475a; padding: 8px 0; }
  summary { cursor: pointer; }
  pre { background: #343746; padding: 12px; border-radius: 4px; overflow-x: auto; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
<h1>%s</h1>
`

// writeHTML renders one collapsible <details> element per record, so the
// page behaves like the interactive list.
func writeHTML(w io.Writer, c *model.Collection, opts Options) error {
	title := opts.Title
	if title == "" {
		title = "cargo check"
	}
	var b strings.Builder
	fmt.Fprintf(&b, htmlHead, html.EscapeString(title), html.EscapeString(title))
	fmt.Fprintf(&b, "<div class=\"summary\">%s</div>\n", html.EscapeString(c.Counts().String()))

	for _, r := range c.All() {
		fmt.Fprintf(&b, "<details><summary class=\"%s\">%s</summary>",
			categoryClass(r.Category()), html.EscapeString(r.Summary()))
		if r.DetailCount() > 0 {
			fmt.Fprintf(&b, "<pre>%s</pre>", html.EscapeString(strings.Join(r.Details(), "\n")))
		}
		b.WriteString("</details>\n")
	}

	b.WriteString("<footer>Generated by <strong>chex</strong></footer>\n</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func categoryClass(cat model.DisplayCategory) string {
	switch cat {
	case model.CategoryError:
		return "error"
	case model.CategoryWarning:
		return "warning"
	default:
		return "other"
	}
}
