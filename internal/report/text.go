package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/aezell/chex/internal/model"
)

const indent = "    "

type textPrinter struct {
	w       io.Writer
	opts    Options
	errorC  *color.Color
	warnC   *color.Color
	otherC  *color.Color
	countC  *color.Color
	snippet *lipgloss.Renderer
}

func newTextPrinter(w io.Writer, opts Options) *textPrinter {
	p := &textPrinter{
		w:      w,
		opts:   opts,
		errorC: color.New(color.FgRed, color.Bold),
		warnC:  color.New(color.FgYellow, color.Bold),
		otherC: color.New(color.Bold),
		countC: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.errorC, p.warnC, p.otherC, p.countC} {
		if opts.NoColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	if opts.Highlight {
		p.snippet = lipgloss.NewRenderer(w)
		if opts.NoColor {
			p.snippet.SetColorProfile(termenv.Ascii)
		}
	}
	return p
}

// writeText prints each summary in its level color followed by the
// details, then a count line. An empty collection prints nothing.
func writeText(w io.Writer, c *model.Collection, opts Options) error {
	if c.Len() == 0 {
		return nil
	}
	p := newTextPrinter(w, opts)
	for i, r := range c.All() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := p.record(r); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", p.countC.Sprint(c.Counts().String()))
	return err
}

func (p *textPrinter) record(r model.Record) error {
	summary := r.Summary()
	if p.opts.Width > 0 {
		summary = runewidth.Truncate(summary, p.opts.Width, "…")
	}
	if _, err := fmt.Fprintln(p.w, p.colorFor(r.Category()).Sprint(summary)); err != nil {
		return err
	}

	details := r.Details()
	if p.snippet != nil {
		details = p.highlight(r.Location().File, details)
	}
	for _, d := range details {
		if _, err := fmt.Fprintln(p.w, indent+d); err != nil {
			return err
		}
	}
	return nil
}

func (p *textPrinter) colorFor(cat model.DisplayCategory) *color.Color {
	switch cat {
	case model.CategoryError:
		return p.errorC
	case model.CategoryWarning:
		return p.warnC
	default:
		return p.otherC
	}
}

// highlight colors the quoted source lines of a record. The snippet lines
// are tokenized together so multi-line constructs lex correctly.
func (p *textPrinter) highlight(file string, details []string) []string {
	var (
		positions []int
		gutters   []string
		code      []string
	)
	for i, d := range details {
		if gutter, src, ok := splitSnippet(d); ok {
			positions = append(positions, i)
			gutters = append(gutters, gutter)
			code = append(code, src)
		}
	}
	if len(code) == 0 {
		return details
	}

	out := append([]string(nil), details...)
	for j, hl := range HighlightLines(file, code) {
		var b strings.Builder
		b.WriteString(gutters[j])
		for _, tok := range hl.Tokens {
			if tok.Color == "" {
				b.WriteString(tok.Text)
				continue
			}
			b.WriteString(p.snippet.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		}
		out[positions[j]] = b.String()
	}
	return out
}
