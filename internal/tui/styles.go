package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/aezell/chex/internal/model"
)

// Color palette. Basic ANSI colors so the terminal theme decides the shade.
var (
	colorRed    = lipgloss.Color("1")
	colorYellow = lipgloss.Color("3")
	colorDim    = lipgloss.Color("8")
)

// Styles holds every style the view renders with. Styles are bound to a
// renderer so the color profile can be forced for tests and --no-color.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Neutral lipgloss.Style

	Header lipgloss.Style
	Count  lipgloss.Style
	Help   help.Styles
}

// NewStyles builds the styles for a renderer. A nil renderer means the
// default one, which detects the profile from stdout.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	key := r.NewStyle().Foreground(colorYellow)
	dim := r.NewStyle().Foreground(colorDim)
	return Styles{
		Error: r.NewStyle().
			Bold(true).
			Foreground(colorRed),

		Warning: r.NewStyle().
			Bold(true).
			Foreground(colorYellow),

		Neutral: r.NewStyle().
			Bold(true),

		Header: r.NewStyle().
			Bold(true),

		Count: dim,

		Help: help.Styles{
			Ellipsis:       dim,
			ShortKey:       key,
			ShortDesc:      dim,
			ShortSeparator: dim,
			FullKey:        key,
			FullDesc:       dim,
			FullSeparator:  dim,
		},
	}
}

// PlainStyles renders without any escape sequences.
func PlainStyles() Styles {
	return NewStyles(NewRenderer(io.Discard, termenv.Ascii))
}

// NewRenderer returns a lipgloss renderer writing to w with a fixed color
// profile.
func NewRenderer(w io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return r
}

// Summary returns the style of a summary line for a display category.
// Focused summaries are additionally underlined.
func (s Styles) Summary(cat model.DisplayCategory, focused bool) lipgloss.Style {
	var st lipgloss.Style
	switch cat {
	case model.CategoryError:
		st = s.Error
	case model.CategoryWarning:
		st = s.Warning
	default:
		st = s.Neutral
	}
	if focused {
		st = st.Underline(true)
	}
	return st
}
