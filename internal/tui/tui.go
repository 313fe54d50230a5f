// Package tui implements the interactive diagnostic viewer on Bubble Tea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aezell/chex/internal/model"
)

// Options configures the viewer.
type Options struct {
	// Title is shown in the header, usually the crate name.
	Title string
	// Renderer fixes the color profile. Nil uses the default renderer.
	Renderer *lipgloss.Renderer
}

// Model is the Bubble Tea model for the diagnostic viewer.
type Model struct {
	records *model.Collection
	state   ViewState
	styles  Styles
	keys    keyMap
	help    help.Model
	title   string

	width  int
	height int

	// List viewport
	scrollOffset int
	viewHeight   int
}

// New creates a viewer over a collection. Nothing is focused and every
// record starts collapsed.
func New(c *model.Collection, opts Options) Model {
	styles := NewStyles(opts.Renderer)
	h := help.New()
	h.Styles = styles.Help
	title := opts.Title
	if title == "" {
		title = "chex"
	}
	return Model{
		records: c,
		state:   NewViewState(c.Len()),
		styles:  styles,
		keys:    keys,
		help:    h,
		title:   title,
	}
}

// State returns the current focus and expansion.
func (m Model) State() *ViewState { return &m.state }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 2 // header + help bar
		if m.viewHeight < 1 {
			m.viewHeight = 1
		}
		m.help.Width = msg.Width
		m.scrollToFocus()

	case tea.KeyMsg:
		if m.state.Apply(m.keys.action(msg)) {
			return m, tea.Quit
		}
		m.scrollToFocus()
	}
	return m, nil
}

// scrollToFocus keeps the focused record on screen, preferring its summary
// when the record is taller than the viewport.
func (m *Model) scrollToFocus() {
	idx, ok := m.state.Focused()
	if !ok || m.viewHeight == 0 {
		return
	}
	lines, offsets := renderList(m.records, &m.state, m.styles)
	top := offsets[idx] - 1 // separator line
	if m.viewHeight < 2 {
		top = offsets[idx]
	}
	bottom := offsets[idx]
	if m.state.IsExpanded(idx) {
		bottom += m.records.At(idx).DetailCount()
	}

	if bottom >= m.scrollOffset+m.viewHeight {
		m.scrollOffset = bottom - m.viewHeight + 1
	}
	if top < m.scrollOffset || offsets[idx] >= m.scrollOffset+m.viewHeight {
		m.scrollOffset = top
	}
	if limit := len(lines) - m.viewHeight; m.scrollOffset > limit {
		m.scrollOffset = limit
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	lines, _ := renderList(m.records, &m.state, m.styles)
	if m.height == 0 {
		// No size yet: render the whole list.
		return m.renderHeader() + "\n" + strings.Join(lines, "\n")
	}

	end := m.scrollOffset + m.viewHeight
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[min(m.scrollOffset, end):end]
	for len(visible) < m.viewHeight {
		visible = append(visible, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		strings.Join(visible, "\n"),
		m.help.View(m.keys),
	)
}

func (m Model) renderHeader() string {
	counts := m.records.Counts().String()
	return m.styles.Header.Render(m.title) + "  " + m.styles.Count.Render(counts)
}

// Run shows the viewer until the user quits or ctx is canceled. The
// terminal is restored on every exit path.
func Run(ctx context.Context, c *model.Collection, opts Options) error {
	m := New(c, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
