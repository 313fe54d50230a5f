package tui

import (
	"strings"

	"github.com/aezell/chex/internal/model"
)

// indent prefixes every rendered line. Spaces, not a tab, so the width is
// the same in every terminal and in the frame diffing of the renderer.
const indent = "    "

// Render produces one frame of the diagnostic list. Each record contributes
// a blank separator line and its styled summary; an expanded record is
// followed by its detail lines, unstyled and in their original order.
func Render(c *model.Collection, s *ViewState, st Styles) string {
	frame, _ := renderList(c, s, st)
	return strings.Join(frame, "\n")
}

// renderList returns the frame lines and, for each record, the index of
// its summary line within the frame.
func renderList(c *model.Collection, s *ViewState, st Styles) ([]string, []int) {
	n := c.Len()
	lines := make([]string, 0, 2*n)
	offsets := make([]int, n)

	for i := 0; i < n; i++ {
		rec := c.At(i)
		lines = append(lines, "")

		offsets[i] = len(lines)
		style := st.Summary(rec.Category(), s.IsFocused(i))
		lines = append(lines, indent+style.Render(rec.Summary()))

		if s.IsExpanded(i) {
			for _, d := range rec.Details() {
				lines = append(lines, indent+d)
			}
		}
	}
	return lines, offsets
}
