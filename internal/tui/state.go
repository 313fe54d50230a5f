package tui

import "sort"

// Action is a discrete user input the view reacts to.
type Action int

const (
	ActionNone Action = iota
	ActionFocusNext
	ActionFocusPrev
	ActionExpand
	ActionCollapse
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionFocusNext:
		return "next"
	case ActionFocusPrev:
		return "prev"
	case ActionExpand:
		return "expand"
	case ActionCollapse:
		return "collapse"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// ParseAction is the inverse of Action.String. Unknown names map to
// ActionNone.
func ParseAction(s string) Action {
	for _, a := range []Action{ActionFocusNext, ActionFocusPrev, ActionExpand, ActionCollapse, ActionQuit} {
		if a.String() == s {
			return a
		}
	}
	return ActionNone
}

// ViewState is the focus and per-item expansion over a fixed-size list.
// The focused index, when set, is always below the list size; expansion
// entries exist only for expanded items.
type ViewState struct {
	size     int
	focused  int
	hasFocus bool
	expanded map[int]bool
}

// NewViewState returns a state with nothing focused and everything
// collapsed.
func NewViewState(size int) ViewState {
	if size < 0 {
		size = 0
	}
	return ViewState{size: size, expanded: make(map[int]bool)}
}

// Len returns the size of the list the state indexes.
func (s *ViewState) Len() int { return s.size }

// Focused returns the focused index and whether anything is focused.
func (s *ViewState) Focused() (int, bool) {
	return s.focused, s.hasFocus
}

// IsFocused reports whether index i has focus.
func (s *ViewState) IsFocused(i int) bool {
	return s.hasFocus && s.focused == i
}

// IsExpanded reports whether index i is expanded. Untouched indices are
// collapsed.
func (s *ViewState) IsExpanded(i int) bool {
	return s.expanded[i]
}

// ExpandedIndices returns the expanded indices in ascending order.
func (s *ViewState) ExpandedIndices() []int {
	out := make([]int, 0, len(s.expanded))
	for i := range s.expanded {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// FocusNext moves focus down one item, wrapping from last to first. With
// nothing focused it focuses the first item.
func (s *ViewState) FocusNext() {
	if s.size == 0 {
		return
	}
	if !s.hasFocus {
		s.focused, s.hasFocus = 0, true
		return
	}
	s.focused = (s.focused + 1) % s.size
}

// FocusPrev moves focus up one item, wrapping from first to last. With
// nothing focused it focuses the last item.
func (s *ViewState) FocusPrev() {
	if s.size == 0 {
		return
	}
	if !s.hasFocus {
		s.focused, s.hasFocus = s.size-1, true
		return
	}
	s.focused = (s.focused - 1 + s.size) % s.size
}

// ExpandCurrent shows the details of the focused item. It sets, it does not
// toggle: expanding an expanded item changes nothing.
func (s *ViewState) ExpandCurrent() {
	if !s.hasFocus {
		return
	}
	if s.expanded == nil {
		s.expanded = make(map[int]bool)
	}
	s.expanded[s.focused] = true
}

// CollapseCurrent hides the details of the focused item.
func (s *ViewState) CollapseCurrent() {
	if !s.hasFocus {
		return
	}
	delete(s.expanded, s.focused)
}

// Apply performs an action and reports whether it ends the session.
func (s *ViewState) Apply(a Action) (quit bool) {
	switch a {
	case ActionFocusNext:
		s.FocusNext()
	case ActionFocusPrev:
		s.FocusPrev()
	case ActionExpand:
		s.ExpandCurrent()
	case ActionCollapse:
		s.CollapseCurrent()
	case ActionQuit:
		return true
	}
	return false
}
