package tui

// Item is one row of a multi-select prompt.
type Item struct {
	Label string
	// Hint is rendered dimmed after the label.
	Hint string
	// Disabled items are shown but can never be selected.
	Disabled bool
	// Selected is the initial check state.
	Selected bool
}

// Selection is the state behind a multi-select prompt: the items, their
// check marks and the cursor.
type Selection struct {
	items   []Item
	checked []bool
	cursor  int
}

// NewSelection builds a selection with the initial check state of items.
// Disabled items start unchecked.
func NewSelection(items []Item) *Selection {
	s := &Selection{
		items:   append([]Item(nil), items...),
		checked: make([]bool, len(items)),
	}
	for i, item := range items {
		s.checked[i] = item.Selected && !item.Disabled
	}
	return s
}

// Len returns the number of items.
func (s *Selection) Len() int {
	return len(s.items)
}

// Item returns the item at index i.
func (s *Selection) Item(i int) Item {
	return s.items[i]
}

// Checked reports whether the item at index i is checked.
func (s *Selection) Checked(i int) bool {
	return s.checked[i]
}

// Cursor returns the index of the highlighted item.
func (s *Selection) Cursor() int {
	return s.cursor
}

// SetCursor moves the cursor to i, clamped to the item range.
func (s *Selection) SetCursor(i int) {
	if len(s.items) == 0 {
		s.cursor = 0
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.items) {
		i = len(s.items) - 1
	}
	s.cursor = i
}

// Move shifts the cursor by delta, wrapping around the ends.
func (s *Selection) Move(delta int) {
	n := len(s.items)
	if n == 0 {
		return
	}
	s.cursor = ((s.cursor+delta)%n + n) % n
}

// Toggle flips the item under the cursor.
func (s *Selection) Toggle() {
	s.ToggleAt(s.cursor)
}

// ToggleAt flips the item at index i unless it is disabled.
func (s *Selection) ToggleAt(i int) {
	if i < 0 || i >= len(s.items) || s.items[i].Disabled {
		return
	}
	s.checked[i] = !s.checked[i]
}

// ToggleAll checks every enabled item, or clears them all when they are
// already checked.
func (s *Selection) ToggleAll() {
	all := true
	for i, item := range s.items {
		if !item.Disabled && !s.checked[i] {
			all = false
			break
		}
	}
	for i, item := range s.items {
		if !item.Disabled {
			s.checked[i] = !all
		}
	}
}

// Selected returns the indices of the checked items in order.
func (s *Selection) Selected() []int {
	var out []int
	for i, ok := range s.checked {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
