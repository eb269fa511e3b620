package cursor

// Selection is a range of text anchored at Mark with the movable end
// at Cursor. When Cursor == Mark the selection is a bare cursor with
// no extent.
type Selection struct {
	Cursor Cursor
	Mark   Cursor
}

// NewSelection creates a collapsed selection at the given position.
func NewSelection(at Cursor) Selection {
	return Selection{Cursor: at, Mark: at}
}

// InOrder returns the selection bounds as (min, max) by cursor
// ordering. Equal cursor and mark yield a zero-width pair.
func (s Selection) InOrder() (Cursor, Cursor) {
	if s.Cursor.Before(s.Mark) {
		return s.Cursor, s.Mark
	}
	return s.Mark, s.Cursor
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Cursor == s.Mark
}

// Collapse returns a selection collapsed to its cursor end.
func (s Selection) Collapse() Selection {
	return Selection{Cursor: s.Cursor, Mark: s.Cursor}
}
