// Package cursor provides the positional primitives shared by the
// storage, history, viewport and protocol layers: a row/column Cursor
// and a Selection anchored by a mark.
//
// Columns count bytes. Every component of the engine uses the same
// unit; mixing byte and rune columns corrupts positions on multi-byte
// characters.
package cursor

import "fmt"

// Cursor is a position in a buffer: zero-based row and byte column.
// Cursors are ordered lexicographically by (row, column).
type Cursor struct {
	Row    int
	Column int
}

// Compare returns -1, 0 or 1 depending on whether c is before, equal
// to, or after other.
func (c Cursor) Compare(other Cursor) int {
	if c.Row != other.Row {
		if c.Row < other.Row {
			return -1
		}
		return 1
	}
	if c.Column != other.Column {
		if c.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if c is strictly before other.
func (c Cursor) Before(other Cursor) bool {
	return c.Compare(other) < 0
}

// After returns true if c is strictly after other.
func (c Cursor) After(other Cursor) bool {
	return c.Compare(other) > 0
}

// String returns a compact representation for logs and test failures.
func (c Cursor) String() string {
	return fmt.Sprintf("{%d,%d}", c.Row, c.Column)
}
