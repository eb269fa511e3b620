package buffer

import "github.com/satwik-kambham/rift/internal/engine/cursor"

// Cursor motion. Horizontal motion wraps across line boundaries;
// vertical motion remembers the widest column reached (the column
// level) and restores it when passing through shorter lines. MoveUp
// and MoveDown return the updated column level.

// MoveRight moves one column right, wrapping to the next line.
func (b *Buffer) MoveRight(c cursor.Cursor) cursor.Cursor {
	if c.Column == b.LineLen(c.Row) {
		if c.Row != b.LineCount()-1 {
			c.Row++
			c.Column = 0
		}
	} else {
		c.Column++
	}
	return c
}

// MoveLeft moves one column left, wrapping to the previous line.
func (b *Buffer) MoveLeft(c cursor.Cursor) cursor.Cursor {
	if c.Column == 0 {
		if c.Row != 0 {
			c.Row--
			c.Column = b.LineLen(c.Row)
		}
	} else {
		c.Column--
	}
	return c
}

// MoveUp moves one row up, restoring the column level on lines wide
// enough to hold it. On the first row it snaps to the line start.
func (b *Buffer) MoveUp(c cursor.Cursor, columnLevel int) (cursor.Cursor, int) {
	if c.Row == 0 {
		c.Column = 0
		return c, c.Column
	}
	c.Row--
	c.Column = levelColumn(c.Column, columnLevel, b.LineLen(c.Row))
	return c, columnLevel
}

// MoveDown moves one row down, restoring the column level on lines
// wide enough to hold it. On the last row it snaps to the line end.
func (b *Buffer) MoveDown(c cursor.Cursor, columnLevel int) (cursor.Cursor, int) {
	if c.Row == b.LineCount()-1 {
		c.Column = b.LineLen(c.Row)
		return c, c.Column
	}
	c.Row++
	c.Column = levelColumn(c.Column, columnLevel, b.LineLen(c.Row))
	return c, columnLevel
}

func levelColumn(column, level, lineLen int) int {
	if column > lineLen {
		return lineLen
	}
	if level > lineLen {
		level = lineLen
	}
	if level > column {
		return level
	}
	return column
}

// MoveLineStart moves to column zero of the current row.
func (b *Buffer) MoveLineStart(c cursor.Cursor) cursor.Cursor {
	c.Column = 0
	return c
}

// MoveLineEnd moves past the last byte of the current row.
func (b *Buffer) MoveLineEnd(c cursor.Cursor) cursor.Cursor {
	c.Column = b.LineLen(c.Row)
	return c
}

// MoveBufferStart moves to the first position of the buffer.
func (b *Buffer) MoveBufferStart(cursor.Cursor) cursor.Cursor {
	return cursor.Cursor{}
}

// MoveBufferEnd moves past the last byte of the last line.
func (b *Buffer) MoveBufferEnd(cursor.Cursor) cursor.Cursor {
	row := b.LineCount() - 1
	return cursor.Cursor{Row: row, Column: b.LineLen(row)}
}
