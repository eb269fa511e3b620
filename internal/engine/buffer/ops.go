package buffer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/satwik-kambham/rift/internal/engine/cursor"
)

// Line-wise editing operations and word queries. All of these go
// through InsertText/RemoveText, so each touched line contributes one
// entry to the edit log and one change notification.

// IndentationLevel returns the number of leading spaces on a row.
func (b *Buffer) IndentationLevel(row int) int {
	line := b.Line(row)
	return len(line) - len(strings.TrimLeft(line, " "))
}

// AddIndentation inserts tabSize spaces at the start of every selected
// line and returns the selection shifted right to match.
func (b *Buffer) AddIndentation(sel cursor.Selection, tabSize int) cursor.Selection {
	tab := strings.Repeat(" ", tabSize)
	updated := sel
	updated.Cursor.Column += tabSize
	updated.Mark.Column += tabSize
	start, end := sel.InOrder()
	for row := start.Row; row <= end.Row; row++ {
		b.InsertText(tab, cursor.Cursor{Row: row})
	}
	return updated
}

// RemoveIndentation strips up to tabSize leading spaces from every
// selected line that carries them and returns the adjusted selection.
func (b *Buffer) RemoveIndentation(sel cursor.Selection, tabSize int) cursor.Selection {
	tab := strings.Repeat(" ", tabSize)
	updated := sel
	start, end := sel.InOrder()
	for row := start.Row; row <= end.Row; row++ {
		if !strings.HasPrefix(b.Line(row), tab) {
			continue
		}
		b.RemoveText(cursor.Selection{
			Cursor: cursor.Cursor{Row: row},
			Mark:   cursor.Cursor{Row: row, Column: tabSize},
		})
		shiftLeft := func(c *cursor.Cursor) {
			if c.Row == row {
				c.Column -= tabSize
				if c.Column < 0 {
					c.Column = 0
				}
			}
		}
		if row == start.Row {
			lo, _ := orderedPtrs(&updated)
			shiftLeft(lo)
		}
		if row == end.Row {
			_, hi := orderedPtrs(&updated)
			shiftLeft(hi)
		}
	}
	return updated
}

func orderedPtrs(sel *cursor.Selection) (*cursor.Cursor, *cursor.Cursor) {
	if sel.Mark.Before(sel.Cursor) {
		return &sel.Mark, &sel.Cursor
	}
	return &sel.Cursor, &sel.Mark
}

// ToggleComment comments the selected lines with the token, or
// uncomments them when every line already starts with it after its
// leading whitespace. Returns the selection shifted to follow the
// edits.
func (b *Buffer) ToggleComment(sel cursor.Selection, token string) cursor.Selection {
	if token == "" {
		return sel
	}

	updated := sel
	start, end := sel.InOrder()

	indents := make([]int, 0, end.Row-start.Row+1)
	uncomment := true
	for row := start.Row; row <= end.Row; row++ {
		line := b.Line(row)
		indent := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
		indents = append(indents, indent)
		if !strings.HasPrefix(line[indent:], token) {
			uncomment = false
		}
	}

	shiftForInsert := func(c *cursor.Cursor, row, column int) {
		if c.Row == row && c.Column >= column {
			c.Column += len(token)
		}
	}
	shiftForRemove := func(c *cursor.Cursor, row, column int) {
		if c.Row != row {
			return
		}
		if c.Column > column+len(token) {
			c.Column -= len(token)
		} else if c.Column >= column {
			c.Column = column
		}
	}

	for i, row := 0, start.Row; row <= end.Row; i, row = i+1, row+1 {
		indent := indents[i]
		if uncomment {
			b.RemoveText(cursor.Selection{
				Cursor: cursor.Cursor{Row: row, Column: indent},
				Mark:   cursor.Cursor{Row: row, Column: indent + len(token)},
			})
			shiftForRemove(&updated.Cursor, row, indent)
			shiftForRemove(&updated.Mark, row, indent)
		} else {
			b.InsertText(token, cursor.Cursor{Row: row, Column: indent})
			shiftForInsert(&updated.Cursor, row, indent)
			shiftForInsert(&updated.Mark, row, indent)
		}
	}
	return updated
}

// SelectLine extends the selection to cover whole lines. Calling it
// again on an already line-wise selection pulls in the next line.
func (b *Buffer) SelectLine(sel cursor.Selection) cursor.Selection {
	updated := sel
	if sel.Mark.Column == 0 &&
		sel.Cursor.Column == b.LineLen(sel.Cursor.Row) &&
		sel.Cursor.Row < b.LineCount()-1 {
		updated.Cursor.Row++
	}
	updated.Mark.Column = 0
	updated.Cursor.Column = b.LineLen(updated.Cursor.Row)
	return updated
}

// SelectWord extends the selection's cursor end to the end of the
// alphanumeric run it sits on.
func (b *Buffer) SelectWord(sel cursor.Selection) cursor.Selection {
	updated := sel
	line := b.Line(sel.Cursor.Row)
	end := sel.Cursor.Column
	for end < len(line) {
		r, size := utf8.DecodeRuneInString(line[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	updated.Cursor.Column = end
	return updated
}

// WordUnderCursor returns the alphanumeric run immediately before the
// cursor, truncated at the cursor's position. Completion filtering
// matches items against it.
func (b *Buffer) WordUnderCursor(c cursor.Cursor) string {
	sel := b.WordRangeUnderCursor(c)
	return b.Line(c.Row)[sel.Mark.Column:c.Column]
}

// WordRangeUnderCursor returns the span of the word before the cursor,
// mark at the word start and cursor at the given position.
func (b *Buffer) WordRangeUnderCursor(c cursor.Cursor) cursor.Selection {
	line := b.Line(c.Row)
	start := c.Column
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	return cursor.Selection{Cursor: c, Mark: cursor.Cursor{Row: c.Row, Column: start}}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
