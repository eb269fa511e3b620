package buffer

import (
	"strings"

	"github.com/satwik-kambham/rift/internal/engine/cursor"
)

// Storage is the contract both text backends implement: exact,
// position-addressable mutation of line-oriented content. The two
// implementations must be observationally identical; the property
// suite drives them with the same operations and compares results.
//
// The buffer always has at least one line, and content constructed
// from text ending in a line terminator carries an explicit trailing
// empty line.
type Storage interface {
	// LineCount returns the number of lines, always >= 1.
	LineCount() int
	// Line returns the text of a line without its terminator.
	Line(row int) string
	// LineLen returns the byte length of a line without its terminator.
	LineLen(row int) int
	// Content returns the full content joined with the given EOL
	// sequence.
	Content(eol string) string
	// ContentRange returns lines startRow through endRow inclusive,
	// joined with the given EOL sequence.
	ContentRange(startRow, endRow int, eol string) string
	// SelectionText returns the selected text, one trailing line
	// terminator included.
	SelectionText(sel cursor.Selection) string
	// ByteIndex returns the byte offset of the cursor within the
	// content as joined by the given EOL sequence.
	ByteIndex(c cursor.Cursor, eol string) int
	// Insert splices text (which may contain newlines) at the given
	// position and returns the cursor just past the inserted text.
	Insert(text string, at cursor.Cursor) cursor.Cursor
	// Remove deletes the selected span and returns the removed text
	// and the cursor at the lower bound of the span.
	Remove(sel cursor.Selection) (string, cursor.Cursor)
	// SetContent replaces the entire content.
	SetContent(text string)
}

// splitLines turns raw text into the line representation. Text ending
// in a newline gains an explicit trailing empty line; a bare "\n"
// collapses to one empty line; construction is idempotent in line
// count.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return lines
}

// clampCursor bounds a cursor to valid rows and byte columns.
func clampCursor(s Storage, c cursor.Cursor) cursor.Cursor {
	if c.Row < 0 {
		c.Row = 0
	}
	if max := s.LineCount() - 1; c.Row > max {
		c.Row = max
	}
	if c.Column < 0 {
		c.Column = 0
	}
	if max := s.LineLen(c.Row); c.Column > max {
		c.Column = max
	}
	return c
}

// clampSelection bounds both selection ends.
func clampSelection(s Storage, sel cursor.Selection) cursor.Selection {
	sel.Cursor = clampCursor(s, sel.Cursor)
	sel.Mark = clampCursor(s, sel.Mark)
	return sel
}
