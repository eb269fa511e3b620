package buffer

import (
	"strings"

	"github.com/satwik-kambham/rift/internal/engine/cursor"
	"github.com/satwik-kambham/rift/internal/engine/rope"
)

// RopeStorage backs a buffer with an immutable rope, giving O(log n)
// splices at the cost of O(log n) line-index lookups. Lines are the
// spans between newline bytes; the trailing-empty-line rule is
// enforced at construction, so the rope text never ends mid-line.
type RopeStorage struct {
	r rope.Rope
}

// NewRopeStorage creates rope storage from initial text.
func NewRopeStorage(text string) *RopeStorage {
	return &RopeStorage{r: rope.FromString(strings.Join(splitLines(text), "\n"))}
}

// LineCount returns the number of lines.
func (s *RopeStorage) LineCount() int { return s.r.LineCount() }

// Line returns the text of a line without its terminator.
func (s *RopeStorage) Line(row int) string { return s.r.Line(row) }

// LineLen returns the byte length of a line.
func (s *RopeStorage) LineLen(row int) int {
	return s.r.LineEnd(row) - s.r.LineStart(row)
}

// Content returns the full content joined with the given EOL sequence.
func (s *RopeStorage) Content(eol string) string {
	text := s.r.String()
	if eol == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", eol)
}

// ContentRange returns lines startRow through endRow inclusive.
func (s *RopeStorage) ContentRange(startRow, endRow int, eol string) string {
	if startRow < 0 {
		startRow = 0
	}
	if max := s.LineCount() - 1; endRow > max {
		endRow = max
	}
	text := s.r.Slice(s.r.LineStart(startRow), s.r.LineEnd(endRow))
	if eol == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", eol)
}

// SelectionText returns the selected text with a trailing terminator.
func (s *RopeStorage) SelectionText(sel cursor.Selection) string {
	sel = clampSelection(s, sel)
	start, end := sel.InOrder()
	if start == end {
		return ""
	}
	a := s.r.LineStart(start.Row) + start.Column
	// An upper bound at column 0 ends on the previous row's
	// terminator, which the slice already includes.
	if end.Column == 0 {
		return s.r.Slice(a, s.r.LineStart(end.Row))
	}
	b := s.r.LineStart(end.Row) + end.Column
	return s.r.Slice(a, b) + "\n"
}

// ByteIndex returns the byte offset of the cursor in the joined
// content.
func (s *RopeStorage) ByteIndex(c cursor.Cursor, eol string) int {
	c = clampCursor(s, c)
	// The rope stores "\n" terminators; wider EOL sequences add one
	// byte per preceding line.
	return s.r.LineStart(c.Row) + c.Row*(len(eol)-1) + c.Column
}

// Insert splices text at the given position.
func (s *RopeStorage) Insert(text string, at cursor.Cursor) cursor.Cursor {
	at = clampCursor(s, at)
	off := s.r.LineStart(at.Row) + at.Column
	s.r = s.r.Insert(off, text)

	cur := at
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		cur.Row += strings.Count(text, "\n")
		cur.Column = len(text) - idx - 1
	} else {
		cur.Column += len(text)
	}
	return cur
}

// Remove deletes the selected span.
func (s *RopeStorage) Remove(sel cursor.Selection) (string, cursor.Cursor) {
	sel = clampSelection(s, sel)
	start, end := sel.InOrder()
	a := s.r.LineStart(start.Row) + start.Column
	b := s.r.LineStart(end.Row) + end.Column
	removed := s.r.Slice(a, b)
	s.r = s.r.Delete(a, b)
	return removed, start
}

// SetContent replaces the entire content.
func (s *RopeStorage) SetContent(text string) {
	s.r = rope.FromString(strings.Join(splitLines(text), "\n"))
}
