package buffer

import (
	"slices"
	"strings"

	"github.com/satwik-kambham/rift/internal/engine/cursor"
)

// LineStorage backs a buffer with a flat slice of lines. Splices at a
// row cost O(line length) and multi-line removals O(lines removed),
// which is fine for typical files; large-file deployments should pick
// the rope backend.
type LineStorage struct {
	lines []string
}

// NewLineStorage creates line-array storage from initial text.
func NewLineStorage(text string) *LineStorage {
	return &LineStorage{lines: splitLines(text)}
}

// LineCount returns the number of lines.
func (s *LineStorage) LineCount() int { return len(s.lines) }

// Line returns the text of a line without its terminator.
func (s *LineStorage) Line(row int) string { return s.lines[row] }

// LineLen returns the byte length of a line.
func (s *LineStorage) LineLen(row int) int { return len(s.lines[row]) }

// Content returns the full content joined with the given EOL sequence.
func (s *LineStorage) Content(eol string) string {
	return strings.Join(s.lines, eol)
}

// ContentRange returns lines startRow through endRow inclusive.
func (s *LineStorage) ContentRange(startRow, endRow int, eol string) string {
	if startRow < 0 {
		startRow = 0
	}
	if endRow > len(s.lines)-1 {
		endRow = len(s.lines) - 1
	}
	return strings.Join(s.lines[startRow:endRow+1], eol)
}

// SelectionText returns the selected text with a trailing terminator.
func (s *LineStorage) SelectionText(sel cursor.Selection) string {
	sel = clampSelection(s, sel)
	start, end := sel.InOrder()

	var b strings.Builder
	cur := start
	for cur.Before(end) {
		if cur.Row == end.Row {
			b.WriteString(s.lines[cur.Row][cur.Column:end.Column])
		} else {
			b.WriteString(s.lines[cur.Row][cur.Column:])
		}
		b.WriteByte('\n')
		cur.Row++
		cur.Column = 0
	}
	return b.String()
}

// ByteIndex returns the byte offset of the cursor in the joined
// content.
func (s *LineStorage) ByteIndex(c cursor.Cursor, eol string) int {
	c = clampCursor(s, c)
	idx := 0
	for row := 0; row < c.Row; row++ {
		idx += len(s.lines[row]) + len(eol)
	}
	return idx + c.Column
}

// Insert splices text at the given position.
func (s *LineStorage) Insert(text string, at cursor.Cursor) cursor.Cursor {
	at = clampCursor(s, at)
	cur := at

	line := s.lines[at.Row]
	head, tail := line[:at.Column], line[at.Column:]

	parts := strings.Split(text, "\n")
	s.lines[at.Row] = head + parts[0]
	cur.Column += len(parts[0])
	for _, part := range parts[1:] {
		cur.Row++
		cur.Column = len(part)
		s.lines = slices.Insert(s.lines, cur.Row, part)
	}
	s.lines[cur.Row] += tail

	return cur
}

// Remove deletes the selected span.
func (s *LineStorage) Remove(sel cursor.Selection) (string, cursor.Cursor) {
	sel = clampSelection(s, sel)
	start, end := sel.InOrder()

	if start.Row == end.Row {
		line := s.lines[start.Row]
		removed := line[start.Column:end.Column]
		s.lines[start.Row] = line[:start.Column] + line[end.Column:]
		return removed, start
	}

	var b strings.Builder
	b.WriteString(s.lines[start.Row][start.Column:])
	for row := start.Row + 1; row < end.Row; row++ {
		b.WriteByte('\n')
		b.WriteString(s.lines[row])
	}
	b.WriteByte('\n')
	b.WriteString(s.lines[end.Row][:end.Column])

	s.lines[start.Row] = s.lines[start.Row][:start.Column] + s.lines[end.Row][end.Column:]
	s.lines = append(s.lines[:start.Row+1], s.lines[end.Row+1:]...)

	return b.String(), start
}

// SetContent replaces the entire content.
func (s *LineStorage) SetContent(text string) {
	s.lines = splitLines(text)
}
