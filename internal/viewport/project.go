package viewport

import (
	"github.com/satwik-kambham/rift/internal/engine/buffer"
	"github.com/satwik-kambham/rift/internal/engine/cursor"
	"github.com/satwik-kambham/rift/internal/highlight"
)

// Params sizes the projection. MaxCharacters is the full cell width
// of the text area; three cells are reserved for the gutter margin,
// so lines wrap at MaxCharacters-3 bytes.
type Params struct {
	VisibleLines  int
	MaxCharacters int
	EOL           string
}

// GutterInfo describes one visual row: the buffer position its first
// byte comes from, the end column on that buffer line, whether the
// row is a continuation of a wrapped line, whether it is the last
// chunk of its line, and the byte span it covers in the joined
// content (EOL included on the final chunk).
type GutterInfo struct {
	Start     cursor.Cursor
	End       int
	Wrapped   bool
	WrapEnd   bool
	StartByte int
	EndByte   int
}

// Segment is a run of text rendered with one attribute set.
type Segment struct {
	Text  string
	Attrs Attributes
}

// Project computes the visible portion of a buffer: wrapped visual
// rows as attribute-labeled segments, the cursor position relative to
// the returned window, and one gutter entry per row. The scroll
// anchor is updated in place when the cursor has left the window;
// special buffers never recenter and show no cursor or selection.
//
// The extra ranges are merged in untouched, letting callers overlay
// diagnostics or search matches.
func Project(buf *buffer.Buffer, scroll *cursor.Cursor, cur cursor.Cursor, sel cursor.Selection, params Params, extra []Range) ([][]Segment, cursor.Cursor, []GutterInfo) {
	maxChars := params.MaxCharacters - 3
	segments := append([]Range{}, extra...)

	// Window of buffer lines to consider, with slack for wrapping,
	// before wrap-aware recentering.
	rangeStart := scroll.Row
	rangeEnd := rangeStart + params.VisibleLines + 3

	if !buf.Special() {
		if cur.Before(*scroll) {
			rangeStart = cur.Row
			rangeEnd = rangeStart + params.VisibleLines
		} else if cur.Row >= scroll.Row+params.VisibleLines {
			rangeEnd = cur.Row + 1
			rangeStart = clampMin(rangeEnd-params.VisibleLines, 0)
		}
	}
	if max := buf.LineCount(); rangeEnd > max {
		rangeEnd = max
	}

	startByte := 0
	for row := 0; row < rangeStart; row++ {
		startByte += buf.LineLen(row) + len(params.EOL)
	}

	// One gutter entry per wrapped chunk; empty lines still get one.
	var gutter []GutterInfo
	for row := rangeStart; row < rangeEnd; row++ {
		lineLen := buf.LineLen(row)
		start := 0
		for start < lineLen {
			end := start + maxChars
			if end > lineLen {
				end = lineLen
			}
			eolLen := 0
			if end == lineLen {
				eolLen = len(params.EOL)
			}
			endByte := startByte + end - start + eolLen
			gutter = append(gutter, GutterInfo{
				Start:     cursor.Cursor{Row: row, Column: start},
				End:       end,
				Wrapped:   start != 0,
				WrapEnd:   end == lineLen,
				StartByte: startByte,
				EndByte:   endByte,
			})
			startByte = endByte
			start = end
		}
		if lineLen == 0 {
			endByte := startByte + len(params.EOL)
			gutter = append(gutter, GutterInfo{
				Start:     cursor.Cursor{Row: row},
				WrapEnd:   true,
				StartByte: startByte,
				EndByte:   endByte,
			})
			startByte = endByte
		}
	}
	if len(gutter) == 0 {
		return nil, cursor.Cursor{}, nil
	}

	for _, g := range gutter {
		segments = append(segments, Range{
			Start: g.StartByte,
			End:   clampMin(g.EndByte-1, 0),
			Attrs: AttrVisible,
		})
	}

	relCursor := cursor.Cursor{Column: cur.Column}

	if !buf.Special() {
		// Visual row holding the cursor. A cursor sitting exactly on a
		// chunk boundary belongs to the next chunk unless the chunk is
		// the final one of its line.
		cursorIdx := 0
		for _, g := range gutter {
			if cur.Row == g.Start.Row && cur.Column >= g.Start.Column &&
				(cur.Column < g.End || (cur.Column == g.End && g.WrapEnd)) {
				relCursor.Column -= g.Start.Column
				break
			}
			cursorIdx++
		}

		// Recenter in visual rows now that wrapping is known.
		if cur.Before(*scroll) {
			rangeStart = clampMin(cursorIdx-1, 0)
			rangeEnd = rangeStart + params.VisibleLines
		} else if cur.Row >= scroll.Row+params.VisibleLines {
			rangeEnd = cursorIdx + 1
			rangeStart = clampMin(rangeEnd-params.VisibleLines, 0)
		} else {
			rangeStart = 0
			rangeEnd = params.VisibleLines
			if cursorIdx >= params.VisibleLines {
				rangeEnd = cursorIdx + 1
				rangeStart = clampMin(rangeEnd-params.VisibleLines, 0)
			}
		}
		if rangeEnd > len(gutter) {
			rangeEnd = len(gutter)
		}
		relCursor.Row = cursorIdx - rangeStart

		*scroll = gutter[rangeStart].Start

		selStart, selEnd := sel.InOrder()
		if selStart != selEnd {
			segments = append(segments, Range{
				Start: buf.ByteIndex(selStart, params.EOL),
				End:   buf.ByteIndex(selEnd, params.EOL),
				Attrs: AttrSelect,
			})
		}
		curByte := buf.ByteIndex(cur, params.EOL)
		segments = append(segments, Range{Start: curByte, End: curByte, Attrs: AttrCursor})
	} else {
		rangeStart = 0
		rangeEnd = params.VisibleLines
		if rangeEnd > len(gutter) {
			rangeEnd = len(gutter)
		}
		*scroll = gutter[rangeStart].Start
	}

	if h := buf.Highlighter(); h != nil {
		segments = appendHighlight(segments, h, buf, gutter)
	}

	lines := renderSegments(buf, SplitRanges(segments), gutter)

	return clipLines(lines, rangeStart, rangeEnd), relCursor, gutter[rangeStart:rangeEnd]
}

// appendHighlight lexes the windowed content and translates the
// resolved category spans into highlight ranges in joined-content
// byte offsets.
func appendHighlight(segments []Range, h *highlight.Highlighter, buf *buffer.Buffer, gutter []GutterInfo) []Range {
	first, last := gutter[0], gutter[len(gutter)-1]
	content := buf.ContentRange(first.Start.Row, last.Start.Row, "\n")
	spans, err := h.Spans(content)
	if err != nil {
		return segments
	}

	for _, sp := range spans {
		start := sp.Start + first.StartByte
		if start > last.EndByte {
			continue
		}
		segments = append(segments, Range{
			Start: start,
			End:   clampMin(sp.End+first.StartByte-1, 0),
			Attrs: FromCategory(sp.Category),
		})
	}
	return segments
}

// renderSegments slices line text for each disjoint attribute window,
// grouping segments into one slice per gutter entry.
func renderSegments(buf *buffer.Buffer, split []Range, gutter []GutterInfo) [][]Segment {
	idx := 0
	for idx < len(split) && split[idx].Start < gutter[0].StartByte {
		idx++
	}

	var lines [][]Segment
	var line []Segment
	for _, g := range gutter {
		lineLen := buf.LineLen(g.Start.Row)
		for idx < len(split) && split[idx].End < g.EndByte {
			seg := split[idx]
			idx++

			from := seg.Start - g.StartByte + g.Start.Column
			to := seg.End - g.StartByte + 1 + g.Start.Column
			if to > lineLen {
				to = lineLen
			}
			text := ""
			if from < to {
				text = buf.Line(g.Start.Row)[from:to]
			}
			if seg.Attrs.Has(AttrCursor) && text == "" {
				text = " "
			}
			line = append(line, Segment{Text: text, Attrs: seg.Attrs})
			if seg.End == g.EndByte-1 {
				lines = append(lines, line)
				line = nil
			}
		}
	}
	return lines
}

func clipLines(lines [][]Segment, lo, hi int) [][]Segment {
	if lo > len(lines) {
		return nil
	}
	if hi > len(lines) {
		hi = len(lines)
	}
	return lines[lo:hi]
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}
