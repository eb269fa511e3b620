package lsp

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/satwik-kambham/rift/internal/engine/buffer"
	"github.com/satwik-kambham/rift/internal/engine/cursor"
)

// Typed views over server payloads. The parsers tolerate the
// encoding variants seen in the wild: bare results versus wrapped
// lists, textEdit versus insertText completions, single locations
// versus location arrays.

// TextEdit replaces a span with new text.
type TextEdit struct {
	Range cursor.Selection
	Text  string
}

// CompletionItem is one completion candidate resolved to a concrete
// edit.
type CompletionItem struct {
	Label string
	Edit  TextEdit
}

// Location points into a document.
type Location struct {
	Path  string
	Range cursor.Selection
}

// Severity is the diagnostic severity wire encoding.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// Diagnostic is one published finding.
type Diagnostic struct {
	Range    cursor.Selection
	Severity Severity
	Code     string
	Source   string
	Message  string
}

// PublishedDiagnostics is the payload of
// textDocument/publishDiagnostics.
type PublishedDiagnostics struct {
	Path        string
	Version     int
	Diagnostics []Diagnostic
}

// ParseRange decodes an LSP range into a selection, mark at the
// start.
func ParseRange(r gjson.Result) cursor.Selection {
	return cursor.Selection{
		Mark: cursor.Cursor{
			Row:    int(r.Get("start.line").Int()),
			Column: int(r.Get("start.character").Int()),
		},
		Cursor: cursor.Cursor{
			Row:    int(r.Get("end.line").Int()),
			Column: int(r.Get("end.character").Int()),
		},
	}
}

// ParseHover extracts the hover text.
func ParseHover(result gjson.Result) string {
	return result.Get("contents.value").String()
}

// ParseCompletions resolves completion items against the word before
// the cursor: items whose label does not contain the word are
// dropped, and items without an explicit edit fall back to replacing
// the word, then to inserting the label at the cursor.
func ParseCompletions(result gjson.Result, buf *buffer.Buffer, cur cursor.Cursor) []CompletionItem {
	items := result.Get("items")
	if !items.IsArray() {
		items = result
	}

	word := buf.WordUnderCursor(cur)
	var out []CompletionItem
	for _, item := range items.Array() {
		label := item.Get("label").String()
		if !strings.Contains(label, word) {
			continue
		}

		var edit TextEdit
		switch {
		case item.Get("textEdit").IsObject():
			edit = TextEdit{
				Text:  item.Get("textEdit.newText").String(),
				Range: ParseRange(item.Get("textEdit.range")),
			}
		case item.Get("insertText").Type == gjson.String:
			edit = TextEdit{
				Text:  item.Get("insertText").String(),
				Range: buf.WordRangeUnderCursor(cur),
			}
		default:
			edit = TextEdit{
				Text:  label,
				Range: cursor.NewSelection(cur),
			}
		}
		out = append(out, CompletionItem{Label: label, Edit: edit})
	}
	return out
}

// ParseSignature extracts the first signature's label, empty when
// the server offered none.
func ParseSignature(result gjson.Result) string {
	signatures := result.Get("signatures").Array()
	if len(signatures) == 0 {
		return ""
	}
	return signatures[0].Get("label").String()
}

// ParseLocations decodes a definition or references result, accepting
// a single location or an array.
func ParseLocations(result gjson.Result) []Location {
	locations := []gjson.Result{result}
	if result.IsArray() {
		locations = result.Array()
	}

	var out []Location
	for _, loc := range locations {
		uri := loc.Get("uri")
		if !uri.Exists() {
			continue
		}
		out = append(out, Location{
			Path:  URIToPath(uri.String()),
			Range: ParseRange(loc.Get("range")),
		})
	}
	return out
}

// ParseFormattingEdits decodes a formatting result. Callers apply the
// edits last to first so earlier spans stay valid.
func ParseFormattingEdits(result gjson.Result) []TextEdit {
	var out []TextEdit
	for _, edit := range result.Array() {
		out = append(out, TextEdit{
			Text:  edit.Get("newText").String(),
			Range: ParseRange(edit.Get("range")),
		})
	}
	return out
}

// ParseDiagnostics decodes a publishDiagnostics notification.
func ParseDiagnostics(params gjson.Result) PublishedDiagnostics {
	pub := PublishedDiagnostics{
		Path:    URIToPath(params.Get("uri").String()),
		Version: int(params.Get("version").Int()),
	}
	for _, d := range params.Get("diagnostics").Array() {
		severity := Severity(d.Get("severity").Int())
		if severity < SeverityError || severity > SeverityHint {
			severity = SeverityError
		}
		pub.Diagnostics = append(pub.Diagnostics, Diagnostic{
			Range:    ParseRange(d.Get("range")),
			Severity: severity,
			Code:     d.Get("code").String(),
			Source:   d.Get("source").String(),
			Message:  d.Get("message").String(),
		})
	}
	return pub
}
