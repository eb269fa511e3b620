package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/satwik-kambham/rift/internal/config"
	"github.com/satwik-kambham/rift/internal/engine/cursor"
	"github.com/satwik-kambham/rift/internal/highlight"
	"github.com/satwik-kambham/rift/internal/logging"
	"github.com/satwik-kambham/rift/internal/lsp"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	prefs := config.Default()
	// Point every language at a command that cannot exist so server
	// startup fails fast and tests stay hermetic.
	prefs.Language = map[string]config.LanguagePrefs{}
	for _, lang := range []highlight.Language{
		highlight.Go, highlight.Rust, highlight.Python, highlight.C,
		highlight.CPP, highlight.Javascript, highlight.Typescript,
	} {
		prefs.Language[lang.String()] = config.LanguagePrefs{
			ServerCommand: []string{"/nonexistent/langserver"},
		}
	}
	a := New(logging.Discard(), prefs, t.TempDir())
	t.Cleanup(a.Close)
	return a
}

func parseJSON(s string) gjson.Result { return gjson.Parse(s) }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenFile(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, a.Workspace(), "notes.txt", "hello\nworld\n")

	id, err := a.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if a.CurrentID() != id {
		t.Errorf("current = %d, want %d", a.CurrentID(), id)
	}

	buf, ok := a.Buffer(id)
	if !ok {
		t.Fatal("buffer not registered")
	}
	if buf.Content("\n") != "hello\nworld\n" {
		t.Errorf("content = %q", buf.Content("\n"))
	}
	if buf.DisplayName() != "notes.txt" {
		t.Errorf("display name = %q", buf.DisplayName())
	}
	if buf.Modified() {
		t.Error("freshly opened buffer should be clean")
	}

	// Opening again focuses the existing buffer.
	again, err := a.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile again: %v", err)
	}
	if again != id {
		t.Errorf("reopen returned %d, want %d", again, id)
	}
}

func TestOpenFileNormalizesLineEndings(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, a.Workspace(), "dos.txt", "a\r\nb\r\n")

	id, err := a.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	buf, _ := a.Buffer(id)
	if buf.Content("\n") != "a\nb\n" {
		t.Errorf("content = %q", buf.Content("\n"))
	}
}

func TestOpenFileMissing(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.OpenFile(filepath.Join(a.Workspace(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveBuffer(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, a.Workspace(), "notes.txt", "hello\n")

	id, err := a.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	a.Insert("X")

	buf, _ := a.Buffer(id)
	if !buf.Modified() {
		t.Fatal("edit should mark buffer modified")
	}

	if err := a.SaveBuffer(id); err != nil {
		t.Fatalf("SaveBuffer: %v", err)
	}
	if buf.Modified() {
		t.Error("successful save should clear the modified flag")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Xhello\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestSaveFailureKeepsModified(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, a.Workspace(), "notes.txt", "hello\n")

	id, err := a.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	a.Insert("X")

	// Make the write fail.
	buf, _ := a.Buffer(id)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := a.SaveBuffer(id); err == nil {
		t.Fatal("expected save to fail")
	}
	if !buf.Modified() {
		t.Error("failed save must leave the buffer marked modified")
	}
}

func TestScratchAndSpecialBuffers(t *testing.T) {
	a := newTestApp(t)

	id := a.OpenScratch("draft\n")
	buf, _ := a.Buffer(id)
	if buf.Path() != "" || buf.Special() {
		t.Errorf("scratch buffer = path %q special %v", buf.Path(), buf.Special())
	}
	if err := a.SaveBuffer(id); err != nil {
		t.Errorf("saving a scratch buffer should be a no-op, got %v", err)
	}

	sid := a.OpenSpecial("output\n")
	sbuf, _ := a.Buffer(sid)
	if !sbuf.Special() {
		t.Error("special buffer not marked special")
	}
}

func TestCloseBufferRefocuses(t *testing.T) {
	a := newTestApp(t)
	first := a.OpenScratch("one\n")
	second := a.OpenScratch("two\n")

	a.CloseBuffer(second)
	if a.CurrentID() != first {
		t.Errorf("current = %d, want %d", a.CurrentID(), first)
	}
	a.CloseBuffer(first)
	if a.CurrentID() != -1 {
		t.Errorf("current = %d, want -1", a.CurrentID())
	}
}

func TestInsertDeleteUndo(t *testing.T) {
	a := newTestApp(t)
	a.OpenScratch("ab\n")

	a.MoveCursor(Right)
	a.Insert("X")

	buf, in, _ := a.focused()
	if buf.Line(0) != "aXb" {
		t.Fatalf("line = %q", buf.Line(0))
	}
	if in.Cursor != (cursor.Cursor{Row: 0, Column: 2}) {
		t.Errorf("cursor = %v", in.Cursor)
	}

	if removed := a.DeleteSelection(); removed != "X" {
		t.Errorf("backspace removed %q, want %q", removed, "X")
	}
	if buf.Line(0) != "ab" {
		t.Errorf("line after delete = %q", buf.Line(0))
	}

	a.Undo()
	if buf.Line(0) != "aXb" {
		t.Errorf("line after undo = %q", buf.Line(0))
	}
	a.Redo()
	if buf.Line(0) != "ab" {
		t.Errorf("line after redo = %q", buf.Line(0))
	}
}

func TestIndentAndComment(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, a.Workspace(), "main.go", "x := 1\n")
	if _, err := a.OpenFile(path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	a.Indent()
	buf, in, _ := a.focused()
	if buf.Line(0) != "    x := 1" {
		t.Fatalf("line after indent = %q", buf.Line(0))
	}
	if in.Cursor.Column != 4 {
		t.Errorf("cursor after indent = %v", in.Cursor)
	}

	a.ToggleComment()
	if buf.Line(0) != "    //x := 1" {
		t.Fatalf("line after comment = %q", buf.Line(0))
	}
	a.ToggleComment()
	if buf.Line(0) != "    x := 1" {
		t.Fatalf("line after uncomment = %q", buf.Line(0))
	}

	a.Dedent()
	if buf.Line(0) != "x := 1" {
		t.Errorf("line after dedent = %q", buf.Line(0))
	}
}

func TestVisibleLinesWithDiagnostics(t *testing.T) {
	a := newTestApp(t)
	path := writeFile(t, a.Workspace(), "notes.txt", "hello world\n")
	if _, err := a.OpenFile(path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	buf, _, _ := a.focused()
	a.diagnostics[buf.Path()] = lsp.PublishedDiagnostics{
		Path: buf.Path(),
		Diagnostics: []lsp.Diagnostic{{
			Range: cursor.Selection{
				Mark:   cursor.Cursor{Row: 0, Column: 0},
				Cursor: cursor.Cursor{Row: 0, Column: 5},
			},
			Severity: lsp.SeverityError,
			Message:  "bad greeting",
		}},
	}

	lines, _, gutter := a.VisibleLines(10, 40)
	if len(lines) == 0 || len(gutter) == 0 {
		t.Fatal("empty projection")
	}

	underlined := ""
	for _, seg := range lines[0] {
		if seg.Attrs.HasDiagnostic() {
			underlined += seg.Text
		}
	}
	if underlined != "hello" {
		t.Errorf("diagnostic overlay covers %q, want %q", underlined, "hello")
	}
}

func TestDispatchResponses(t *testing.T) {
	a := newTestApp(t)
	a.OpenScratch("pri\n")
	a.GoTo(cursor.Cursor{Row: 0, Column: 3})

	a.dispatch(highlight.Go, lsp.Incoming{
		Method: "textDocument/hover",
		Result: parseJSON(`{"contents":{"value":"the docs"}}`),
	})
	if a.Hover() != "the docs" {
		t.Errorf("hover = %q", a.Hover())
	}

	a.dispatch(highlight.Go, lsp.Incoming{
		Method: "textDocument/completion",
		Result: parseJSON(`{"items":[{"label":"print","insertText":"print"}]}`),
	})
	if len(a.Completions()) != 1 {
		t.Fatalf("completions = %+v", a.Completions())
	}

	a.ApplyCompletion(a.Completions()[0])
	buf, in, _ := a.focused()
	if buf.Line(0) != "print" {
		t.Errorf("line after completion = %q", buf.Line(0))
	}
	if in.Cursor.Column != 5 {
		t.Errorf("cursor after completion = %v", in.Cursor)
	}
	if a.Completions() != nil {
		t.Error("completions should clear after applying one")
	}
}

func TestDispatchFormatting(t *testing.T) {
	a := newTestApp(t)
	a.OpenScratch("x:=1\ny :=2\n")

	// Two edits; applied in reverse so the first edit's coordinates
	// stay valid.
	a.dispatch(highlight.Go, lsp.Incoming{
		Method: "textDocument/formatting",
		Result: parseJSON(`[
			{"newText":"x := 1","range":{"start":{"line":0,"character":0},"end":{"line":0,"character":4}}},
			{"newText":"y := 2","range":{"start":{"line":1,"character":0},"end":{"line":1,"character":5}}}
		]`),
	})

	buf, _, _ := a.focused()
	if buf.Line(0) != "x := 1" || buf.Line(1) != "y := 2" {
		t.Errorf("lines = %q, %q", buf.Line(0), buf.Line(1))
	}
}

func TestDispatchFormattingPureInsertion(t *testing.T) {
	a := newTestApp(t)
	a.OpenScratch("ab\n")

	// A zero-width range is an insertion and logs exactly one edit.
	a.dispatch(highlight.Go, lsp.Incoming{
		Method: "textDocument/formatting",
		Result: parseJSON(`[
			{"newText":"X","range":{"start":{"line":0,"character":1},"end":{"line":0,"character":1}}}
		]`),
	})

	buf, _, _ := a.focused()
	if buf.Line(0) != "aXb" {
		t.Fatalf("line 0 = %q, want %q", buf.Line(0), "aXb")
	}
	a.Undo()
	if buf.Line(0) != "ab" {
		t.Errorf("after undo line 0 = %q, want %q", buf.Line(0), "ab")
	}
	if buf.CanUndo() {
		t.Error("insertion logged an extra empty deletion")
	}
}

func TestDispatchDiagnosticsNotification(t *testing.T) {
	a := newTestApp(t)

	a.dispatch(highlight.Go, lsp.Incoming{
		Notification: true,
		Method:       "textDocument/publishDiagnostics",
		Params: parseJSON(`{"uri":"file:///ws/a.go","diagnostics":[
			{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}},"severity":2,"message":"m"}
		]}`),
	})

	pub, ok := a.Diagnostics("/ws/a.go")
	if !ok || len(pub.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v, %v", pub, ok)
	}
	if pub.Diagnostics[0].Severity != lsp.SeverityWarning {
		t.Errorf("severity = %v", pub.Diagnostics[0].Severity)
	}
}

func TestStickyColumnThroughApp(t *testing.T) {
	a := newTestApp(t)
	a.OpenScratch("abcdef\nx\nlonger\n")
	a.GoTo(cursor.Cursor{Row: 0, Column: 5})

	a.MoveCursor(Down)
	a.MoveCursor(Down)

	_, in, _ := a.focused()
	if in.Cursor != (cursor.Cursor{Row: 2, Column: 5}) {
		t.Errorf("cursor = %v, want {2,5}", in.Cursor)
	}
}
