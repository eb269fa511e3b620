package lsp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/satwik-kambham/rift/internal/engine/buffer"
	"github.com/satwik-kambham/rift/internal/engine/cursor"
	"github.com/satwik-kambham/rift/internal/logging"
)

// fakeServer holds the far ends of a client's pipes.
type fakeServer struct {
	in  *bufio.Reader  // messages the client sent
	out *io.PipeWriter // responses back to the client
}

func newTestClient(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()

	c := newClient(logging.Discard(), stdinW, stdoutR, strings.NewReader(""))
	t.Cleanup(func() {
		c.Close()
		stdinR.Close()
		stdoutW.Close()
	})
	return c, &fakeServer{in: bufio.NewReader(stdinR), out: stdoutW}
}

func (s *fakeServer) read(t *testing.T) gjson.Result {
	t.Helper()
	body, err := ReadMessage(s.in)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	return gjson.ParseBytes(body)
}

func (s *fakeServer) respond(t *testing.T, id int, result string) {
	t.Helper()
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":%s}`, id, result)
	if err := WriteMessage(s.out, []byte(body)); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func (s *fakeServer) notify(t *testing.T, method, params string) {
	t.Helper()
	body := fmt.Sprintf(`{"jsonrpc":"2.0","method":%q,"params":%s}`, method, params)
	if err := WriteMessage(s.out, []byte(body)); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func recvOne(t *testing.T, c *Client) Incoming {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg, err := c.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	return msg
}

func TestResponsesDeliveredInRequestOrder(t *testing.T) {
	c, srv := newTestClient(t)

	for _, method := range []string{"textDocument/hover", "textDocument/completion", "textDocument/definition"} {
		if _, err := c.Request(method, "{}"); err != nil {
			t.Fatalf("Request: %v", err)
		}
		srv.read(t)
	}

	// Answer out of order: 2, 0, 1.
	srv.respond(t, 2, `{"n":2}`)
	srv.respond(t, 0, `{"n":0}`)
	srv.respond(t, 1, `{"n":1}`)

	for want := 0; want < 3; want++ {
		msg := recvOne(t, c)
		if msg.Notification {
			t.Fatal("unexpected notification")
		}
		if msg.ID != want {
			t.Fatalf("response id = %d, want %d", msg.ID, want)
		}
		if got := int(msg.Result.Get("n").Int()); got != want {
			t.Errorf("result n = %d, want %d", got, want)
		}
	}

}

func TestResponseMethodResolved(t *testing.T) {
	c, srv := newTestClient(t)

	if _, err := c.Request("textDocument/hover", "{}"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	srv.read(t)
	srv.respond(t, 0, `{"contents":{"value":"doc"}}`)

	msg := recvOne(t, c)
	if msg.Method != "textDocument/hover" {
		t.Errorf("method = %q", msg.Method)
	}
	if ParseHover(msg.Result) != "doc" {
		t.Errorf("hover = %q", ParseHover(msg.Result))
	}
}

func TestNotificationsBypassOrdering(t *testing.T) {
	c, srv := newTestClient(t)

	// A request is outstanding but its response has not arrived; a
	// notification must still come straight through.
	if _, err := c.Request("textDocument/hover", "{}"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	srv.read(t)
	srv.notify(t, "textDocument/publishDiagnostics", `{"uri":"file:///f.go","diagnostics":[]}`)

	msg := recvOne(t, c)
	if !msg.Notification || msg.Method != "textDocument/publishDiagnostics" {
		t.Fatalf("got %+v, want the notification", msg)
	}
}

func TestPollNonBlocking(t *testing.T) {
	c, _ := newTestClient(t)
	if _, ok := c.Poll(); ok {
		t.Error("Poll on idle client should report nothing")
	}
}

func TestPollDrainsOneMessagePerCall(t *testing.T) {
	c, srv := newTestClient(t)

	if _, err := c.Request("textDocument/hover", "{}"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	srv.read(t)
	srv.respond(t, 0, `{}`)

	// The pipe write returns once the reader goroutine has the
	// message; give it a moment to land in the channel.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if msg, ok := c.Poll(); ok {
			if msg.ID != 0 {
				t.Fatalf("id = %d", msg.ID)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("response never surfaced")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestInitializeHandshake(t *testing.T) {
	c, srv := newTestClient(t)

	go func() {
		body, err := ReadMessage(srv.in)
		if err != nil {
			return
		}
		init := gjson.ParseBytes(body)
		if init.Get("method").String() != "initialize" {
			return
		}
		resp := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":{"capabilities":{"textDocumentSync":{"openClose":true,"change":2}}}}`,
			init.Get("id").Int())
		WriteMessage(srv.out, []byte(resp))
	}()

	if err := c.Initialize("/ws"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// The initialized notification follows the handshake.
	if got := srv.read(t).Get("method").String(); got != "initialized" {
		t.Errorf("followup = %q, want initialized", got)
	}

	if kind := c.DocumentSyncKind(); kind != SyncIncremental {
		t.Errorf("sync kind = %v, want incremental", kind)
	}
	if !c.OpenCloseSupported() {
		t.Error("openClose should be supported")
	}
}

func TestSyncKindEncodings(t *testing.T) {
	tests := []struct {
		caps      string
		kind      SyncKind
		openClose bool
	}{
		{`{"textDocumentSync":1}`, SyncFull, true},
		{`{"textDocumentSync":2}`, SyncIncremental, true},
		{`{"textDocumentSync":{"change":1}}`, SyncFull, false},
		{`{"textDocumentSync":{"change":2,"openClose":true}}`, SyncIncremental, true},
		{`{}`, SyncNone, false},
	}

	for _, tt := range tests {
		c := &Client{caps: gjson.Parse(tt.caps)}
		if got := c.DocumentSyncKind(); got != tt.kind {
			t.Errorf("caps %s: kind = %v, want %v", tt.caps, got, tt.kind)
		}
		if got := c.OpenCloseSupported(); got != tt.openClose {
			t.Errorf("caps %s: openClose = %v, want %v", tt.caps, got, tt.openClose)
		}
	}
}

func TestBridgeFullSync(t *testing.T) {
	c, srv := newTestClient(t)
	c.caps = gjson.Parse(`{"textDocumentSync":1}`)

	buf := buffer.New("ab\n", buffer.WithPath("/ws/main.go", "/ws"))
	bridge := NewBridge(c, buf)

	if err := bridge.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	open := srv.read(t)
	if open.Get("method").String() != "textDocument/didOpen" {
		t.Fatalf("first message = %q", open.Get("method").String())
	}
	if got := open.Get("params.textDocument.text").String(); got != "ab\n" {
		t.Errorf("didOpen text = %q", got)
	}

	buf.InsertText("X", cursor.Cursor{Row: 0, Column: 1})
	change := srv.read(t)
	if change.Get("method").String() != "textDocument/didChange" {
		t.Fatalf("after edit = %q", change.Get("method").String())
	}
	// Full sync ships the whole document without a range.
	cc := change.Get("params.contentChanges.0")
	if cc.Get("range").Exists() {
		t.Error("full sync must not carry a range")
	}
	if got := cc.Get("text").String(); got != "aXb\n" {
		t.Errorf("didChange text = %q, want full content", got)
	}
	if got := int(change.Get("params.textDocument.version").Int()); got != 2 {
		t.Errorf("version = %d, want 2", got)
	}
}

func TestBridgeForwardsUndo(t *testing.T) {
	c, srv := newTestClient(t)
	c.caps = gjson.Parse(`{"textDocumentSync":1}`)

	buf := buffer.New("ab\n", buffer.WithPath("/ws/main.go", "/ws"))
	NewBridge(c, buf)

	buf.InsertText("X", cursor.Cursor{Row: 0, Column: 1})
	srv.read(t)

	if _, ok := buf.Undo(); !ok {
		t.Fatal("undo unavailable")
	}
	change := srv.read(t)
	if got := change.Get("method").String(); got != "textDocument/didChange" {
		t.Fatalf("after undo = %q, want didChange", got)
	}
	if got := change.Get("params.contentChanges.0.text").String(); got != "ab\n" {
		t.Errorf("undo didChange text = %q, want restored content", got)
	}
	if got := int(change.Get("params.textDocument.version").Int()); got != 3 {
		t.Errorf("version = %d, want 3", got)
	}
	// The inverse application reaches the server but not the edit log.
	if !buf.CanRedo() {
		t.Error("redo lost after undo")
	}
	if buf.CanUndo() {
		t.Error("undo logged its own inverse")
	}
}

func TestBridgeIncrementalSync(t *testing.T) {
	c, srv := newTestClient(t)
	c.caps = gjson.Parse(`{"textDocumentSync":{"change":2,"openClose":true}}`)

	buf := buffer.New("ab\ncd\n", buffer.WithPath("/ws/main.go", "/ws"))
	NewBridge(c, buf)

	buf.RemoveText(cursor.Selection{
		Cursor: cursor.Cursor{Row: 0, Column: 1},
		Mark:   cursor.Cursor{Row: 1, Column: 1},
	})

	change := srv.read(t)
	cc := change.Get("params.contentChanges.0")
	if got := cc.Get("text").String(); got != "" {
		t.Errorf("deletion text = %q, want empty", got)
	}
	if cc.Get("range.start.line").Int() != 0 || cc.Get("range.start.character").Int() != 1 {
		t.Errorf("range start = %s", cc.Get("range.start").Raw)
	}
	if cc.Get("range.end.line").Int() != 1 || cc.Get("range.end.character").Int() != 1 {
		t.Errorf("range end = %s", cc.Get("range.end").Raw)
	}
}

func TestBridgeSkipsUnnamedBuffers(t *testing.T) {
	// Bare client: no transport goroutines, so the outgoing queue can
	// be inspected directly.
	c := &Client{
		out:  make(chan outgoing, channelDepth),
		done: make(chan struct{}),
		caps: gjson.Parse(`{"textDocumentSync":1}`),
	}

	buf := buffer.New("scratch\n")
	bridge := NewBridge(c, buf)
	if err := bridge.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	buf.InsertText("x", cursor.Cursor{})
	if err := bridge.Saved(); err != nil {
		t.Fatalf("Saved: %v", err)
	}

	select {
	case msg := <-c.out:
		t.Fatalf("unexpected outgoing message %+v", msg)
	default:
	}
}

func TestRequestAfterClose(t *testing.T) {
	c, _ := newTestClient(t)
	c.Close()
	if _, err := c.Request("textDocument/hover", "{}"); err != ErrClosed {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	if err := c.Notify("initialized", "{}"); err != ErrClosed {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
