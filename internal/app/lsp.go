package app

import (
	"github.com/satwik-kambham/rift/internal/engine/buffer"
	"github.com/satwik-kambham/rift/internal/highlight"
	"github.com/satwik-kambham/rift/internal/lsp"
)

// attachServer connects a buffer to the server for its language,
// spawning and initializing one on first use. Server failures are
// logged and leave the buffer working without language support.
func (a *App) attachServer(id int, buf *buffer.Buffer) {
	command := a.prefs.ServerCommand(buf.Language())
	if len(command) == 0 || buf.Path() == "" {
		return
	}

	client, ok := a.clients[buf.Language()]
	if !ok {
		var err error
		client, err = lsp.Start(a.logger, command[0], command[1:]...)
		if err != nil {
			a.logger.Warnf("%s server unavailable: %v", buf.Language(), err)
			return
		}
		if err := client.Initialize(a.workspace); err != nil {
			a.logger.Warnf("%s server init failed: %v", buf.Language(), err)
			client.Close()
			return
		}
		a.clients[buf.Language()] = client
	}

	bridge := lsp.NewBridge(client, buf)
	if err := bridge.Open(); err != nil {
		a.logger.Warnf("didOpen for %s failed: %v", buf.DisplayName(), err)
	}
	a.bridges[id] = bridge
}

func (a *App) clientFor(buf *buffer.Buffer) (*lsp.Client, bool) {
	client, ok := a.clients[buf.Language()]
	return client, ok && buf.Path() != ""
}

// RequestHover asks for documentation at the cursor.
func (a *App) RequestHover() {
	a.request(func(c *lsp.Client, buf *buffer.Buffer, in *buffer.Instance) (int, error) {
		return c.Request("textDocument/hover", lsp.HoverParams(buf.Path(), in.Cursor))
	})
}

// RequestCompletion asks for completions at the cursor.
func (a *App) RequestCompletion() {
	a.request(func(c *lsp.Client, buf *buffer.Buffer, in *buffer.Instance) (int, error) {
		return c.Request("textDocument/completion", lsp.CompletionParams(buf.Path(), in.Cursor))
	})
}

// RequestSignatureHelp asks for the active call's signature.
func (a *App) RequestSignatureHelp() {
	a.request(func(c *lsp.Client, buf *buffer.Buffer, in *buffer.Instance) (int, error) {
		return c.Request("textDocument/signatureHelp", lsp.SignatureHelpParams(buf.Path(), in.Cursor))
	})
}

// RequestDefinition asks where the symbol at the cursor is defined.
func (a *App) RequestDefinition() {
	a.request(func(c *lsp.Client, buf *buffer.Buffer, in *buffer.Instance) (int, error) {
		return c.Request("textDocument/definition", lsp.DefinitionParams(buf.Path(), in.Cursor))
	})
}

// RequestReferences asks for all references to the symbol at the
// cursor.
func (a *App) RequestReferences() {
	a.request(func(c *lsp.Client, buf *buffer.Buffer, in *buffer.Instance) (int, error) {
		return c.Request("textDocument/references", lsp.ReferencesParams(buf.Path(), in.Cursor))
	})
}

// RequestFormatting asks for whole-document formatting edits.
func (a *App) RequestFormatting() {
	a.request(func(c *lsp.Client, buf *buffer.Buffer, in *buffer.Instance) (int, error) {
		return c.Request("textDocument/formatting", lsp.FormattingParams(buf.Path(), a.prefs.TabWidth))
	})
}

func (a *App) request(send func(*lsp.Client, *buffer.Buffer, *buffer.Instance) (int, error)) {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	client, ok := a.clientFor(buf)
	if !ok {
		return
	}
	if _, err := send(client, buf, in); err != nil {
		a.logger.Warnf("request failed: %v", err)
	}
}

// PollServers drains at most one message per language server and
// dispatches it. Call once per frame.
func (a *App) PollServers() {
	for lang, client := range a.clients {
		if msg, ok := client.Poll(); ok {
			a.dispatch(lang, msg)
		}
	}
}

func (a *App) dispatch(lang highlight.Language, msg lsp.Incoming) {
	if msg.Notification {
		a.dispatchNotification(lang, msg)
		return
	}
	if msg.Err != nil {
		a.logger.Errorf("%s request %d failed: %v", lang, msg.ID, msg.Err)
		return
	}
	if !msg.Result.Exists() {
		return
	}

	buf, in, focused := a.focused()

	switch msg.Method {
	case "textDocument/hover":
		a.hover = lsp.ParseHover(msg.Result)
	case "textDocument/completion":
		if focused {
			a.completions = lsp.ParseCompletions(msg.Result, buf, in.Cursor)
		}
	case "textDocument/signatureHelp":
		if sig := lsp.ParseSignature(msg.Result); sig != "" {
			a.signature = sig
		}
	case "textDocument/definition":
		a.definitions = lsp.ParseLocations(msg.Result)
	case "textDocument/references":
		a.references = lsp.ParseLocations(msg.Result)
	case "textDocument/formatting":
		if focused {
			a.applyFormatting(buf, in, lsp.ParseFormattingEdits(msg.Result))
		}
	default:
		a.logger.Debugf("%s response to %s ignored", lang, msg.Method)
	}
}

func (a *App) dispatchNotification(lang highlight.Language, msg lsp.Incoming) {
	switch msg.Method {
	case "textDocument/publishDiagnostics":
		pub := lsp.ParseDiagnostics(msg.Params)
		a.diagnostics[pub.Path] = pub
	default:
		a.logger.Debugf("%s notification %s ignored", lang, msg.Method)
	}
}

// applyFormatting applies formatting edits last to first so earlier
// spans keep their coordinates.
func (a *App) applyFormatting(buf *buffer.Buffer, in *buffer.Instance, edits []lsp.TextEdit) {
	for i := len(edits) - 1; i >= 0; i-- {
		edit := edits[i]
		if !edit.Range.IsEmpty() {
			buf.RemoveText(edit.Range)
		}
		start, _ := edit.Range.InOrder()
		at := buf.InsertText(edit.Text, start)
		in.SetCursor(at)
	}
}

// Hover returns the latest hover text.
func (a *App) Hover() string { return a.hover }

// Completions returns the latest completion items.
func (a *App) Completions() []lsp.CompletionItem { return a.completions }

// Signature returns the latest signature help label.
func (a *App) Signature() string { return a.signature }

// Definitions returns the latest definition locations.
func (a *App) Definitions() []lsp.Location { return a.definitions }

// References returns the latest reference locations.
func (a *App) References() []lsp.Location { return a.references }

// Diagnostics returns the published diagnostics for a file path.
func (a *App) Diagnostics(path string) (lsp.PublishedDiagnostics, bool) {
	pub, ok := a.diagnostics[path]
	return pub, ok
}

// ApplyCompletion replaces the completion item's span with its text.
func (a *App) ApplyCompletion(item lsp.CompletionItem) {
	buf, in, ok := a.focused()
	if !ok {
		return
	}
	if !item.Edit.Range.IsEmpty() {
		buf.RemoveText(item.Edit.Range)
	}
	start, _ := item.Edit.Range.InOrder()
	at := buf.InsertText(item.Edit.Text, start)
	in.SetCursor(at)
	a.completions = nil
}
