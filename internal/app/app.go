// Package app ties the engine together: it owns the open buffers and
// their instances, the per-language server clients, the diagnostics
// store and the user preferences, and exposes the operations the
// frontend drives.
package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/satwik-kambham/rift/internal/config"
	"github.com/satwik-kambham/rift/internal/engine/buffer"
	"github.com/satwik-kambham/rift/internal/highlight"
	"github.com/satwik-kambham/rift/internal/logging"
	"github.com/satwik-kambham/rift/internal/lsp"
)

// App is the editor core. All methods are main-loop only.
type App struct {
	logger    *logging.Logger
	prefs     config.Preferences
	workspace string

	buffers   map[int]*buffer.Buffer
	instances map[int]*buffer.Instance
	nextID    int
	current   int

	clients map[highlight.Language]*lsp.Client
	bridges map[int]*lsp.Bridge

	// diagnostics, keyed by absolute file path.
	diagnostics map[string]lsp.PublishedDiagnostics

	// Latest results from the language server, replaced wholesale as
	// responses arrive.
	hover       string
	completions []lsp.CompletionItem
	signature   string
	definitions []lsp.Location
	references  []lsp.Location
}

// New creates an app rooted at the workspace folder.
func New(logger *logging.Logger, prefs config.Preferences, workspace string) *App {
	return &App{
		logger:      logger.WithComponent("app"),
		prefs:       prefs,
		workspace:   workspace,
		buffers:     map[int]*buffer.Buffer{},
		instances:   map[int]*buffer.Instance{},
		clients:     map[highlight.Language]*lsp.Client{},
		bridges:     map[int]*lsp.Bridge{},
		diagnostics: map[string]lsp.PublishedDiagnostics{},
		current:     -1,
	}
}

// Preferences returns the loaded preferences.
func (a *App) Preferences() config.Preferences { return a.prefs }

// Workspace returns the workspace folder.
func (a *App) Workspace() string { return a.workspace }

// CurrentID returns the focused buffer id, -1 when none is open.
func (a *App) CurrentID() int { return a.current }

// SetCurrent focuses an open buffer.
func (a *App) SetCurrent(id int) {
	if _, ok := a.buffers[id]; ok {
		a.current = id
	}
}

// Buffer returns an open buffer by id.
func (a *App) Buffer(id int) (*buffer.Buffer, bool) {
	b, ok := a.buffers[id]
	return b, ok
}

// Instance returns the view state for an open buffer.
func (a *App) Instance(id int) (*buffer.Instance, bool) {
	in, ok := a.instances[id]
	return in, ok
}

// BufferIDs returns the ids of all open buffers.
func (a *App) BufferIDs() []int {
	ids := make([]int, 0, len(a.buffers))
	for id := range a.buffers {
		ids = append(ids, id)
	}
	return ids
}

// OpenFile reads a file into a new buffer, focuses it, and attaches
// it to the language server for its language, starting one if
// needed. A file that is already open is focused instead.
func (a *App) OpenFile(path string) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	for id, b := range a.buffers {
		if b.Path() == abs {
			a.current = id
			return id, nil
		}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return 0, err
	}
	// Normalize to internal line endings.
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	buf := buffer.New(text, buffer.WithPath(abs, a.workspace))
	id := a.register(buf)
	a.attachServer(id, buf)
	a.logger.Infof("opened %s (%s)", buf.DisplayName(), buf.Language())
	return id, nil
}

// OpenScratch creates an unnamed buffer with the given content.
func (a *App) OpenScratch(text string) int {
	return a.register(buffer.New(text))
}

// OpenSpecial creates an ephemeral buffer for generated content.
func (a *App) OpenSpecial(text string) int {
	return a.register(buffer.New(text, buffer.WithSpecial()))
}

func (a *App) register(buf *buffer.Buffer) int {
	id := a.nextID
	a.nextID++
	a.buffers[id] = buf
	a.instances[id] = buffer.NewInstance(id)
	a.current = id
	return id
}

// SaveBuffer writes a buffer to its file using the configured line
// ending. The modified flag clears only after the write succeeds, so
// a failed save leaves the buffer marked dirty.
func (a *App) SaveBuffer(id int) error {
	buf, ok := a.buffers[id]
	if !ok || buf.Path() == "" || buf.Special() {
		return nil
	}

	content := buf.Content(a.prefs.LineEnding)
	if err := os.WriteFile(buf.Path(), []byte(content), 0o644); err != nil {
		a.logger.Errorf("save %s failed: %v", buf.DisplayName(), err)
		return err
	}
	buf.SetModified(false)

	if bridge, ok := a.bridges[id]; ok {
		if err := bridge.Saved(); err != nil {
			a.logger.Warnf("didSave for %s failed: %v", buf.DisplayName(), err)
		}
	}
	return nil
}

// CloseBuffer withdraws the buffer from its server and drops it.
func (a *App) CloseBuffer(id int) {
	if bridge, ok := a.bridges[id]; ok {
		bridge.Close()
		delete(a.bridges, id)
	}
	delete(a.buffers, id)
	delete(a.instances, id)
	if a.current == id {
		a.current = -1
		for other := range a.buffers {
			a.current = other
			break
		}
	}
}

// Close shuts down all language servers.
func (a *App) Close() {
	for lang, client := range a.clients {
		if err := client.Close(); err != nil {
			a.logger.Warnf("%s server shutdown: %v", lang, err)
		}
	}
}
