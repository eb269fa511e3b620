// Package config loads editor preferences from a TOML file, falling
// back to defaults for anything unset.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/satwik-kambham/rift/internal/highlight"
)

// Preferences are the user-tunable editor settings.
type Preferences struct {
	TabWidth   int    `toml:"tab_width"`
	LineEnding string `toml:"line_ending"`
	Theme      string `toml:"theme"`

	// TriggerCompletionOnType requests completions after every
	// insertion in insert mode.
	TriggerCompletionOnType bool `toml:"trigger_completion_on_type"`

	// Language holds per-language overrides keyed by language tag
	// ("go", "rust", ...).
	Language map[string]LanguagePrefs `toml:"language"`
}

// LanguagePrefs overrides language defaults.
type LanguagePrefs struct {
	// ServerCommand replaces the built-in language server command;
	// the first element is the program.
	ServerCommand []string `toml:"server_command"`
	// CommentToken replaces the built-in line comment token.
	CommentToken string `toml:"comment_token"`
}

// Default returns the built-in preferences.
func Default() Preferences {
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return Preferences{
		TabWidth:                4,
		LineEnding:              eol,
		Theme:                   "default",
		TriggerCompletionOnType: true,
	}
}

// Load reads preferences from path. A missing file is not an error
// and yields the defaults.
func Load(path string) (Preferences, error) {
	prefs := Default()
	if _, err := toml.DecodeFile(path, &prefs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prefs, nil
		}
		return prefs, err
	}
	return prefs, nil
}

// DefaultPath returns the conventional preferences location under the
// user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rift", "preferences.toml")
}

// CommentToken returns the line comment token for a language, the
// user override winning over the built-in table.
func (p Preferences) CommentToken(lang highlight.Language) string {
	if lp, ok := p.Language[lang.String()]; ok && lp.CommentToken != "" {
		return lp.CommentToken
	}
	return lang.CommentToken()
}

// ServerCommand returns the language server command for a language,
// the user override winning over the built-in table. An empty slice
// means no server.
func (p Preferences) ServerCommand(lang highlight.Language) []string {
	if lp, ok := p.Language[lang.String()]; ok && len(lp.ServerCommand) > 0 {
		return lp.ServerCommand
	}
	return lang.Capabilities().ServerCommand
}
