package ui

import "github.com/sahilm/fuzzy"

// KeybindEntry is one row of the help overlay.
type KeybindEntry struct {
	Key         string
	Description string
	Context     string
}

// Keybinds is the canonical binding table, in display order.
var Keybinds = []KeybindEntry{
	{"0", "Focus preview pane", "global"},
	{"1", "Focus session list", "global"},
	{"j / ↓", "Next session / Scroll down", "sessions"},
	{"k / ↑", "Previous session / Scroll up", "sessions"},
	{"h", "Collapse group", "sessions"},
	{"l", "Expand group", "sessions"},
	{"o", "Switch to tmux pane", "global"},
	{"O", "Open pane scrollback in popup", "global"},
	{"r", "Mark session as read", "sessions"},
	{"c", "Create new session", "sessions"},
	{"x", "Close session pane", "sessions"},
	{"`", "Toggle flat view", "sessions"},
	{"y", "Copy preview to clipboard", "preview"},
	{"?", "Toggle help", "global"},
	{"/", "Filter keybinds", "help"},
	{"q", "Quit", "global"},
}

// keybindSource adapts Keybinds for fuzzy matching across key,
// description, and context.
type keybindSource []KeybindEntry

func (s keybindSource) String(i int) string {
	return s[i].Key + " " + s[i].Description + " " + s[i].Context
}

func (s keybindSource) Len() int { return len(s) }

// FilterKeybinds returns the entries matching query, best match first.
// An empty query returns the full table in canonical order.
func FilterKeybinds(query string) []KeybindEntry {
	if query == "" {
		return Keybinds
	}
	matches := fuzzy.FindFrom(query, keybindSource(Keybinds))
	result := make([]KeybindEntry, 0, len(matches))
	for _, m := range matches {
		result = append(result, Keybinds[m.Index])
	}
	return result
}
