package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/agentdash/agent-dash/internal/session"
)

// List renders the flattened visible-item list with a cursor.
type List struct {
	items  []session.VisibleItem
	cursor int
	offset int // first visible row, for scrolling
	width  int
	height int
}

// NewList creates an empty list.
func NewList() *List {
	return &List{}
}

// SetItems replaces the display list. The cursor is expected to have
// been resolved by the caller (selection stabilizer) before this call.
func (l *List) SetItems(items []session.VisibleItem) {
	l.items = items
	if l.cursor > len(items)-1 {
		l.cursor = len(items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Items returns the current display list.
func (l *List) Items() []session.VisibleItem {
	return l.items
}

// Len returns the number of visible items.
func (l *List) Len() int {
	return len(l.items)
}

// Cursor returns the cursor index.
func (l *List) Cursor() int {
	return l.cursor
}

// SetCursor moves the cursor to idx, clamped to the list bounds.
func (l *List) SetCursor(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(l.items)-1 {
		idx = len(l.items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	l.cursor = idx
}

// Selected returns the item under the cursor, or nil when empty.
func (l *List) Selected() *session.VisibleItem {
	if len(l.items) == 0 || l.cursor >= len(l.items) {
		return nil
	}
	return &l.items[l.cursor]
}

// MoveUp moves the cursor up one row.
func (l *List) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down one row.
func (l *List) MoveDown() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
}

// SetSize sets the rendering viewport.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// View renders the list.
func (l *List) View() string {
	if len(l.items) == 0 {
		return StatusBarStyle.Render("No agent sessions found")
	}

	l.scrollIntoView()

	var b strings.Builder
	end := l.offset + l.height
	if end > len(l.items) || l.height <= 0 {
		end = len(l.items)
	}
	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderItem(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l *List) scrollIntoView() {
	if l.height <= 0 {
		l.offset = 0
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
}

func (l *List) renderItem(i int) string {
	item := l.items[i]
	selected := i == l.cursor

	var line string
	switch item.Kind {
	case session.ItemGroupHeader:
		arrow := "▼"
		if item.Collapsed {
			arrow = "▶"
		}
		markers := ""
		if item.HasActive {
			markers += " " + ActiveMarkerStyle.Render("●")
		}
		if item.HasUnread {
			markers += " " + UnreadMarkerStyle.Render("◆")
		}
		label := fmt.Sprintf("%s %s (%d)", arrow, item.DisplayName, item.Count)
		if selected {
			return SelectedRowStyle.Render(l.truncate(label)) + markers
		}
		return GroupHeaderStyle.Render(l.truncate(label)) + markers

	case session.ItemSessionRow:
		marker := IdleMarkerStyle.Render("○")
		if item.Session.Status == session.StatusActive {
			marker = ActiveMarkerStyle.Render("●")
		}
		unread := " "
		if item.Unread {
			unread = UnreadMarkerStyle.Render("◆")
		}
		title := item.Session.Title
		if title == "" {
			title = item.Session.PaneTarget
		}
		line = fmt.Sprintf("  %s %s %s", marker, unread, l.truncate(title))
		if selected {
			return SelectedRowStyle.Render("▶ ") + line[2:]
		}
		return SessionRowStyle.Render(line)
	}
	return line
}

// truncate trims s to the list width accounting for wide runes.
func (l *List) truncate(s string) string {
	max := l.width - 6
	if max <= 0 {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}
