package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentdash/agent-dash/internal/session"
)

func rows(n int) []session.VisibleItem {
	items := make([]session.VisibleItem, n)
	for i := range items {
		items[i] = session.VisibleItem{Kind: session.ItemSessionRow}
	}
	return items
}

func TestListCursorBounds(t *testing.T) {
	l := NewList()
	l.SetItems(rows(3))

	l.MoveUp()
	assert.Equal(t, 0, l.Cursor())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Cursor())
}

func TestListCursorClampedOnShrink(t *testing.T) {
	l := NewList()
	l.SetItems(rows(5))
	l.SetCursor(4)

	l.SetItems(rows(2))
	assert.Equal(t, 1, l.Cursor())
}

func TestListSelectedEmpty(t *testing.T) {
	l := NewList()
	assert.Nil(t, l.Selected())
	l.MoveDown() // no panic on empty list
	assert.Equal(t, 0, l.Cursor())
}

func TestFilterKeybinds(t *testing.T) {
	all := FilterKeybinds("")
	assert.Equal(t, Keybinds, all)

	matches := FilterKeybinds("flat")
	assert.NotEmpty(t, matches)
	assert.Equal(t, "`", matches[0].Key)

	assert.Empty(t, FilterKeybinds("zzzzzzz"))
}
