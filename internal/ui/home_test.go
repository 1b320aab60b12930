package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdash/agent-dash/internal/config"
	"github.com/agentdash/agent-dash/internal/session"
)

func newTestHome(t *testing.T) *Home {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	InitTheme("dark")
	cfg := &config.Config{
		AgentCommand:        "claude",
		PollIntervalSeconds: 2,
		Theme:               "dark",
	}
	h := NewHome(cfg, HomeOptions{})
	h.width = 100
	h.height = 40
	h.layout()
	return h
}

func seedSessions(h *Home, sessions ...session.Session) {
	h.sessions = sessions
	h.rebuild()
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(h *Home, keys ...string) {
	for _, k := range keys {
		h.Update(key(k))
	}
}

func TestHomeStartsInNormalMode(t *testing.T) {
	h := newTestHome(t)
	assert.Equal(t, ModeNormal, h.Mode())
}

func TestHelpModeTransitions(t *testing.T) {
	h := newTestHome(t)

	press(h, "?")
	assert.Equal(t, ModeHelp, h.Mode())

	press(h, "/")
	assert.Equal(t, ModeHelpFilter, h.Mode())

	press(h, "esc")
	assert.Equal(t, ModeHelp, h.Mode())

	press(h, "esc")
	assert.Equal(t, ModeNormal, h.Mode())
}

func TestHelpFilterSwallowsGlobalKeys(t *testing.T) {
	h := newTestHome(t)

	press(h, "?", "/", "q")
	// "q" goes into the filter text, not to quit
	assert.Equal(t, ModeHelpFilter, h.Mode())
	assert.Equal(t, "q", h.help.filter.Value())
}

func TestConfirmCloseRequiresSessionRow(t *testing.T) {
	h := newTestHome(t)
	seedSessions(h,
		session.Session{PaneID: "%1", PaneTarget: "main:1.0", Owner: "main", Status: session.StatusIdle},
	)

	// cursor starts on the group header; x does nothing there
	require.Equal(t, session.ItemGroupHeader, h.list.Selected().Kind)
	press(h, "x")
	assert.Equal(t, ModeNormal, h.Mode())

	h.list.SetCursor(1)
	press(h, "x")
	assert.Equal(t, ModeConfirmClose, h.Mode())
	assert.Equal(t, "%1", h.confirm.PaneID())

	press(h, "n")
	assert.Equal(t, ModeNormal, h.Mode())
}

func TestConfirmCloseEscCancels(t *testing.T) {
	h := newTestHome(t)
	seedSessions(h,
		session.Session{PaneID: "%1", PaneTarget: "main:1.0", Owner: "main", Status: session.StatusIdle},
	)
	h.list.SetCursor(1)

	press(h, "x", "esc")
	assert.Equal(t, ModeNormal, h.Mode())
}

func TestFocusSwitching(t *testing.T) {
	h := newTestHome(t)

	assert.Equal(t, FocusList, h.focus)
	press(h, "0")
	assert.Equal(t, FocusPreview, h.focus)
	press(h, "1")
	assert.Equal(t, FocusList, h.focus)
}

func TestFlatViewToggle(t *testing.T) {
	h := newTestHome(t)
	seedSessions(h,
		session.Session{PaneID: "%1", PaneTarget: "a:1.0", Owner: "a", Status: session.StatusIdle},
		session.Session{PaneID: "%2", PaneTarget: "b:1.0", Owner: "b", Status: session.StatusIdle},
	)

	// grouped: 2 headers + 2 rows
	assert.Len(t, h.list.Items(), 4)

	press(h, "`")
	assert.True(t, h.flatView)
	assert.Len(t, h.list.Items(), 2)
	for _, item := range h.list.Items() {
		assert.Equal(t, session.ItemSessionRow, item.Kind)
	}

	press(h, "`")
	assert.Len(t, h.list.Items(), 4)
}

func TestCollapseFromRowMovesToHeader(t *testing.T) {
	h := newTestHome(t)
	seedSessions(h,
		session.Session{PaneID: "%1", PaneTarget: "main:1.0", Owner: "main", Status: session.StatusIdle},
		session.Session{PaneID: "%2", PaneTarget: "main:2.0", Owner: "main", Status: session.StatusIdle},
	)

	h.list.SetCursor(2) // second session row
	press(h, "h")

	assert.True(t, h.collapsed["main"])
	assert.Len(t, h.list.Items(), 1)
	assert.Equal(t, 0, h.list.Cursor())
	assert.Equal(t, session.ItemGroupHeader, h.list.Selected().Kind)

	press(h, "l")
	assert.False(t, h.collapsed["main"])
	assert.Len(t, h.list.Items(), 3)
}

func TestEnterOnHeaderTogglesCollapse(t *testing.T) {
	h := newTestHome(t)
	seedSessions(h,
		session.Session{PaneID: "%1", PaneTarget: "main:1.0", Owner: "main", Status: session.StatusIdle},
	)

	press(h, "enter")
	assert.True(t, h.collapsed["main"])
	press(h, "enter")
	assert.False(t, h.collapsed["main"])
}

func TestMarkReadClearsUnread(t *testing.T) {
	h := newTestHome(t)
	active := session.Session{PaneID: "%1", PaneTarget: "main:1.0", Owner: "main", Status: session.StatusActive}
	h.state = h.state.Update([]session.Session{active})

	idle := active
	idle.Status = session.StatusIdle
	h.state = h.state.Update([]session.Session{idle})
	require.True(t, h.state.Unread["%1"])

	seedSessions(h, idle)
	h.list.SetCursor(1)
	press(h, "r")

	assert.False(t, h.state.Unread["%1"])
}

func TestPollErrorKeepsPreviousSessions(t *testing.T) {
	h := newTestHome(t)
	seedSessions(h,
		session.Session{PaneID: "%1", PaneTarget: "main:1.0", Owner: "main", Status: session.StatusIdle},
	)

	h.Update(sessionsMsg{err: assert.AnError})

	assert.Len(t, h.sessions, 1)
	assert.NotEmpty(t, h.pollErr)
}

func TestPollReplacesSessions(t *testing.T) {
	h := newTestHome(t)
	h.polled = true // skip the focused-pane auto-select path

	h.Update(sessionsMsg{result: session.DiscoveryResult{
		Sessions: []session.Session{
			{PaneID: "%7", PaneTarget: "work:1.0", Owner: "work", Status: session.StatusActive},
		},
		DisplayNames: map[string]string{"work": "Work"},
	}})

	require.Len(t, h.sessions, 1)
	assert.Equal(t, "%7", h.sessions[0].PaneID)
	assert.Empty(t, h.pollErr)
	assert.Equal(t, "Work", h.list.Items()[0].DisplayName)
}

func TestSelectionSurvivesPoll(t *testing.T) {
	h := newTestHome(t)
	h.polled = true
	sessions := []session.Session{
		{PaneID: "%1", PaneTarget: "a:1.0", Owner: "a", Status: session.StatusIdle},
		{PaneID: "%2", PaneTarget: "b:1.0", Owner: "b", Status: session.StatusIdle},
	}
	seedSessions(h, sessions...)
	h.list.SetCursor(3) // row %2

	// %1 disappears; the cursor must still point at %2
	h.Update(sessionsMsg{result: session.DiscoveryResult{
		Sessions: sessions[1:],
	}})

	sel := h.list.Selected()
	require.NotNil(t, sel)
	require.Equal(t, session.ItemSessionRow, sel.Kind)
	assert.Equal(t, "%2", sel.Session.PaneID)
}

func TestStaleToastExpiryIgnored(t *testing.T) {
	h := newTestHome(t)

	h.showToast("first")
	h.showToast("second")
	h.Update(toastExpiredMsg{seq: 1})
	assert.Equal(t, "second", h.toast)

	h.Update(toastExpiredMsg{seq: 2})
	assert.Empty(t, h.toast)
}

func TestStalePreviewDropped(t *testing.T) {
	h := newTestHome(t)
	seedSessions(h,
		session.Session{PaneID: "%1", PaneTarget: "a:1.0", Owner: "a", Status: session.StatusIdle},
		session.Session{PaneID: "%2", PaneTarget: "b:1.0", Owner: "b", Status: session.StatusIdle},
	)
	h.list.SetCursor(1) // row %1

	h.Update(previewMsg{paneID: "%2", content: "old pane"})
	assert.Equal(t, "", h.preview.Target())

	h.Update(previewMsg{paneID: "%1", content: "hello"})
	assert.Equal(t, "%1", h.preview.Target())
}
