package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateFirstObservationNeverUnread(t *testing.T) {
	state := NewState()
	state = state.Update([]Session{mkSession("%1", "a", StatusIdle)})

	assert.Empty(t, state.Unread)
	assert.Equal(t, StatusIdle, state.PrevStatus["%1"])
}

func TestUpdateActiveToIdleBecomesUnread(t *testing.T) {
	state := NewState()
	state = state.Update([]Session{mkSession("%1", "a", StatusActive)})
	assert.Empty(t, state.Unread)

	state = state.Update([]Session{mkSession("%1", "a", StatusIdle)})
	assert.True(t, state.Unread["%1"])
	assert.Equal(t, uint64(1), state.UnreadOrder["%1"])
}

func TestUpdateIdleToActiveDoesNotClearUnread(t *testing.T) {
	state := NewState()
	state = state.Update([]Session{mkSession("%1", "a", StatusActive)})
	state = state.Update([]Session{mkSession("%1", "a", StatusIdle)})
	assert.True(t, state.Unread["%1"])

	// Agent wakes up again: still unread until explicitly read.
	state = state.Update([]Session{mkSession("%1", "a", StatusActive)})
	assert.True(t, state.Unread["%1"])

	// And a second finish keeps it unread with a newer order stamp.
	state = state.Update([]Session{mkSession("%1", "a", StatusIdle)})
	assert.True(t, state.Unread["%1"])
	assert.Equal(t, uint64(2), state.UnreadOrder["%1"])
}

func TestUpdatePrunesVanishedPanes(t *testing.T) {
	state := NewState()
	state = state.Update([]Session{
		mkSession("%1", "a", StatusActive),
		mkSession("%2", "a", StatusIdle),
	})
	state = state.Update([]Session{
		mkSession("%1", "a", StatusIdle),
		mkSession("%2", "a", StatusIdle),
	})
	assert.True(t, state.Unread["%1"])

	// %1 disappears entirely.
	state = state.Update([]Session{mkSession("%2", "a", StatusIdle)})
	assert.False(t, state.Unread["%1"])
	assert.NotContains(t, state.UnreadOrder, "%1")
	assert.NotContains(t, state.PrevStatus, "%1")
}

func TestMarkRead(t *testing.T) {
	state := NewState()
	state = state.Update([]Session{mkSession("%1", "a", StatusActive)})
	state = state.Update([]Session{mkSession("%1", "a", StatusIdle)})

	state = state.MarkRead("%1")
	assert.False(t, state.Unread["%1"])
	assert.NotContains(t, state.UnreadOrder, "%1")
	// Status snapshot is untouched.
	assert.Equal(t, StatusIdle, state.PrevStatus["%1"])
}

func TestObservePreventsFalseTransition(t *testing.T) {
	state := NewState()
	created := mkSession("%7", "a", StatusIdle)
	state = state.Observe(created)

	// The next poll sees it idle: no active→idle edge, no unread.
	state = state.Update([]Session{created})
	assert.False(t, state.Unread["%7"])
}

func TestForget(t *testing.T) {
	state := NewState()
	state = state.Update([]Session{mkSession("%1", "a", StatusActive)})
	state = state.Update([]Session{mkSession("%1", "a", StatusIdle)})

	state = state.Forget("%1")
	assert.NotContains(t, state.PrevStatus, "%1")
	assert.NotContains(t, state.Unread, "%1")
	assert.NotContains(t, state.UnreadOrder, "%1")
}

func TestUpdateDoesNotMutateReceiver(t *testing.T) {
	state := NewState()
	state = state.Update([]Session{mkSession("%1", "a", StatusActive)})
	before := state.clone()

	_ = state.Update([]Session{mkSession("%1", "a", StatusIdle)})

	assert.Equal(t, before.PrevStatus, state.PrevStatus)
	assert.Equal(t, before.Unread, state.Unread)
	assert.Equal(t, before.UnreadCounter, state.UnreadCounter)
}
