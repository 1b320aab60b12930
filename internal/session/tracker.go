package session

// State is the durable status-tracking store: the previous poll's
// status snapshot plus the unread set. It is an explicit value — Update
// and MarkRead return a fresh State rather than mutating ambient
// globals, so the transition logic is testable in isolation.
type State struct {
	// PrevStatus maps pane id to the status recorded last poll.
	PrevStatus map[string]Status

	// Unread holds panes whose agent went active→idle since last viewed.
	Unread map[string]bool

	// UnreadOrder records when each pane became unread, for
	// most-recent-first ordering in the flat view.
	UnreadOrder map[string]uint64

	// UnreadCounter is the monotonic clock behind UnreadOrder.
	UnreadCounter uint64
}

// NewState returns an empty store.
func NewState() State {
	return State{
		PrevStatus:  make(map[string]Status),
		Unread:      make(map[string]bool),
		UnreadOrder: make(map[string]uint64),
	}
}

// Update folds the current poll's sessions into the store. A pane
// becomes unread exactly when the previous snapshot had it active and
// it is now idle; a pane seen for the first time never does. Unread
// membership is pruned to panes that still exist — disappearance is the
// only implicit way out of the unread set.
func (s State) Update(sessions []Session) State {
	next := State{
		PrevStatus:    make(map[string]Status, len(sessions)),
		Unread:        make(map[string]bool, len(s.Unread)),
		UnreadOrder:   make(map[string]uint64, len(s.UnreadOrder)),
		UnreadCounter: s.UnreadCounter,
	}

	current := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		current[sess.PaneID] = true
		next.PrevStatus[sess.PaneID] = sess.Status
	}

	// Carry forward prior membership, minus vanished panes.
	for id := range s.Unread {
		if current[id] {
			next.Unread[id] = true
			next.UnreadOrder[id] = s.UnreadOrder[id]
		}
	}

	for _, sess := range sessions {
		if s.PrevStatus[sess.PaneID] == StatusActive && sess.Status == StatusIdle {
			next.UnreadCounter++
			next.Unread[sess.PaneID] = true
			next.UnreadOrder[sess.PaneID] = next.UnreadCounter
		}
	}

	return next
}

// MarkRead clears a pane's unread flag. This is the only explicit way
// an unread pane becomes read.
func (s State) MarkRead(paneID string) State {
	next := s.clone()
	delete(next.Unread, paneID)
	delete(next.UnreadOrder, paneID)
	return next
}

// Forget drops all record of a pane, for use after closing it.
func (s State) Forget(paneID string) State {
	next := s.clone()
	delete(next.PrevStatus, paneID)
	delete(next.Unread, paneID)
	delete(next.UnreadOrder, paneID)
	return next
}

// Observe records a single just-created session without running a full
// transition pass, so the pane's first real poll is not mistaken for a
// first observation of an unknown pane.
func (s State) Observe(sess Session) State {
	next := s.clone()
	next.PrevStatus[sess.PaneID] = sess.Status
	return next
}

func (s State) clone() State {
	next := State{
		PrevStatus:    make(map[string]Status, len(s.PrevStatus)),
		Unread:        make(map[string]bool, len(s.Unread)),
		UnreadOrder:   make(map[string]uint64, len(s.UnreadOrder)),
		UnreadCounter: s.UnreadCounter,
	}
	for k, v := range s.PrevStatus {
		next.PrevStatus[k] = v
	}
	for k := range s.Unread {
		next.Unread[k] = true
	}
	for k, v := range s.UnreadOrder {
		next.UnreadOrder[k] = v
	}
	return next
}
