package session

import "sort"

// Group is all agent sessions belonging to one tmux session, in
// first-seen pane order.
type Group struct {
	Owner    string
	Sessions []Session
}

// ItemKind discriminates the two visible-item shapes.
type ItemKind int

const (
	ItemGroupHeader ItemKind = iota
	ItemSessionRow
)

// VisibleItem is one row of the flattened display list: either a group
// header or a session row. Row fields are only meaningful for the kind
// they belong to.
type VisibleItem struct {
	Kind        ItemKind
	Owner       string // both kinds; a row's Owner is its group's Owner
	DisplayName string

	// GroupHeader fields
	Count     int
	HasActive bool
	HasUnread bool
	Collapsed bool

	// SessionRow fields
	Session Session
	Unread  bool
}

// GroupByOwner buckets sessions by tmux session name, preserving
// first-seen order at both the group and session level.
func GroupByOwner(sessions []Session) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, s := range sessions {
		i, ok := index[s.Owner]
		if !ok {
			i = len(groups)
			index[s.Owner] = i
			groups = append(groups, Group{Owner: s.Owner})
		}
		groups[i].Sessions = append(groups[i].Sessions, s)
	}
	return groups
}

// BuildVisible flattens groups into the display list. Each group emits
// one header; expanded groups additionally emit one row per session.
// Header aggregate flags are ORs over the group's members. The list is
// rebuilt from scratch on every change, never patched.
func BuildVisible(groups []Group, collapsed map[string]bool, unread map[string]bool, displayNames map[string]string) []VisibleItem {
	var items []VisibleItem
	for _, g := range groups {
		hasActive, hasUnread := false, false
		for _, s := range g.Sessions {
			if s.Status == StatusActive {
				hasActive = true
			}
			if unread[s.PaneID] {
				hasUnread = true
			}
		}
		name := displayNames[g.Owner]
		if name == "" {
			name = g.Owner
		}
		isCollapsed := collapsed[g.Owner]
		items = append(items, VisibleItem{
			Kind:        ItemGroupHeader,
			Owner:       g.Owner,
			DisplayName: name,
			Count:       len(g.Sessions),
			HasActive:   hasActive,
			HasUnread:   hasUnread,
			Collapsed:   isCollapsed,
		})
		if isCollapsed {
			continue
		}
		for _, s := range g.Sessions {
			items = append(items, VisibleItem{
				Kind:        ItemSessionRow,
				Owner:       g.Owner,
				DisplayName: name,
				Session:     s,
				Unread:      unread[s.PaneID],
			})
		}
	}
	return items
}

// BuildFlatVisible builds the ungrouped view: session rows only, unread
// sessions first in most-recently-unread order, the rest in discovery
// order.
func BuildFlatVisible(sessions []Session, unread map[string]bool, unreadOrder map[string]uint64, displayNames map[string]string) []VisibleItem {
	row := func(s Session) VisibleItem {
		name := displayNames[s.Owner]
		if name == "" {
			name = s.Owner
		}
		return VisibleItem{
			Kind:        ItemSessionRow,
			Owner:       s.Owner,
			DisplayName: name,
			Session:     s,
			Unread:      unread[s.PaneID],
		}
	}

	var unreadRows, rest []VisibleItem
	for _, s := range sessions {
		if unread[s.PaneID] {
			unreadRows = append(unreadRows, row(s))
		} else {
			rest = append(rest, row(s))
		}
	}
	sort.SliceStable(unreadRows, func(i, j int) bool {
		return unreadOrder[unreadRows[i].Session.PaneID] > unreadOrder[unreadRows[j].Session.PaneID]
	})
	return append(unreadRows, rest...)
}

// ResolveSelection maps the old cursor position onto the new display
// list. A session row follows its pane id, a header follows its owner;
// when the old item is gone the index is clamped.
func ResolveSelection(newItems, oldItems []VisibleItem, oldIndex int) int {
	if oldIndex >= 0 && oldIndex < len(oldItems) {
		old := oldItems[oldIndex]
		for i, item := range newItems {
			if item.Kind != old.Kind {
				continue
			}
			switch old.Kind {
			case ItemSessionRow:
				if item.Session.PaneID == old.Session.PaneID {
					return i
				}
			case ItemGroupHeader:
				if item.Owner == old.Owner {
					return i
				}
			}
		}
	}
	if len(newItems) == 0 {
		return 0
	}
	if oldIndex < 0 {
		return 0
	}
	if oldIndex > len(newItems)-1 {
		return len(newItems) - 1
	}
	return oldIndex
}

// AutoSelect picks the initial cursor position: the row for the focused
// tmux pane if it is an agent session, else the first agent row inside
// the focused tmux session, else the top of the list.
func AutoSelect(items []VisibleItem, focusedPaneID, focusedOwner string) int {
	for i, item := range items {
		if item.Kind == ItemSessionRow && item.Session.PaneID == focusedPaneID {
			return i
		}
	}
	for i, item := range items {
		if item.Kind == ItemSessionRow && item.Session.Owner == focusedOwner {
			return i
		}
	}
	return 0
}
