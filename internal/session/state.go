package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentdash/agent-dash/internal/config"
	"github.com/agentdash/agent-dash/internal/logging"
)

var stateLog = logging.ForComponent(logging.CompState)

// StateFileName is the persisted status/unread file under the config dir.
const StateFileName = "state.json"

// persistedState is the on-disk JSON shape. Field names are part of the
// file format; do not rename.
type persistedState struct {
	UnreadPaneIDs []string          `json:"unreadPaneIds"`
	PrevStatusMap map[string]Status `json:"prevStatusMap"`
	UnreadOrder   map[string]uint64 `json:"unreadOrder,omitempty"`
	UnreadCounter uint64            `json:"unreadCounter,omitempty"`
}

// Store persists State to disk. Writes are serialized through the
// mutex and best-effort: a failed write is logged and dropped, never
// surfaced — losing an unread flag beats crashing the dashboard.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store rooted at the per-user config dir. An
// unresolvable home directory yields a store that loads empty and
// drops writes.
func NewStore() *Store {
	dir, err := config.Dir()
	if err != nil {
		stateLog.Warn("state_dir_unavailable", slog.Any("error", err))
		return &Store{}
	}
	return &Store{path: filepath.Join(dir, StateFileName)}
}

// NewStoreAt returns a store using an explicit file path (tests).
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted state. Missing or malformed files yield an
// empty state — persistence problems must never block startup.
func (st *Store) Load() State {
	state := NewState()
	if st.path == "" {
		return state
	}
	data, err := os.ReadFile(st.path)
	if err != nil {
		return state
	}
	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil {
		stateLog.Warn("state_file_malformed", slog.String("path", st.path), slog.Any("error", err))
		return state
	}
	for _, id := range p.UnreadPaneIDs {
		state.Unread[id] = true
	}
	for id, status := range p.PrevStatusMap {
		state.PrevStatus[id] = status
	}
	for id, n := range p.UnreadOrder {
		state.UnreadOrder[id] = n
	}
	state.UnreadCounter = p.UnreadCounter
	return state
}

// Save writes the state to disk. Errors are logged and swallowed.
func (st *Store) Save(state State) {
	if st.path == "" {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	p := persistedState{
		UnreadPaneIDs: make([]string, 0, len(state.Unread)),
		PrevStatusMap: state.PrevStatus,
		UnreadOrder:   state.UnreadOrder,
		UnreadCounter: state.UnreadCounter,
	}
	for id := range state.Unread {
		p.UnreadPaneIDs = append(p.UnreadPaneIDs, id)
	}

	data, err := json.Marshal(p)
	if err != nil {
		stateLog.Warn("state_marshal_failed", slog.Any("error", err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		stateLog.Warn("state_dir_create_failed", slog.Any("error", err))
		return
	}
	// Write-then-rename so a concurrent reader never sees a torn file.
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		stateLog.Warn("state_write_failed", slog.String("path", st.path), slog.Any("error", err))
		return
	}
	if err := os.Rename(tmp, st.path); err != nil {
		stateLog.Warn("state_rename_failed", slog.String("path", st.path), slog.Any("error", err))
	}
}

// Path returns the state file location ("" when unavailable).
func (st *Store) Path() string {
	return st.path
}
