package ui

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agentdash/agent-dash/internal/logging"
)

var watcherLog = logging.ForComponent(logging.CompState)

// StateWatcher monitors the unread-state file for external changes,
// such as another dashboard instance marking sessions read.
type StateWatcher struct {
	watcher   *fsnotify.Watcher
	statePath string
	reloadCh  chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once

	// Tracks when this instance saved, to ignore self-triggered events
	lastSaveTime time.Time
	saveMu       sync.RWMutex
}

// ignoreWindow is the time window after NotifySave during which file
// events are treated as our own writes.
const ignoreWindow = 1 * time.Second

// NewStateWatcher creates a watcher for the given state file. The
// parent directory is watched because save replaces the file by rename.
func NewStateWatcher(statePath string) (*StateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(statePath)); err != nil {
		w.Close()
		return nil, err
	}
	return &StateWatcher{
		watcher:   w,
		statePath: statePath,
		reloadCh:  make(chan struct{}, 1),
		closeCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for changes (non-blocking).
func (sw *StateWatcher) Start() {
	go sw.eventLoop()
}

func (sw *StateWatcher) eventLoop() {
	for {
		select {
		case <-sw.closeCh:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			sw.handleEvent(event)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			watcherLog.Debug("watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (sw *StateWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != sw.statePath {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	sw.saveMu.RLock()
	lastSave := sw.lastSaveTime
	sw.saveMu.RUnlock()

	if time.Since(lastSave) < ignoreWindow {
		watcherLog.Debug("watcher_ignoring_own_save")
		return
	}

	watcherLog.Debug("watcher_state_changed", slog.String("op", event.Op.String()))

	// Non-blocking send (drop if channel full)
	select {
	case sw.reloadCh <- struct{}{}:
	default:
	}
}

// ReloadChannel returns the channel that signals when reload is needed.
func (sw *StateWatcher) ReloadChannel() <-chan struct{} {
	return sw.reloadCh
}

// NotifySave should be called right before saving the state file so
// the resulting event is not mistaken for an external change.
func (sw *StateWatcher) NotifySave() {
	sw.saveMu.Lock()
	sw.lastSaveTime = time.Now()
	sw.saveMu.Unlock()
}

// Close stops the watcher and releases resources. Safe to call multiple times.
func (sw *StateWatcher) Close() error {
	var err error
	sw.closeOnce.Do(func() {
		close(sw.closeCh)
		err = sw.watcher.Close()
	})
	return err
}
