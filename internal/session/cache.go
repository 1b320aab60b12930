package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/agentdash/agent-dash/internal/config"
)

// The session cache gives the dashboard something to paint before the
// first discovery cycle completes. Content is advisory: the next poll
// replaces it wholesale, so staleness only costs one briefly-wrong frame.

const cacheFileName = "sessions.json"

// cacheMaxAge bounds how old a cache entry may be before it is ignored.
const cacheMaxAge = 365 * 24 * time.Hour

// CachedSessions is the cached poll result.
type CachedSessions struct {
	Sessions     []Session         `json:"sessions"`
	DisplayNames map[string]string `json:"displayNames"`
}

type cacheEntry struct {
	Value    CachedSessions `json:"value"`
	StoredAt int64          `json:"storedAt"` // unix millis
}

func cachePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache", cacheFileName), nil
}

// LoadCachedSessions returns the last persisted poll result, or nil if
// there is none, it is unreadable, or it is too old.
func LoadCachedSessions() *CachedSessions {
	path, err := cachePath()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	age := time.Since(time.UnixMilli(entry.StoredAt))
	if age < 0 || age > cacheMaxAge {
		return nil
	}
	return &entry.Value
}

// SaveCachedSessions persists a poll result. Best-effort.
func SaveCachedSessions(value CachedSessions) {
	path, err := cachePath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := json.Marshal(cacheEntry{Value: value, StoredAt: time.Now().UnixMilli()})
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}
