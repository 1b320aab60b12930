// Package session holds the dashboard's domain model: discovered agent
// sessions, their status lifecycle, grouping, and selection logic.
package session

// Status is the classified state of an agent pane.
type Status string

const (
	StatusActive Status = "active"
	StatusIdle   Status = "idle"
)

// Session is one tmux pane that carries an agent process somewhere in
// its process subtree. Sessions are re-minted on every poll; PaneID is
// the only identity that survives across polls.
type Session struct {
	PaneID     string `json:"paneId"`
	PaneTarget string `json:"paneTarget"`
	Title      string `json:"title"`
	Owner      string `json:"sessionName"`
	Status     Status `json:"status"`
}

// Agents signal activity by rotating a braille spinner glyph into the
// first cell of the pane title.
const (
	brailleStart = 0x2800
	brailleEnd   = 0x28FF
)

// ParseStatus classifies a pane title. An empty title is idle; a title
// whose first rune is a braille pattern (the spinner) is active.
func ParseStatus(title string) Status {
	for _, r := range title {
		if r >= brailleStart && r <= brailleEnd {
			return StatusActive
		}
		return StatusIdle
	}
	return StatusIdle
}
