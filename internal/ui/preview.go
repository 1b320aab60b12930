package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/agentdash/agent-dash/internal/ansi"
)

// Preview renders captured pane scrollback with its original colors.
type Preview struct {
	lines   []string
	lastRaw string
	offset  int
	follow  bool // stick to the bottom as new content arrives
	width   int
	height  int
	target  string // pane the current content belongs to
}

// NewPreview creates an empty preview panel.
func NewPreview() *Preview {
	return &Preview{follow: true}
}

// SetSize sets the viewport dimensions.
func (p *Preview) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.clampOffset()
}

// Target returns the pane id the current content was captured from.
func (p *Preview) Target() string {
	return p.target
}

// SetContent replaces the preview with freshly captured scrollback.
// Each capture is parsed as one pass so styles never leak between panes.
func (p *Preview) SetContent(paneID, raw string) {
	if paneID == p.target && raw == p.lastRaw {
		return
	}
	p.target = paneID
	p.lastRaw = raw
	p.lines = p.lines[:0]
	for _, line := range strings.Split(renderRuns(ansi.Parse(raw)), "\n") {
		p.lines = append(p.lines, line)
	}
	if p.follow {
		p.ScrollToBottom()
	} else {
		p.clampOffset()
	}
}

// Clear drops the current content.
func (p *Preview) Clear() {
	p.lines = nil
	p.lastRaw = ""
	p.offset = 0
	p.target = ""
	p.follow = true
}

// ScrollUp moves the view up n lines and disengages follow mode.
func (p *Preview) ScrollUp(n int) {
	p.follow = false
	p.offset -= n
	p.clampOffset()
}

// ScrollDown moves the view down n lines. Reaching the bottom
// re-engages follow mode.
func (p *Preview) ScrollDown(n int) {
	p.offset += n
	p.clampOffset()
	if p.offset >= p.maxOffset() {
		p.follow = true
	}
}

// ScrollToBottom jumps to the latest content and re-engages follow.
func (p *Preview) ScrollToBottom() {
	p.follow = true
	p.offset = p.maxOffset()
}

func (p *Preview) maxOffset() int {
	m := len(p.lines) - p.height
	if m < 0 {
		m = 0
	}
	return m
}

func (p *Preview) clampOffset() {
	if p.offset > p.maxOffset() {
		p.offset = p.maxOffset()
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// View renders the visible slice of the captured content.
func (p *Preview) View() string {
	if len(p.lines) == 0 {
		return StatusBarStyle.Render("No preview")
	}
	end := p.offset + p.height
	if end > len(p.lines) || p.height <= 0 {
		end = len(p.lines)
	}
	var b strings.Builder
	for i := p.offset; i < end; i++ {
		b.WriteString(truncateLine(p.lines[i], p.width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRuns converts parsed style runs back into a styled line.
func renderRuns(runs []ansi.StyleRun) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(runStyle(run).Render(run.Text))
	}
	return b.String()
}

func runStyle(run ansi.StyleRun) lipgloss.Style {
	s := lipgloss.NewStyle()
	if run.Foreground != nil {
		s = s.Foreground(lipgloss.Color(run.Foreground.Hex()))
	}
	if run.Background != nil {
		s = s.Background(lipgloss.Color(run.Background.Hex()))
	}
	if run.Attrs&ansi.AttrBold != 0 {
		s = s.Bold(true)
	}
	if run.Attrs&ansi.AttrDim != 0 {
		s = s.Faint(true)
	}
	if run.Attrs&ansi.AttrItalic != 0 {
		s = s.Italic(true)
	}
	if run.Attrs&ansi.AttrUnderline != 0 {
		s = s.Underline(true)
	}
	if run.Attrs&ansi.AttrStrikethrough != 0 {
		s = s.Strikethrough(true)
	}
	if run.Attrs&ansi.AttrInverse != 0 {
		s = s.Reverse(true)
	}
	return s
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(stripForWidth(s)) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

// stripForWidth removes lipgloss escape output when measuring width.
func stripForWidth(s string) string {
	return ansi.Strip(s)
}
