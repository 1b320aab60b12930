package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay shows keyboard shortcuts in a modal with a fuzzy filter.
type HelpOverlay struct {
	visible      bool
	filtering    bool
	filter       textinput.Model
	scrollOffset int
	width        int
	height       int
}

// NewHelpOverlay creates a new help overlay.
func NewHelpOverlay() *HelpOverlay {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return &HelpOverlay{filter: ti}
}

// Show makes the help overlay visible.
func (h *HelpOverlay) Show() {
	h.visible = true
	h.filtering = false
	h.scrollOffset = 0
	h.filter.SetValue("")
	h.filter.Blur()
}

// Hide hides the help overlay.
func (h *HelpOverlay) Hide() {
	h.visible = false
	h.filtering = false
	h.filter.Blur()
}

// IsVisible returns whether the help overlay is visible.
func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

// IsFiltering returns whether the filter input has focus.
func (h *HelpOverlay) IsFiltering() bool {
	return h.filtering
}

// SetSize sets the dimensions for centering.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Update handles messages for the help overlay.
func (h *HelpOverlay) Update(msg tea.Msg) (*HelpOverlay, tea.Cmd) {
	if !h.visible {
		return h, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	if h.filtering {
		switch key.String() {
		case "esc":
			h.filtering = false
			h.filter.SetValue("")
			h.filter.Blur()
			return h, nil
		case "enter":
			h.filtering = false
			h.filter.Blur()
			return h, nil
		}
		var cmd tea.Cmd
		h.filter, cmd = h.filter.Update(msg)
		return h, cmd
	}

	switch key.String() {
	case "/":
		h.filtering = true
		h.filter.Focus()
		return h, textinput.Blink
	case "j", "down":
		h.scrollOffset++
	case "k", "up":
		if h.scrollOffset > 0 {
			h.scrollOffset--
		}
	case "g":
		h.scrollOffset = 0
	case "G":
		h.scrollOffset = 1 << 30 // clamped in View
	case "esc", "q", "?":
		h.Hide()
	}
	return h, nil
}

// View renders the help overlay.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent)
	footerStyle := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Italic(true)

	dialogWidth := 52
	if h.width > 0 && h.width < dialogWidth+10 {
		dialogWidth = h.width - 10
		if dialogWidth < 36 {
			dialogWidth = 36
		}
	}
	keyStyle := HelpKeyStyle.Width(14)

	entries := FilterKeybinds(h.filter.Value())

	var lines []string
	lines = append(lines, titleStyle.Render("KEYBOARD SHORTCUTS"))
	lines = append(lines, "")
	if h.filtering || h.filter.Value() != "" {
		lines = append(lines, h.filter.View())
		lines = append(lines, "")
	}
	if len(entries) == 0 {
		lines = append(lines, footerStyle.Render("no matches"))
	}
	for _, e := range entries {
		lines = append(lines, "  "+keyStyle.Render(e.Key)+HelpDescStyle.Render(e.Description))
	}

	availableHeight := h.height - 8
	if availableHeight < 10 {
		availableHeight = 10
	}
	maxScroll := len(lines) - availableHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if h.scrollOffset > maxScroll {
		h.scrollOffset = maxScroll
	}
	end := h.scrollOffset + availableHeight
	if end > len(lines) {
		end = len(lines)
	}

	var content strings.Builder
	for _, line := range lines[h.scrollOffset:end] {
		content.WriteString(line)
		content.WriteString("\n")
	}
	content.WriteString("\n")
	if h.filtering {
		content.WriteString(footerStyle.Render("enter apply • esc clear"))
	} else {
		content.WriteString(footerStyle.Render("/ filter • j/k scroll • esc close"))
	}

	box := DialogBoxStyle.
		Width(dialogWidth).
		Render(content.String())

	return centerInScreen(box, h.width, h.height)
}

// centerInScreen places content in the middle of the terminal.
func centerInScreen(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
