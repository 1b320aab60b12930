package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmDialog asks for confirmation before killing a pane.
type ConfirmDialog struct {
	visible    bool
	paneID     string
	paneTarget string
	title      string
	width      int
	height     int
}

// NewConfirmDialog creates a hidden confirmation dialog.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{}
}

// ShowClosePane shows the close-pane confirmation.
func (c *ConfirmDialog) ShowClosePane(paneID, paneTarget, title string) {
	c.visible = true
	c.paneID = paneID
	c.paneTarget = paneTarget
	c.title = title
}

// Hide hides the dialog.
func (c *ConfirmDialog) Hide() {
	c.visible = false
	c.paneID = ""
	c.paneTarget = ""
	c.title = ""
}

// IsVisible returns whether the dialog is visible.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// PaneID returns the pane pending confirmation.
func (c *ConfirmDialog) PaneID() string {
	return c.paneID
}

// SetSize updates dialog dimensions.
func (c *ConfirmDialog) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	name := c.title
	if name == "" {
		name = c.paneTarget
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorRed).
		MarginBottom(1)
	warningStyle := lipgloss.NewStyle().
		Foreground(ColorYellow).
		MarginBottom(1)
	detailsStyle := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		MarginBottom(1)

	buttonYes := lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorRed).
		Padding(0, 2).
		Bold(true).
		Render("y Close")
	buttonNo := lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorAccent).
		Padding(0, 2).
		Bold(true).
		Render("n Cancel")
	escHint := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Render("(Esc to cancel)")
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, buttonYes, "  ", buttonNo, "  ", escHint)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⚠️  Close Pane?"),
		warningStyle.Render(fmt.Sprintf("This will kill the tmux pane:\n\n  \"%s\"", name)),
		detailsStyle.Render("• The running agent will be terminated\n• This cannot be undone"),
		"",
		buttons,
	)

	dialogWidth := 50
	if c.width > 0 && c.width < dialogWidth+10 {
		dialogWidth = c.width - 10
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorRed).
		Padding(1, 2).
		Width(dialogWidth).
		Render(content)

	return centerInScreen(box, c.width, c.height)
}
