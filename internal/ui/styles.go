package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var currentTheme Theme = ThemeDark

// Dark theme - Tokyo Night
var darkColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Purple, Green, Yellow, Red lipgloss.Color
}{
	Bg:      lipgloss.Color("#1a1b26"),
	Surface: lipgloss.Color("#24283b"),
	Border:  lipgloss.Color("#414868"),
	Text:    lipgloss.Color("#c0caf5"),
	TextDim: lipgloss.Color("#787fa0"),
	Accent:  lipgloss.Color("#7aa2f7"),
	Purple:  lipgloss.Color("#bb9af7"),
	Green:   lipgloss.Color("#9ece6a"),
	Yellow:  lipgloss.Color("#e0af68"),
	Red:     lipgloss.Color("#f7768e"),
}

// Light theme - Tokyo Night Light variant
var lightColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Purple, Green, Yellow, Red lipgloss.Color
}{
	Bg:      lipgloss.Color("#d5d6db"),
	Surface: lipgloss.Color("#e9e9ec"),
	Border:  lipgloss.Color("#9699a3"),
	Text:    lipgloss.Color("#343b58"),
	TextDim: lipgloss.Color("#6a6d7c"),
	Accent:  lipgloss.Color("#34548a"),
	Purple:  lipgloss.Color("#7847bd"),
	Green:   lipgloss.Color("#485e30"),
	Yellow:  lipgloss.Color("#8f5e15"),
	Red:     lipgloss.Color("#8c4351"),
}

// Active color variables (set by InitTheme)
var (
	ColorBg      lipgloss.Color
	ColorSurface lipgloss.Color
	ColorBorder  lipgloss.Color
	ColorText    lipgloss.Color
	ColorTextDim lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorPurple  lipgloss.Color
	ColorGreen   lipgloss.Color
	ColorYellow  lipgloss.Color
	ColorRed     lipgloss.Color
)

// Shared styles (set by InitTheme)
var (
	FocusedBorderStyle lipgloss.Style
	BlurredBorderStyle lipgloss.Style
	GroupHeaderStyle   lipgloss.Style
	SelectedRowStyle   lipgloss.Style
	SessionRowStyle    lipgloss.Style
	UnreadMarkerStyle  lipgloss.Style
	ActiveMarkerStyle  lipgloss.Style
	IdleMarkerStyle    lipgloss.Style
	DialogBoxStyle     lipgloss.Style
	ToastStyle         lipgloss.Style
	HelpKeyStyle       lipgloss.Style
	HelpDescStyle      lipgloss.Style
	StatusBarStyle     lipgloss.Style
)

// InitTheme sets the active color palette. "system" probes the
// terminal background via OSC 11. Must be called before rendering.
func InitTheme(theme string) {
	if theme == "system" {
		if termenv.HasDarkBackground() {
			theme = "dark"
		} else {
			theme = "light"
		}
	}

	if theme == "light" {
		currentTheme = ThemeLight
		ColorBg = lightColors.Bg
		ColorSurface = lightColors.Surface
		ColorBorder = lightColors.Border
		ColorText = lightColors.Text
		ColorTextDim = lightColors.TextDim
		ColorAccent = lightColors.Accent
		ColorPurple = lightColors.Purple
		ColorGreen = lightColors.Green
		ColorYellow = lightColors.Yellow
		ColorRed = lightColors.Red
	} else {
		currentTheme = ThemeDark
		ColorBg = darkColors.Bg
		ColorSurface = darkColors.Surface
		ColorBorder = darkColors.Border
		ColorText = darkColors.Text
		ColorTextDim = darkColors.TextDim
		ColorAccent = darkColors.Accent
		ColorPurple = darkColors.Purple
		ColorGreen = darkColors.Green
		ColorYellow = darkColors.Yellow
		ColorRed = darkColors.Red
	}

	initStyles()
}

func initStyles() {
	FocusedBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent)

	BlurredBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	GroupHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPurple).
		Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorAccent).
		Bold(true)

	SessionRowStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	UnreadMarkerStyle = lipgloss.NewStyle().
		Foreground(ColorYellow).
		Bold(true)

	ActiveMarkerStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	IdleMarkerStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	DialogBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2)

	ToastStyle = lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorGreen).
		Padding(0, 1).
		Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPurple)

	HelpDescStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)
}

func init() {
	// Sensible default before main wires the configured theme.
	InitTheme("dark")
}
