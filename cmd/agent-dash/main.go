package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/agentdash/agent-dash/internal/config"
	"github.com/agentdash/agent-dash/internal/logging"
	"github.com/agentdash/agent-dash/internal/platform"
	"github.com/agentdash/agent-dash/internal/tmux"
	"github.com/agentdash/agent-dash/internal/ui"
)

const Version = "0.3.0"

func init() {
	initColorProfile()
}

// initColorProfile configures the lipgloss color profile. Most modern
// terminals support TrueColor even when not advertised, so detection
// prefers it and the AGENTDASH_COLOR env var overrides everything.
func initColorProfile() {
	if colorEnv := os.Getenv("AGENTDASH_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	termName := os.Getenv("TERM")
	trueColorTerms := []string{
		"xterm-256color",
		"screen-256color",
		"tmux-256color",
		"xterm-direct",
		"alacritty",
		"kitty",
		"wezterm",
	}
	for _, t := range trueColorTerms {
		if strings.Contains(termName, t) {
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		}
	}

	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	exitOnSwitch := flag.Bool("exit-on-switch", false, "quit after switching to a pane")
	debug := flag.Bool("debug", false, "write a debug log to the config directory")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("agent-dash %s\n", Version)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "agent-dash: stdout is not a terminal")
		os.Exit(1)
	}
	if err := tmux.IsAvailable(); err != nil {
		fmt.Fprintf(os.Stderr, "agent-dash: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load()

	logDir := ""
	if *debug {
		if dir, err := config.Dir(); err == nil {
			logDir = dir
		}
	}
	level := cfg.Log.Level
	if *debug && level == "" {
		level = "debug"
	}
	logging.Init(logging.Config{
		LogDir:     logDir,
		Level:      level,
		Format:     cfg.Log.Format,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Debug:      *debug,
	})
	defer logging.Shutdown()

	ui.InitTheme(cfg.Theme)
	ui.Version = Version

	home := ui.NewHome(cfg, ui.HomeOptions{ExitOnSwitch: *exitOnSwitch})

	if dir, err := config.Dir(); err == nil {
		if warning := platform.CheckFsnotifySupport(dir); warning != "" {
			logging.Logger().Warn("fsnotify_support", slog.String("warning", warning))
		}
	}

	p := tea.NewProgram(home, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "agent-dash: %v\n", err)
		os.Exit(1)
	}
}
