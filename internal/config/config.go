package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the TOML config file for user preferences.
const ConfigFileName = "config.toml"

// Config represents user-facing configuration in TOML format.
// All fields are optional; zero values fall back to defaults.
type Config struct {
	// AgentCommand is the agent binary to detect in pane process trees
	// and to launch when creating new sessions (default: "claude").
	AgentCommand string `toml:"agent_command"`

	// PollIntervalSeconds is the session discovery cadence (default: 2).
	PollIntervalSeconds int `toml:"poll_interval_seconds"`

	// Theme sets the color scheme: "dark", "light", or "system" (default).
	// "system" probes the terminal background at startup.
	Theme string `toml:"theme"`

	// ExitOnSwitch quits the dashboard after switching to a pane.
	// The --exit-on-switch flag overrides this.
	ExitOnSwitch bool `toml:"exit_on_switch"`

	// SessionNameFormatter is an optional executable that receives a tmux
	// session name as its argument and prints a display name. Failures
	// fall back to the raw name.
	SessionNameFormatter string `toml:"session_name_formatter"`

	// Log holds logging preferences.
	Log LogSettings `toml:"log"`
}

// LogSettings controls the debug log.
type LogSettings struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
)

// Dir returns the per-user config directory (~/.config/agent-dash).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "agent-dash"), nil
}

// Path returns the path of the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load returns the user config, reading the file at most once per
// process. A missing or malformed file yields pure defaults — config
// problems must never prevent startup.
func Load() *Config {
	loadOnce.Do(func() {
		loadedConfig = loadFromDisk()
	})
	return loadedConfig
}

func loadFromDisk() *Config {
	cfg := defaults()

	path, err := Path()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		// Malformed config: keep whatever decoded cleanly plus defaults.
		return normalize(cfg)
	}
	return normalize(cfg)
}

func defaults() *Config {
	return &Config{
		AgentCommand:        "claude",
		PollIntervalSeconds: 2,
		Theme:               "system",
	}
}

func normalize(cfg *Config) *Config {
	if strings.TrimSpace(cfg.AgentCommand) == "" {
		cfg.AgentCommand = "claude"
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 2
	}
	switch cfg.Theme {
	case "dark", "light", "system":
	default:
		cfg.Theme = "system"
	}
	cfg.SessionNameFormatter = ExpandTilde(cfg.SessionNameFormatter)
	return cfg
}

// ExpandTilde expands a leading ~/ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
