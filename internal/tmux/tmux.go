// Package tmux wraps the tmux CLI. It is the only place that spawns
// tmux subprocesses; everything above it works on parsed values.
package tmux

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/agentdash/agent-dash/internal/logging"
)

var log = logging.ForComponent(logging.CompTmux)

// paneFormat is the list-panes format string. Fields are tab-separated
// so titles containing spaces survive parsing.
const paneFormat = "#{pane_id}\t#{pane_pid}\t#{pane_title}\t#{session_name}:#{window_index}.#{pane_index}"

// CapturePlaceholder is shown when a pane's scrollback cannot be read.
const CapturePlaceholder = "(unable to capture pane content)"

// Pane is one addressable tmux pane as reported by list-panes.
type Pane struct {
	ID     string // stable pane id, e.g. "%3"
	PID    string // pid of the pane's root process
	Title  string // pane title (agents publish a spinner glyph here)
	Target string // addressable target, "session:window.pane"
	Owner  string // tmux session name, Target up to the first ':'
}

// CreatedPane describes a pane created by NewWindow.
type CreatedPane struct {
	ID     string
	Title  string
	Target string
	Owner  string
}

// IsAvailable checks that the tmux binary is present and answering.
// This is the only check that is allowed to abort startup.
func IsAvailable() error {
	out, err := exec.Command("tmux", "-V").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tmux not found or not working: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ListPanes returns every pane across all tmux sessions. This is the
// one discovery call whose failure aborts a poll cycle.
func ListPanes(ctx context.Context) ([]Pane, error) {
	out, err := run(ctx, "list-panes", "-a", "-F", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("list panes: %w", err)
	}
	return parsePanes(out), nil
}

// parsePanes parses list-panes output. Lines with fewer than four
// fields or an empty session name are skipped, not errors.
func parsePanes(out string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 4 {
			continue
		}
		target := parts[3]
		owner, _, _ := strings.Cut(target, ":")
		if owner == "" {
			continue
		}
		panes = append(panes, Pane{
			ID:     parts[0],
			PID:    parts[1],
			Title:  parts[2],
			Target: target,
			Owner:  owner,
		})
	}
	return panes
}

// CapturePane dumps the full scrollback of target with SGR codes
// preserved. On any failure it returns a fixed placeholder — preview
// content is cosmetic and must never surface an error.
func CapturePane(ctx context.Context, target string) string {
	out, err := run(ctx, "capture-pane", "-e", "-p", "-S", "-", "-t", target)
	if err != nil {
		log.Debug("capture_failed", slog.String("target", target), slog.Any("error", err))
		return CapturePlaceholder
	}
	return out
}

// SwitchClient switches the attached tmux client to target.
func SwitchClient(ctx context.Context, target string) error {
	_, err := run(ctx, "switch-client", "-t", target)
	return err
}

// KillPane closes the pane addressed by target.
func KillPane(ctx context.Context, target string) error {
	_, err := run(ctx, "kill-pane", "-t", target)
	return err
}

// OpenPopup opens the pane's scrollback in a tmux popup pager.
func OpenPopup(ctx context.Context, target string) error {
	pager := fmt.Sprintf("tmux capture-pane -S - -e -p -t %s | less -R", target)
	_, err := run(ctx, "display-popup", "-E", "-w", "80%", "-h", "80%", pager)
	return err
}

// PaneCwd returns the working directory of the pane at target.
func PaneCwd(ctx context.Context, target string) (string, error) {
	out, err := run(ctx, "display-message", "-p", "-t", target, "#{pane_current_path}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// FocusedPane returns the currently focused pane id and session name,
// or empty strings when there is no attached client.
func FocusedPane(ctx context.Context) (paneID, owner string) {
	out, err := run(ctx, "display-message", "-p", "#{pane_id}\t#{session_name}")
	if err != nil {
		return "", ""
	}
	parts := strings.Split(strings.TrimSpace(out), "\t")
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// NewWindow creates a detached window in session owner running command,
// optionally in cwd, and reports the created pane.
func NewWindow(ctx context.Context, owner, command, cwd string) (*CreatedPane, error) {
	format := "#{pane_id}\t#{pane_title}\t#{session_name}:#{window_index}.#{pane_index}"
	args := []string{"new-window", "-d", "-P", "-F", format, "-t", owner}
	if cwd != "" {
		args = append(args, "-c", cwd)
	}
	args = append(args, command)

	out, err := run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("new window in %q: %w", owner, err)
	}

	parts := strings.Split(strings.TrimSpace(out), "\t")
	if len(parts) < 3 {
		return nil, fmt.Errorf("unexpected new-window output: %q", out)
	}
	target := parts[2]
	createdOwner, _, _ := strings.Cut(target, ":")
	if createdOwner == "" {
		return nil, fmt.Errorf("unexpected new-window target: %q", target)
	}
	return &CreatedPane{
		ID:     parts[0],
		Title:  parts[1],
		Target: target,
		Owner:  createdOwner,
	}, nil
}

// run executes one tmux command. The context kills the subprocess on
// cancellation rather than waiting it out.
func run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return "", fmt.Errorf("tmux %s: %w (%s)", strings.Join(args, " "), err, stderr)
	}
	return string(out), nil
}
