package session

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/agentdash/agent-dash/internal/logging"
	"github.com/agentdash/agent-dash/internal/proc"
	"github.com/agentdash/agent-dash/internal/tmux"
)

var discoveryLog = logging.ForComponent(logging.CompDiscovery)

// maxProbeConcurrency bounds parallel process-tree walks. Each walk
// spawns ps/pgrep subprocesses, so unbounded fan-out would thrash on
// servers with many panes.
const maxProbeConcurrency = 8

// DiscoveryResult is one poll cycle's output.
type DiscoveryResult struct {
	Sessions     []Session
	DisplayNames map[string]string
}

// Discoverer enumerates agent-bearing tmux panes. Safe for concurrent
// use; overlapping Discover calls are coalesced into a single flight so
// a slow cycle is never raced by the next tick.
type Discoverer struct {
	agentCommand  string
	formatterPath string

	flight singleflight.Group

	// formatter results are memoized for the process lifetime; the
	// formatter is expected to be a pure name → name mapping.
	fmtMu    sync.Mutex
	fmtCache map[string]string
}

// NewDiscoverer returns a Discoverer for the given agent binary name
// and optional display-name formatter executable.
func NewDiscoverer(agentCommand, formatterPath string) *Discoverer {
	return &Discoverer{
		agentCommand:  agentCommand,
		formatterPath: formatterPath,
		fmtCache:      make(map[string]string),
	}
}

// Discover lists all panes and keeps those with an agent process in
// their subtree. Only the list-panes call itself is fatal; per-pane
// probe failures silently exclude the pane.
func (d *Discoverer) Discover(ctx context.Context) (DiscoveryResult, error) {
	v, err, shared := d.flight.Do("discover", func() (any, error) {
		return d.discover(ctx)
	})
	if shared {
		discoveryLog.Debug("poll_coalesced")
	}
	if err != nil {
		return DiscoveryResult{}, err
	}
	return v.(DiscoveryResult), nil
}

func (d *Discoverer) discover(ctx context.Context) (DiscoveryResult, error) {
	panes, err := tmux.ListPanes(ctx)
	if err != nil {
		return DiscoveryResult{}, err
	}

	// Probe pane process trees in parallel; the walk within one pane is
	// sequential, but panes are independent.
	isAgent := make([]bool, len(panes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProbeConcurrency)
	for i, pane := range panes {
		g.Go(func() error {
			isAgent[i] = proc.HasAgentProcess(gctx, pane.PID, d.agentCommand)
			return nil
		})
	}
	// Probes never return errors; Wait only observes ctx cancellation.
	_ = g.Wait()
	if ctx.Err() != nil {
		return DiscoveryResult{}, ctx.Err()
	}

	var sessions []Session
	owners := make(map[string]bool)
	for i, pane := range panes {
		if !isAgent[i] {
			continue
		}
		sessions = append(sessions, Session{
			PaneID:     pane.ID,
			PaneTarget: pane.Target,
			Title:      pane.Title,
			Owner:      pane.Owner,
			Status:     ParseStatus(pane.Title),
		})
		owners[pane.Owner] = true
	}

	result := DiscoveryResult{
		Sessions:     sessions,
		DisplayNames: d.displayNames(ctx, owners),
	}
	discoveryLog.Debug("poll_complete",
		slog.Int("panes", len(panes)),
		slog.Int("sessions", len(sessions)))
	return result, nil
}

// displayNames maps each owner through the configured formatter
// command. No formatter, or a failing one, falls back to the raw name.
func (d *Discoverer) displayNames(ctx context.Context, owners map[string]bool) map[string]string {
	names := make(map[string]string, len(owners))
	for owner := range owners {
		names[owner] = d.formatName(ctx, owner)
	}
	return names
}

func (d *Discoverer) formatName(ctx context.Context, owner string) string {
	if d.formatterPath == "" {
		return owner
	}

	d.fmtMu.Lock()
	cached, ok := d.fmtCache[owner]
	d.fmtMu.Unlock()
	if ok {
		return cached
	}

	out, err := exec.CommandContext(ctx, d.formatterPath, owner).Output()
	if err != nil {
		discoveryLog.Debug("formatter_failed", slog.String("owner", owner), slog.Any("error", err))
		return owner
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		name = owner
	}

	d.fmtMu.Lock()
	d.fmtCache[owner] = name
	d.fmtMu.Unlock()
	return name
}
