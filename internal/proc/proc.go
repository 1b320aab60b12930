// Package proc inspects the host process tree via ps/pgrep.
//
// Every function here degrades to a harmless zero value on failure: a
// pane's shell can exit between tmux listing it and us inspecting it,
// so "process not found" is an ordinary answer, never an error.
package proc

import (
	"context"
	"os/exec"
	"strings"
)

// CommandName returns the command name (ps comm) of pid, or "" if the
// process cannot be inspected.
func CommandName(ctx context.Context, pid string) string {
	out, err := exec.CommandContext(ctx, "ps", "-o", "comm=", "-p", pid).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Children returns the direct child pids of pid. An empty slice means
// no children or that the process is gone; both are treated the same.
func Children(ctx context.Context, pid string) []string {
	out, err := exec.CommandContext(ctx, "pgrep", "-P", pid).Output()
	if err != nil {
		// pgrep exits 1 when nothing matches.
		return nil
	}
	var pids []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			pids = append(pids, line)
		}
	}
	return pids
}

// HasAgentProcess reports whether pid or any of its descendants runs a
// command whose name ends with binary. The subtree is walked with an
// explicit worklist so deep process chains cannot grow the call stack;
// OS process trees are acyclic, so no visited set is needed. The walk
// short-circuits on the first match.
func HasAgentProcess(ctx context.Context, pid, binary string) bool {
	if binary == "" {
		return false
	}
	worklist := []string{pid}
	for len(worklist) > 0 {
		if ctx.Err() != nil {
			return false
		}
		next := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if comm := CommandName(ctx, next); comm != "" && strings.HasSuffix(comm, binary) {
			return true
		}
		worklist = append(worklist, Children(ctx, next)...)
	}
	return false
}
