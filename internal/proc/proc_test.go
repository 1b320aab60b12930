package proc

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"
)

func TestCommandNameGoneProcess(t *testing.T) {
	// Spawn and reap a process so its pid is (almost certainly) free.
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start helper: %v", err)
	}
	pid := cmd.Process.Pid
	_ = cmd.Wait()

	got := CommandName(context.Background(), strconv.Itoa(pid))
	if got != "" {
		t.Errorf("expected empty comm for exited pid, got %q", got)
	}
}

func TestCommandNameSelf(t *testing.T) {
	comm := CommandName(context.Background(), strconv.Itoa(os.Getpid()))
	if comm == "" {
		t.Error("expected non-empty comm for own pid")
	}
}

func TestHasAgentProcessSelfSuffix(t *testing.T) {
	self := strconv.Itoa(os.Getpid())
	comm := CommandName(context.Background(), self)
	if comm == "" {
		t.Skip("cannot inspect own process")
	}

	if !HasAgentProcess(context.Background(), self, comm) {
		t.Errorf("expected match on own command name %q", comm)
	}
	if HasAgentProcess(context.Background(), self, "definitely-not-a-real-binary") {
		t.Error("unexpected match for bogus binary name")
	}
}

func TestHasAgentProcessChild(t *testing.T) {
	// sleep runs as a direct child of the test process.
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sleep: %v", err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}()

	self := strconv.Itoa(os.Getpid())
	if !HasAgentProcess(context.Background(), self, "sleep") {
		t.Error("expected to find sleep in own subtree")
	}
}

func TestHasAgentProcessEmptyBinary(t *testing.T) {
	if HasAgentProcess(context.Background(), "1", "") {
		t.Error("empty binary name must never match")
	}
}

func TestHasAgentProcessCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool, 1)
	go func() {
		done <- HasAgentProcess(ctx, strconv.Itoa(os.Getpid()), "anything")
	}()

	select {
	case got := <-done:
		if got {
			t.Error("canceled walk must report false")
		}
	case <-time.After(2 * time.Second):
		t.Error("walk did not stop after cancellation")
	}
}
