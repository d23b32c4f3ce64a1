//go:build !windows

package launcher

import (
	"context"
	"syscall"
	"testing"
	"time"
)

// TestExecLauncherSurvivesContextCancel verifies that a spawned browser
// process is not tied to the caller's context. Cancelling the context
// after the spawn must leave the process running; the browser belongs
// to the user, not to the bridge's lifetime.
func TestExecLauncherSurvivesContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	launcher := NewExecLauncher()
	proc, err := launcher.Start(ctx, "/bin/sleep", []string{"10"}, SpawnOptions{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	pid := proc.Pid()
	defer syscall.Kill(pid, syscall.SIGKILL)

	cancel()
	time.Sleep(200 * time.Millisecond)

	if err := syscall.Kill(pid, 0); err != nil {
		t.Fatalf("process %d gone after context cancel: %v", pid, err)
	}
}

// TestExecLauncherCancelledContext verifies that a context already
// cancelled before the spawn prevents process creation entirely.
func TestExecLauncherCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	launcher := NewExecLauncher()
	if _, err := launcher.Start(ctx, "/bin/sleep", []string{"10"}, SpawnOptions{}); err == nil {
		t.Fatal("expected spawn to fail with a cancelled context")
	}
}
