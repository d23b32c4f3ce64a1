package launcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"browserdap/internal/errors"
	ilog "browserdap/internal/log"
)

// SpawnOptions carries process creation settings for a browser launch.
type SpawnOptions struct {
	// Cwd is the working directory for the browser process.
	Cwd string
	// Env adds or overrides environment variables on top of the bridge's
	// own environment.
	Env map[string]string
	// Helper, when set, is executed instead of the browser itself and
	// receives [executable, args...]. It is expected to create the
	// browser process and exit, detaching the browser's lifecycle from
	// the bridge.
	Helper string
}

// Process is a handle to a spawned browser process. The bridge never
// waits on it; the browser outlives individual debug sessions.
type Process interface {
	Pid() int
}

// ProcessLauncher abstracts process creation so that launch orchestration
// can be tested without touching the host system.
type ProcessLauncher interface {
	Start(ctx context.Context, executable string, args []string, opts SpawnOptions) (Process, error)
}

// ExecLauncher is the real ProcessLauncher built on os/exec. The spawned
// process is placed in its own session (process group on Windows) so that
// the browser survives the bridge exiting.
type ExecLauncher struct{}

// NewExecLauncher creates the default process launcher.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

type execProcess struct {
	pid int
}

func (p *execProcess) Pid() int { return p.pid }

// Start implements ProcessLauncher. The context only scopes the spawn
// itself; the browser must outlive the bridge, so the child is started
// with exec.Command and is never tied to ctx cancellation.
func (l *ExecLauncher) Start(ctx context.Context, executable string, args []string, opts SpawnOptions) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.SpawnFailed(executable, err)
	}
	var cmd *exec.Cmd
	if opts.Helper != "" {
		helperArgs := append([]string{executable}, args...)
		//nolint:gosec // G204: launching the configured browser is the whole point
		cmd = exec.Command(opts.Helper, helperArgs...)
	} else {
		//nolint:gosec // G204: launching the configured browser is the whole point
		cmd = exec.Command(executable, args...)
	}

	cmd.Env = os.Environ()
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	if opts.Cwd != "" {
		cmd.Dir = opts.Cwd
	}

	// Explicitly disconnect stdin to prevent TTY issues when run as a
	// stdio server.
	cmd.Stdin = nil

	// Set platform-specific process attributes (procattr_unix.go / procattr_windows.go)
	setProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.SpawnFailed(executable, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.SpawnFailed(executable, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.SpawnFailed(executable, err)
	}

	pid := cmd.Process.Pid
	go drain("browser stdout", stdout)
	go drain("browser stderr", stderr)
	go func() {
		// Reap the child so it never lingers as a zombie; the exit of
		// the browser is otherwise none of our business.
		err := cmd.Wait()
		ilog.L().Debug().Int("pid", pid).AnErr("exit", err).Msg("browser process exited")
	}()

	ilog.L().Info().Int("pid", pid).Str("executable", executable).Msg("browser process started")
	return &execProcess{pid: pid}, nil
}

// drain forwards process output lines to the debug log without ever
// blocking the child on a full pipe.
func drain(label string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		ilog.L().Debug().Str("stream", label).Msg(scanner.Text())
	}
}
