// Package launcher orchestrates launching a browser under remote-debugging
// control and attaching to its debugging endpoint.
//
// The orchestrator owns a one-directional connection lifecycle:
// Idle -> Connecting -> Attached -> Closed, with Connecting -> Closed on
// attach failure. A second Launch or Attach while a connection is pending
// or live is rejected without side effects.
package launcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"browserdap/internal/chrome"
	"browserdap/internal/config"
	"browserdap/internal/errors"
	ilog "browserdap/internal/log"
	"browserdap/internal/pathmap"
	"browserdap/pkg/types"
)

// Orchestrator drives the launch/attach lifecycle for one debug session.
type Orchestrator struct {
	cfg   *config.Config
	conn  chrome.Connection
	procs ProcessLauncher

	mu         sync.Mutex
	state      types.ConnectionState
	generation int
	process    Process
	target     *types.TargetInfo
	overrides  map[string]string
}

// New creates an orchestrator in the Idle state.
func New(cfg *config.Config, conn chrome.Connection, procs ProcessLauncher) *Orchestrator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	o := &Orchestrator{
		cfg:   cfg,
		conn:  conn,
		procs: procs,
		state: types.StateIdle,
	}
	conn.OnClose(o.handleConnClose)
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() types.ConnectionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Target returns the attached browser target, or nil before attach.
func (o *Orchestrator) Target() *types.TargetInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target
}

// PathOverrides returns the source-map path overrides resolved against the
// session's webRoot, or nil before a successful attach.
func (o *Orchestrator) PathOverrides() map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.overrides
}

// Pid returns the spawned browser's process ID, or 0 when the session
// attached to an already running browser.
func (o *Orchestrator) Pid() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.process == nil {
		return 0
	}
	return o.process.Pid()
}

// Launch validates the target, spawns the browser with remote debugging
// enabled and attaches to its debugging endpoint.
func (o *Orchestrator) Launch(ctx context.Context, req *types.LaunchRequest) error {
	o.mu.Lock()
	if o.state != types.StateIdle {
		state := o.state
		o.mu.Unlock()
		if state == types.StateClosed {
			return errors.SessionClosed()
		}
		return errors.AlreadyAttached(string(state))
	}

	// Target validation happens before anything is spawned; a missing
	// file must not leave a stray browser process behind.
	targetURL, err := resolveTarget(req, o.cfg.Browser.LandingPage)
	if err != nil {
		o.mu.Unlock()
		return err
	}

	kind := req.Kind
	if kind == "" {
		kind = types.BrowserChrome
	}
	executable, err := FindBrowser(o.cfg.Browser, kind, req.RuntimeExecutable)
	if err != nil {
		o.mu.Unlock()
		return err
	}

	port := req.Port
	if port == 0 {
		port = o.cfg.Browser.DefaultPort
	}

	args := BuildArgs(req, port, targetURL)
	proc, err := o.procs.Start(ctx, executable, args, SpawnOptions{
		Cwd:    req.Cwd,
		Env:    req.Env,
		Helper: o.cfg.Browser.SpawnHelper,
	})
	if err != nil {
		o.mu.Unlock()
		return err
	}

	o.process = proc
	o.state = types.StateConnecting
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	ilog.L().Info().
		Str("executable", executable).
		Int("port", port).
		Str("target", targetURL).
		Msg("browser launched, attaching")

	filter := chrome.TargetFilter{}
	if req.URL != "" {
		filter.URL = req.URL
	}
	return o.attach(ctx, gen, o.cfg.Connection.Host, port, filter, o.cfg.Connection.AttachTimeout, req.WebRoot, req.PathMapping)
}

// Attach connects to an already running browser's debugging endpoint.
func (o *Orchestrator) Attach(ctx context.Context, req *types.AttachRequest) error {
	o.mu.Lock()
	if o.state != types.StateIdle {
		state := o.state
		o.mu.Unlock()
		if state == types.StateClosed {
			return errors.SessionClosed()
		}
		return errors.AlreadyAttached(string(state))
	}
	o.state = types.StateConnecting
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	host := req.Host
	if host == "" {
		host = o.cfg.Connection.Host
	}
	port := req.Port
	if port == 0 {
		port = o.cfg.Browser.DefaultPort
	}

	// The request's timeout wins over the configured default.
	timeout := o.cfg.Connection.AttachTimeout
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	filter := chrome.TargetFilter{URL: req.URL}
	return o.attach(ctx, gen, host, port, filter, timeout, req.WebRoot, req.PathMapping)
}

// attach performs the shared Connecting -> Attached/Closed transition.
func (o *Orchestrator) attach(ctx context.Context, gen int, host string, port int, filter chrome.TargetFilter, timeout time.Duration, webRoot string, overrides map[string]string) error {
	attachCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target, err := o.conn.Attach(attachCtx, host, port, filter)

	o.mu.Lock()
	if gen != o.generation {
		// Dispose raced this attach; the result belongs to a dead
		// session.
		o.mu.Unlock()
		if err == nil {
			_ = o.conn.Close()
		}
		return fmt.Errorf("session disposed during attach")
	}
	if err != nil {
		o.state = types.StateClosed
		o.mu.Unlock()
		return errors.AttachFailed(host, port, err)
	}

	o.state = types.StateAttached
	o.target = target
	o.overrides = pathmap.ResolveOrDefault(webRoot, overrides)
	o.mu.Unlock()

	ilog.L().Info().Str("targetId", target.ID).Msg("session attached")
	return nil
}

// Dispose tears down the session. A pending attach is abandoned; its late
// result is ignored.
func (o *Orchestrator) Dispose() error {
	o.mu.Lock()
	if o.state == types.StateClosed {
		o.mu.Unlock()
		return nil
	}
	o.generation++
	o.state = types.StateClosed
	o.mu.Unlock()

	return o.conn.Close()
}

// handleConnClose marks the session closed when the browser side of the
// connection goes away.
func (o *Orchestrator) handleConnClose(reason string) {
	o.mu.Lock()
	wasAttached := o.state == types.StateAttached
	if wasAttached {
		o.state = types.StateClosed
	}
	o.mu.Unlock()
	if wasAttached {
		ilog.L().Info().Str("reason", reason).Msg("browser connection closed")
	}
}
