// Package types defines shared data types used across the browserdap bridge.
//
// This package provides type definitions for:
//   - ConnectionState: the orchestrator's browser-connection states
//   - TargetInfo: descriptor of the debuggable browser target we attached to
//   - LaunchRequest / AttachRequest: boundary input shapes for the tool surface
//   - SessionInfo: summary of a bridge session for listings
//
// These types are used throughout the codebase to maintain type safety
// and provide clear contracts between components.
package types

// ConnectionState represents the orchestrator's position in the
// launch/attach lifecycle. Transitions are one-directional:
// Idle -> Connecting -> Attached -> Closed, with Connecting -> Closed
// on attach failure.
type ConnectionState string

const (
	StateIdle       ConnectionState = "idle"
	StateConnecting ConnectionState = "connecting"
	StateAttached   ConnectionState = "attached"
	StateClosed     ConnectionState = "closed"
)

// BrowserKind identifies the browser family being debugged.
type BrowserKind string

const (
	BrowserChrome   BrowserKind = "chrome"
	BrowserChromium BrowserKind = "chromium"
	BrowserEdge     BrowserKind = "edge"
)

// TargetInfo describes the browser target (page) the connection attached to.
type TargetInfo struct {
	ID                   string `json:"id"`
	Title                string `json:"title,omitempty"`
	Type                 string `json:"type"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl,omitempty"`
}

// LaunchRequest is the boundary input shape for launching a browser
// under remote-debugging control.
type LaunchRequest struct {
	Kind              BrowserKind       `json:"kind,omitempty"`
	File              string            `json:"file,omitempty"`
	URL               string            `json:"url,omitempty"`
	RuntimeExecutable string            `json:"runtimeExecutable,omitempty"`
	RuntimeArgs       []string          `json:"runtimeArgs,omitempty"`
	Port              int               `json:"port,omitempty"`
	Cwd               string            `json:"cwd,omitempty"`
	Env               map[string]string `json:"env,omitempty"`
	UserDataDir       string            `json:"userDataDir,omitempty"`
	Headless          bool              `json:"headless,omitempty"`
	WebRoot           string            `json:"webRoot,omitempty"`
	PathMapping       map[string]string `json:"pathMapping,omitempty"`
}

// AttachRequest is the boundary input shape for attaching to a browser
// that is already running with remote debugging enabled.
type AttachRequest struct {
	Host        string            `json:"host,omitempty"`
	Port        int               `json:"port,omitempty"`
	URL         string            `json:"url,omitempty"`
	TimeoutMs   int               `json:"timeout,omitempty"`
	WebRoot     string            `json:"webRoot,omitempty"`
	PathMapping map[string]string `json:"pathMapping,omitempty"`
}

// SessionInfo summarizes one bridge session for listings.
type SessionInfo struct {
	SessionID string          `json:"sessionId"`
	State     ConnectionState `json:"state"`
	Target    *TargetInfo     `json:"target,omitempty"`
	Port      int             `json:"port,omitempty"`
	PID       int             `json:"pid,omitempty"`
}
