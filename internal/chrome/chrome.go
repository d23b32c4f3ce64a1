// Package chrome handles the remote-debugging connection to a
// Chromium-family browser. It discovers debuggable page targets over the
// browser's HTTP endpoint and holds the websocket session for the lifetime
// of a debug attach.
package chrome

import (
	"context"

	"browserdap/pkg/types"
)

// TargetFilter narrows which page target an attach selects. An empty
// filter selects the first page target the endpoint reports.
type TargetFilter struct {
	// URL, when set, requires the target's URL to start with this prefix.
	URL string
	// ID, when set, requires an exact target ID match.
	ID string
}

// Connection is the browser-side half of the bridge. Implementations must
// be safe for concurrent use; the orchestrator calls Close from a different
// goroutine than the one that attached.
type Connection interface {
	// Attach discovers targets on host:port, selects one per the filter,
	// and dials its debugger websocket. It retries endpoint discovery
	// until the context is done, covering the window where a freshly
	// spawned browser has not yet opened its debugging port.
	Attach(ctx context.Context, host string, port int, filter TargetFilter) (*types.TargetInfo, error)

	// IsAttached reports whether a target session is currently open.
	IsAttached() bool

	// AttachedTarget returns the target selected by Attach, or nil.
	AttachedTarget() *types.TargetInfo

	// OnClose registers a callback fired once when the session ends,
	// whether by Close or by the browser going away.
	OnClose(fn func(reason string))

	// Close tears down the websocket session. Safe to call more than once.
	Close() error
}
