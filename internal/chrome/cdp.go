package chrome

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mafredri/cdp"
	"github.com/mafredri/cdp/devtool"
	"github.com/mafredri/cdp/rpcc"

	ilog "browserdap/internal/log"
	"browserdap/pkg/types"
)

// DefaultRetryInterval is the pause between endpoint discovery attempts
// while waiting for a freshly spawned browser to open its debugging port.
const DefaultRetryInterval = 200 * time.Millisecond

// DefaultAttachRetries bounds endpoint discovery when the caller does not
// configure a limit.
const DefaultAttachRetries = 20

// CDPConnection implements Connection over the Chrome DevTools Protocol.
type CDPConnection struct {
	retryInterval time.Duration
	maxRetries    int

	mu      sync.Mutex
	conn    *rpcc.Conn
	client  *cdp.Client
	target  *types.TargetInfo
	cancel  context.CancelFunc
	onClose func(reason string)

	closeOnce sync.Once
}

// NewCDPConnection creates an unattached CDP connection.
func NewCDPConnection() *CDPConnection {
	return &CDPConnection{retryInterval: DefaultRetryInterval, maxRetries: DefaultAttachRetries}
}

// NewCDPConnectionWithRetry creates a connection with a custom endpoint
// discovery policy: interval between attempts and the attempt limit.
func NewCDPConnectionWithRetry(interval time.Duration, maxRetries int) *CDPConnection {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	if maxRetries <= 0 {
		maxRetries = DefaultAttachRetries
	}
	return &CDPConnection{retryInterval: interval, maxRetries: maxRetries}
}

// Attach implements Connection.
func (c *CDPConnection) Attach(ctx context.Context, host string, port int, filter TargetFilter) (*types.TargetInfo, error) {
	c.mu.Lock()
	if c.client != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("already attached to %s", c.target.URL)
	}
	c.mu.Unlock()

	endpoint := fmt.Sprintf("http://%s:%d", host, port)
	dt := devtool.New(endpoint)

	// The browser opens its debugging port some time after the process
	// starts; poll the endpoint until it answers, the attempt limit is
	// reached, or the context gives up.
	var targets []*devtool.Target
	for attempt := 1; ; attempt++ {
		var err error
		targets, err = dt.List(ctx)
		if err == nil {
			break
		}
		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("devtools endpoint %s not reachable after %d attempts: %w", endpoint, attempt, err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("devtools endpoint %s not reachable: %w", endpoint, err)
		case <-time.After(c.retryInterval):
		}
	}

	sel := selectTarget(targets, filter)
	if sel == nil {
		return nil, fmt.Errorf("no debuggable page target at %s", endpoint)
	}

	conn, err := rpcc.DialContext(ctx, sel.WebSocketDebuggerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial target websocket: %w", err)
	}

	client := cdp.NewClient(conn)
	sessCtx, cancel := context.WithCancel(context.Background())

	// The target may be paused waiting for a debugger; release it.
	if err := client.Runtime.RunIfWaitingForDebugger(ctx); err != nil {
		ilog.L().Debug().Err(err).Msg("runIfWaitingForDebugger failed")
	}

	target := &types.TargetInfo{
		ID:                   string(sel.ID),
		Title:                sel.Title,
		Type:                 string(sel.Type),
		URL:                  sel.URL,
		WebSocketDebuggerURL: sel.WebSocketDebuggerURL,
	}

	c.mu.Lock()
	c.conn = conn
	c.client = client
	c.target = target
	c.cancel = cancel
	c.mu.Unlock()

	go c.watchDetach(sessCtx, client)

	ilog.L().Info().Str("targetId", target.ID).Str("url", target.URL).Msg("attached to browser target")
	return target, nil
}

// watchDetach blocks on the Inspector.detached event stream and fires the
// close callback when the browser side of the session goes away.
func (c *CDPConnection) watchDetach(ctx context.Context, client *cdp.Client) {
	detached, err := client.Inspector.Detached(ctx)
	if err != nil {
		return
	}
	defer detached.Close()

	ev, err := detached.Recv()
	if err != nil {
		// Stream errors mean the websocket dropped (browser exit,
		// tab close, network failure).
		if ctx.Err() == nil {
			c.fireClose("connection lost")
		}
		return
	}
	c.fireClose(string(ev.Reason))
}

// IsAttached implements Connection.
func (c *CDPConnection) IsAttached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// AttachedTarget implements Connection.
func (c *CDPConnection) AttachedTarget() *types.TargetInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// OnClose implements Connection.
func (c *CDPConnection) OnClose(fn func(reason string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

// Close implements Connection.
func (c *CDPConnection) Close() error {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	c.conn = nil
	c.client = nil
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var err error
	if conn != nil {
		err = conn.Close()
	}
	c.fireClose("closed")
	return err
}

func (c *CDPConnection) fireClose(reason string) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		fn := c.onClose
		c.mu.Unlock()
		if fn != nil {
			fn(reason)
		}
	})
}

// selectTarget picks the page target matching the filter, or the first
// page target when the filter is empty.
func selectTarget(targets []*devtool.Target, filter TargetFilter) *devtool.Target {
	for _, t := range targets {
		if t.Type != devtool.Page {
			continue
		}
		if t.WebSocketDebuggerURL == "" {
			continue
		}
		if filter.ID != "" && string(t.ID) != filter.ID {
			continue
		}
		if filter.URL != "" && !strings.HasPrefix(t.URL, filter.URL) {
			continue
		}
		return t
	}
	return nil
}
