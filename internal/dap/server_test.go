package dap

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/go-dap"

	bridgeerrors "browserdap/internal/errors"
	"browserdap/pkg/types"
)

type fakeBridge struct {
	launchReq *types.LaunchRequest
	attachReq *types.AttachRequest
	launchErr error
	disposed  bool
	state     types.ConnectionState
}

func (f *fakeBridge) Launch(ctx context.Context, req *types.LaunchRequest) error {
	f.launchReq = req
	if f.launchErr != nil {
		return f.launchErr
	}
	f.state = types.StateAttached
	return nil
}

func (f *fakeBridge) Attach(ctx context.Context, req *types.AttachRequest) error {
	f.attachReq = req
	f.state = types.StateAttached
	return nil
}

func (f *fakeBridge) Dispose() error {
	f.disposed = true
	f.state = types.StateClosed
	return nil
}

func (f *fakeBridge) State() types.ConnectionState { return f.state }
func (f *fakeBridge) Target() *types.TargetInfo    { return nil }

// startSession wires a server to an in-memory client transport and starts
// serving in the background.
func startSession(t *testing.T, bridge Bridge) (client *Transport, done chan error) {
	t.Helper()

	clientIn, serverOut := io.Pipe()
	serverIn, clientOut := io.Pipe()

	server := NewServer(NewStdioTransport(serverIn, serverOut), bridge)
	client = NewStdioTransport(clientIn, clientOut)

	done = make(chan error, 1)
	go func() {
		done <- server.Serve(context.Background())
	}()
	return client, done
}

func request(seq int, command string) dap.Request {
	return dap.Request{
		ProtocolMessage: dap.ProtocolMessage{Seq: seq, Type: "request"},
		Command:         command,
	}
}

// TestServer_InitializeHandshake verifies the initialize response carries
// capabilities and is followed by the initialized event.
func TestServer_InitializeHandshake(t *testing.T) {
	client, _ := startSession(t, &fakeBridge{})

	err := client.Send(&dap.InitializeRequest{
		Request:   request(1, "initialize"),
		Arguments: dap.InitializeRequestArguments{AdapterID: "browserdap"},
	})
	if err != nil {
		t.Fatalf("send initialize failed: %v", err)
	}

	msg, err := client.Receive()
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	resp, ok := msg.(*dap.InitializeResponse)
	if !ok {
		t.Fatalf("expected InitializeResponse, got %T", msg)
	}
	if !resp.Success || resp.RequestSeq != 1 {
		t.Errorf("unexpected response: %+v", resp.Response)
	}
	if !resp.Body.SupportsConfigurationDoneRequest {
		t.Error("expected configurationDone capability")
	}

	msg, err = client.Receive()
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if _, ok := msg.(*dap.InitializedEvent); !ok {
		t.Fatalf("expected InitializedEvent, got %T", msg)
	}
}

// TestServer_LaunchDelegates verifies launch arguments reach the bridge in
// the boundary shape.
func TestServer_LaunchDelegates(t *testing.T) {
	bridge := &fakeBridge{}
	client, _ := startSession(t, bridge)

	args := json.RawMessage(`{
		"type": "chrome",
		"request": "launch",
		"name": "Launch",
		"url": "http://localhost:3000",
		"webRoot": "/srv/app",
		"port": 9333
	}`)
	if err := client.Send(&dap.LaunchRequest{Request: request(2, "launch"), Arguments: args}); err != nil {
		t.Fatalf("send launch failed: %v", err)
	}

	msg, err := client.Receive()
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if _, ok := msg.(*dap.LaunchResponse); !ok {
		t.Fatalf("expected LaunchResponse, got %T", msg)
	}

	if bridge.launchReq == nil {
		t.Fatal("expected bridge launch call")
	}
	if bridge.launchReq.URL != "http://localhost:3000" {
		t.Errorf("unexpected url: %s", bridge.launchReq.URL)
	}
	if bridge.launchReq.Port != 9333 {
		t.Errorf("unexpected port: %d", bridge.launchReq.Port)
	}
	if bridge.launchReq.WebRoot != "/srv/app" {
		t.Errorf("unexpected webRoot: %s", bridge.launchReq.WebRoot)
	}
}

// TestServer_LaunchFailure verifies orchestration errors surface as DAP
// error responses carrying the machine code.
func TestServer_LaunchFailure(t *testing.T) {
	bridge := &fakeBridge{launchErr: bridgeerrors.TargetNotFound("/missing/index.html")}
	client, _ := startSession(t, bridge)

	args := json.RawMessage(`{"type": "chrome", "request": "launch", "name": "L", "file": "/missing/index.html"}`)
	if err := client.Send(&dap.LaunchRequest{Request: request(2, "launch"), Arguments: args}); err != nil {
		t.Fatalf("send launch failed: %v", err)
	}

	msg, err := client.Receive()
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	resp, ok := msg.(*dap.ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse, got %T", msg)
	}
	if resp.Success {
		t.Error("expected failure response")
	}
	if resp.Message != "TARGET_NOT_FOUND" {
		t.Errorf("expected TARGET_NOT_FOUND code, got %q", resp.Message)
	}
	if resp.Body.Error == nil || resp.Body.Error.Format == "" {
		t.Error("expected human-readable error body")
	}
}

// TestServer_UnhandledRequest verifies debugging requests outside the
// bridge's scope are answered with an explicit error.
func TestServer_UnhandledRequest(t *testing.T) {
	client, _ := startSession(t, &fakeBridge{})

	if err := client.Send(&dap.SetBreakpointsRequest{
		Request: request(3, "setBreakpoints"),
	}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msg, err := client.Receive()
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	resp, ok := msg.(*dap.ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse, got %T", msg)
	}
	if resp.Message != "NOT_HANDLED" {
		t.Errorf("expected NOT_HANDLED, got %q", resp.Message)
	}
}

// TestServer_DisconnectEndsSession verifies disconnect disposes the bridge
// and ends the serve loop.
func TestServer_DisconnectEndsSession(t *testing.T) {
	bridge := &fakeBridge{}
	client, done := startSession(t, bridge)

	if err := client.Send(&dap.ConfigurationDoneRequest{Request: request(4, "configurationDone")}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg, err := client.Receive(); err != nil {
		t.Fatalf("receive failed: %v", err)
	} else if _, ok := msg.(*dap.ConfigurationDoneResponse); !ok {
		t.Fatalf("expected ConfigurationDoneResponse, got %T", msg)
	}

	if err := client.Send(&dap.DisconnectRequest{Request: request(5, "disconnect")}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg, err := client.Receive(); err != nil {
		t.Fatalf("receive failed: %v", err)
	} else if _, ok := msg.(*dap.DisconnectResponse); !ok {
		t.Fatalf("expected DisconnectResponse, got %T", msg)
	}

	if err := <-done; err != nil {
		t.Fatalf("serve returned error: %v", err)
	}
	if !bridge.disposed {
		t.Error("expected bridge disposed")
	}
}
