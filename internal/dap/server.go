package dap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/go-dap"

	bridgeerrors "browserdap/internal/errors"
	"browserdap/internal/launchconfig"
	ilog "browserdap/internal/log"
	"browserdap/pkg/types"
)

// Bridge is the orchestration surface the DAP session drives. It is
// satisfied by *launcher.Orchestrator.
type Bridge interface {
	Launch(ctx context.Context, req *types.LaunchRequest) error
	Attach(ctx context.Context, req *types.AttachRequest) error
	Dispose() error
	State() types.ConnectionState
	Target() *types.TargetInfo
}

// Server is a minimal DAP adapter session. It owns the launch/attach
// handshake with the IDE; the actual debugging traffic (breakpoints,
// stepping, evaluation) is the debug core's business and any such request
// is answered with an explicit error.
type Server struct {
	t      *Transport
	bridge Bridge
}

// NewServer creates a DAP session over the given transport.
func NewServer(t *Transport, bridge Bridge) *Server {
	return &Server{t: t, bridge: bridge}
}

// Serve reads and dispatches messages until the IDE disconnects or the
// stream ends.
func (s *Server) Serve(ctx context.Context) error {
	for {
		msg, err := s.t.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}

		done, err := s.handle(ctx, msg)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// handle dispatches one message. It returns done=true after a disconnect.
func (s *Server) handle(ctx context.Context, msg dap.Message) (bool, error) {
	switch m := msg.(type) {
	case *dap.InitializeRequest:
		resp := &dap.InitializeResponse{
			Response: s.newResponse(m.Seq, m.Command),
			Body: dap.Capabilities{
				SupportsConfigurationDoneRequest: true,
			},
		}
		if err := s.t.Send(resp); err != nil {
			return false, err
		}
		return false, s.t.Send(&dap.InitializedEvent{Event: s.newEvent("initialized")})

	case *dap.LaunchRequest:
		var cfg launchconfig.BrowserConfiguration
		if err := json.Unmarshal(m.Arguments, &cfg); err != nil {
			return false, s.sendError(m.Seq, m.Command, "INVALID_PARAMETER",
				fmt.Sprintf("malformed launch arguments: %v", err))
		}
		if err := s.bridge.Launch(ctx, cfg.ToLaunchRequest()); err != nil {
			return false, s.sendBridgeError(m.Seq, m.Command, err)
		}
		return false, s.t.Send(&dap.LaunchResponse{Response: s.newResponse(m.Seq, m.Command)})

	case *dap.AttachRequest:
		var cfg launchconfig.BrowserConfiguration
		if err := json.Unmarshal(m.Arguments, &cfg); err != nil {
			return false, s.sendError(m.Seq, m.Command, "INVALID_PARAMETER",
				fmt.Sprintf("malformed attach arguments: %v", err))
		}
		if err := s.bridge.Attach(ctx, cfg.ToAttachRequest()); err != nil {
			return false, s.sendBridgeError(m.Seq, m.Command, err)
		}
		return false, s.t.Send(&dap.AttachResponse{Response: s.newResponse(m.Seq, m.Command)})

	case *dap.ConfigurationDoneRequest:
		return false, s.t.Send(&dap.ConfigurationDoneResponse{Response: s.newResponse(m.Seq, m.Command)})

	case *dap.DisconnectRequest:
		if err := s.bridge.Dispose(); err != nil {
			ilog.L().Warn().Err(err).Msg("dispose during disconnect failed")
		}
		if err := s.t.Send(&dap.DisconnectResponse{Response: s.newResponse(m.Seq, m.Command)}); err != nil {
			return true, err
		}
		return true, nil

	default:
		if req, ok := msg.(dap.RequestMessage); ok {
			r := req.GetRequest()
			return false, s.sendError(r.Seq, r.Command, "NOT_HANDLED",
				fmt.Sprintf("request %q is handled by the debug core, not this bridge", r.Command))
		}
		ilog.L().Debug().Str("type", fmt.Sprintf("%T", msg)).Msg("ignoring non-request message")
		return false, nil
	}
}

func (s *Server) newResponse(requestSeq int, command string) dap.Response {
	return dap.Response{
		ProtocolMessage: dap.ProtocolMessage{
			Seq:  s.t.NextSeq(),
			Type: "response",
		},
		RequestSeq: requestSeq,
		Success:    true,
		Command:    command,
	}
}

func (s *Server) newEvent(event string) dap.Event {
	return dap.Event{
		ProtocolMessage: dap.ProtocolMessage{
			Seq:  s.t.NextSeq(),
			Type: "event",
		},
		Event: event,
	}
}

// sendBridgeError maps an orchestration error onto a DAP error response,
// carrying the machine code in the response message and the human text in
// the error body.
func (s *Server) sendBridgeError(requestSeq int, command string, err error) error {
	be := bridgeerrors.FromError(err)
	text := be.Message
	if be.Hint != "" {
		text += " (" + be.Hint + ")"
	}
	return s.sendError(requestSeq, command, string(be.Code), text)
}

func (s *Server) sendError(requestSeq int, command, code, text string) error {
	resp := &dap.ErrorResponse{
		Response: dap.Response{
			ProtocolMessage: dap.ProtocolMessage{
				Seq:  s.t.NextSeq(),
				Type: "response",
			},
			RequestSeq: requestSeq,
			Success:    false,
			Command:    command,
			Message:    code,
		},
	}
	resp.Body.Error = &dap.ErrorMessage{
		Id:       1,
		Format:   text,
		ShowUser: true,
	}
	return s.t.Send(resp)
}
