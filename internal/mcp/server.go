// Package mcp exposes the browser debugging bridge through the Model
// Context Protocol, so AI assistants and other MCP clients can drive it.
//
// Tools:
//   - browser_launch: launch a browser with remote debugging and attach
//   - browser_attach: attach to an already running browser
//   - browser_status: report one session's state, target and path overrides
//   - browser_list_sessions: list active sessions
//   - browser_disconnect: tear a session down
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"browserdap/internal/chrome"
	"browserdap/internal/config"
	"browserdap/internal/launcher"
)

// OrchestratorFactory creates the orchestrator backing one session.
// Replaceable in tests.
type OrchestratorFactory func() *launcher.Orchestrator

// Server wraps the MCP server with browser bridge capabilities.
type Server struct {
	mcpServer       *server.MCPServer
	sessions        *SessionManager
	config          *config.Config
	newOrchestrator OrchestratorFactory
}

// NewServer creates a new bridge MCP server.
func NewServer(cfg *config.Config) *Server {
	mcpServer := server.NewMCPServer(
		"browserdap",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcpServer: mcpServer,
		sessions:  NewSessionManager(cfg.MaxSessions),
		config:    cfg,
		newOrchestrator: func() *launcher.Orchestrator {
			conn := chrome.NewCDPConnectionWithRetry(cfg.Connection.RetryInterval, cfg.Connection.AttachRetries)
			return launcher.New(cfg, conn, launcher.NewExecLauncher())
		},
	}

	s.registerTools()

	return s
}

// ServeStdio starts the server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the server and disposes all sessions.
func (s *Server) Close() {
	s.sessions.Close()
}
