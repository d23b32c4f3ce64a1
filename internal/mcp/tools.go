package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the browser bridge tool set
func (s *Server) registerTools() {
	s.registerBrowserLaunch()
	s.registerBrowserAttach()
	s.registerBrowserStatus()
	s.registerBrowserListSessions()
	s.registerBrowserDisconnect()
}

func (s *Server) registerBrowserLaunch() {
	tool := mcp.NewTool("browser_launch",
		mcp.WithDescription("Launch a browser with remote debugging enabled and attach to it. Can use direct arguments OR reference a VS Code launch.json configuration. Returns sessionId needed for the other tools."),
		mcp.WithString("file",
			mcp.Description("Local HTML file to open. Mutually exclusive with url."),
		),
		mcp.WithString("url",
			mcp.Description("URL to open, e.g. http://localhost:3000. Mutually exclusive with file."),
		),
		mcp.WithString("runtimeExecutable",
			mcp.Description("Browser executable path. Auto-discovered from well-known install locations if not provided."),
		),
		mcp.WithNumber("port",
			mcp.Description("Remote debugging port (default: 9222)"),
		),
		mcp.WithString("cwd",
			mcp.Description("Working directory for the browser process"),
		),
		mcp.WithString("userDataDir",
			mcp.Description("Browser profile directory. Use a scratch directory to isolate the debug profile."),
		),
		mcp.WithBoolean("headless",
			mcp.Description("Run the browser headless (default: false)"),
		),
		mcp.WithString("webRoot",
			mcp.Description("Root of the web app's source files, substituted for ${webRoot} in path mappings"),
		),
		mcp.WithString("pathMapping",
			mcp.Description("JSON object mapping source-map path patterns to local paths. Example: {\"webpack:///./*\": \"${webRoot}/*\"}"),
		),
		mcp.WithString("configPath",
			mcp.Description("Path to launch.json file. Auto-discovers from workspace if not provided."),
		),
		mcp.WithString("configName",
			mcp.Description("Name of configuration in launch.json to use. If provided, loads settings from launch.json."),
		),
		mcp.WithString("workspace",
			mcp.Description("Workspace root for variable resolution (e.g., ${workspaceFolder}) and config discovery."),
		),
	)
	s.mcpServer.AddTool(tool, s.handleBrowserLaunch)
}

func (s *Server) registerBrowserAttach() {
	tool := mcp.NewTool("browser_attach",
		mcp.WithDescription("Attach to an already running browser's remote debugging endpoint. Can use direct arguments OR reference a VS Code launch.json configuration."),
		mcp.WithString("host",
			mcp.Description("Host of the debugging endpoint (default: 127.0.0.1)"),
		),
		mcp.WithNumber("port",
			mcp.Description("Remote debugging port (default: 9222)"),
		),
		mcp.WithString("url",
			mcp.Description("URL prefix to match when selecting the browser tab"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Attach timeout in milliseconds"),
		),
		mcp.WithString("webRoot",
			mcp.Description("Root of the web app's source files, substituted for ${webRoot} in path mappings"),
		),
		mcp.WithString("pathMapping",
			mcp.Description("JSON object mapping source-map path patterns to local paths"),
		),
		mcp.WithString("configPath",
			mcp.Description("Path to launch.json file. Auto-discovers from workspace if not provided."),
		),
		mcp.WithString("configName",
			mcp.Description("Name of attach configuration in launch.json to use."),
		),
		mcp.WithString("workspace",
			mcp.Description("Workspace root for variable resolution and config discovery."),
		),
	)
	s.mcpServer.AddTool(tool, s.handleBrowserAttach)
}

func (s *Server) registerBrowserStatus() {
	tool := mcp.NewTool("browser_status",
		mcp.WithDescription("Report a session's connection state, attached target and resolved source-map path overrides"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID returned by browser_launch or browser_attach"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleBrowserStatus)
}

func (s *Server) registerBrowserListSessions() {
	tool := mcp.NewTool("browser_list_sessions",
		mcp.WithDescription("List all active browser debug sessions"),
	)
	s.mcpServer.AddTool(tool, s.handleBrowserListSessions)
}

func (s *Server) registerBrowserDisconnect() {
	tool := mcp.NewTool("browser_disconnect",
		mcp.WithDescription("Disconnect a browser debug session. The browser itself keeps running."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID returned by browser_launch or browser_attach"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleBrowserDisconnect)
}
