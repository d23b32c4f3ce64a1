package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"browserdap/internal/errors"
	"browserdap/internal/launchconfig"
	ilog "browserdap/internal/log"
)

// jsonResult marshals a value into a text tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleBrowserLaunch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := &launchconfig.BrowserConfiguration{
		Type:    "chrome",
		Request: "launch",
		Name:    "browser_launch",
	}

	if configName, err := request.RequireString("configName"); err == nil && configName != "" {
		loaded, err := s.loadLaunchConfig(request, configName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if loaded.IsAttachRequest() {
			return mcp.NewToolResultError(errors.ConfigInvalid(configName,
				"configuration is an attach configuration; use browser_attach").Error()), nil
		}
		cfg = loaded
	}

	cfg = launchconfig.MergeOverrides(cfg, s.directOverrides(request,
		"file", "url", "runtimeExecutable", "cwd", "userDataDir", "webRoot"))
	if headless := request.GetBool("headless", cfg.Headless); headless {
		cfg.Headless = true
	}
	if err := s.applyPathMapping(request, cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if cfg.File != "" && cfg.URL != "" {
		return mcp.NewToolResultError(errors.InvalidParameter("file", cfg.File,
			"file and url are mutually exclusive; provide one of them").Error()), nil
	}

	orch := s.newOrchestrator()
	port := cfg.Port
	if port == 0 {
		port = s.config.Browser.DefaultPort
	}

	session, err := s.sessions.CreateSession(orch, port)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := orch.Launch(ctx, cfg.ToLaunchRequest()); err != nil {
		_ = s.sessions.RemoveSession(session.ID)
		return mcp.NewToolResultError(err.Error()), nil
	}

	ilog.L().Info().Str("sessionId", session.ID).Msg("launch session created")
	return jsonResult(map[string]interface{}{
		"sessionId":     session.ID,
		"state":         orch.State(),
		"target":        orch.Target(),
		"port":          port,
		"pid":           orch.Pid(),
		"pathOverrides": orch.PathOverrides(),
	})
}

func (s *Server) handleBrowserAttach(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := &launchconfig.BrowserConfiguration{
		Type:    "chrome",
		Request: "attach",
		Name:    "browser_attach",
	}

	if configName, err := request.RequireString("configName"); err == nil && configName != "" {
		loaded, err := s.loadLaunchConfig(request, configName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if loaded.IsLaunchRequest() {
			return mcp.NewToolResultError(errors.ConfigInvalid(configName,
				"configuration is a launch configuration; use browser_launch").Error()), nil
		}
		cfg = loaded
	}

	cfg = launchconfig.MergeOverrides(cfg, s.directOverrides(request, "host", "url", "webRoot"))
	if timeout, err := request.RequireFloat("timeout"); err == nil && timeout > 0 {
		cfg.Timeout = int(timeout)
	}
	if err := s.applyPathMapping(request, cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	orch := s.newOrchestrator()
	port := cfg.Port
	if port == 0 {
		port = s.config.Browser.DefaultPort
	}

	session, err := s.sessions.CreateSession(orch, port)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := orch.Attach(ctx, cfg.ToAttachRequest()); err != nil {
		_ = s.sessions.RemoveSession(session.ID)
		return mcp.NewToolResultError(err.Error()), nil
	}

	ilog.L().Info().Str("sessionId", session.ID).Msg("attach session created")
	return jsonResult(map[string]interface{}{
		"sessionId":     session.ID,
		"state":         orch.State(),
		"target":        orch.Target(),
		"port":          port,
		"pathOverrides": orch.PathOverrides(),
	})
}

func (s *Server) handleBrowserStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(errors.MissingParameter("sessionId",
			"Provide the session ID returned by browser_launch or browser_attach.").Error()), nil
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"session":       session.Info(),
		"pathOverrides": session.Orchestrator.PathOverrides(),
	})
}

func (s *Server) handleBrowserListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.sessions.ListSessions()
	infos := make([]interface{}, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, session.Info())
	}
	return jsonResult(map[string]interface{}{
		"sessions": infos,
		"count":    len(infos),
	})
}

func (s *Server) handleBrowserDisconnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("sessionId")
	if err != nil {
		return mcp.NewToolResultError(errors.MissingParameter("sessionId",
			"Provide the session ID returned by browser_launch or browser_attach.").Error()), nil
	}

	if err := s.sessions.RemoveSession(sessionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ilog.L().Info().Str("sessionId", sessionID).Msg("session disconnected")
	return mcp.NewToolResultText(fmt.Sprintf("Session %s disconnected. The browser keeps running.", sessionID)), nil
}

// directOverrides collects the given string arguments plus the numeric
// port into a MergeOverrides map.
func (s *Server) directOverrides(request mcp.CallToolRequest, keys ...string) map[string]interface{} {
	overrides := make(map[string]interface{})
	for _, key := range keys {
		if v, err := request.RequireString(key); err == nil && v != "" {
			overrides[key] = v
		}
	}
	if port, err := request.RequireFloat("port"); err == nil && port > 0 {
		overrides["port"] = port
	}
	return overrides
}

// applyPathMapping parses the pathMapping JSON argument into the
// configuration.
func (s *Server) applyPathMapping(request mcp.CallToolRequest, cfg *launchconfig.BrowserConfiguration) error {
	raw, err := request.RequireString("pathMapping")
	if err != nil || raw == "" {
		return nil
	}
	var mapping map[string]string
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return errors.InvalidParameter("pathMapping", raw,
			"a JSON object of string pattern to string path, e.g. {\"webpack:///./*\": \"${webRoot}/*\"}")
	}
	cfg.PathMapping = mapping
	return nil
}

// loadLaunchConfig loads and resolves a named configuration from
// launch.json, honoring configPath and workspace arguments.
func (s *Server) loadLaunchConfig(request mcp.CallToolRequest, configName string) (*launchconfig.BrowserConfiguration, error) {
	workspace, _ := request.RequireString("workspace")

	var (
		lj   *launchconfig.LaunchJSON
		path string
		err  error
	)
	if configPath, cpErr := request.RequireString("configPath"); cpErr == nil && configPath != "" {
		lj, err = launchconfig.LoadFromPath(configPath)
		path = configPath
	} else {
		lj, path, err = launchconfig.LoadAndDiscover(workspace)
	}
	if err != nil {
		return nil, errors.ConfigNotFound(configName, nil).WithCause(err)
	}

	cfg, err := launchconfig.FindConfiguration(lj, configName)
	if err != nil {
		return nil, errors.ConfigNotFound(configName, launchconfig.ListConfigurationNames(lj))
	}
	if err := launchconfig.ValidateConfiguration(cfg); err != nil {
		return nil, errors.ConfigInvalid(configName, err.Error())
	}

	if workspace == "" {
		workspace = launchconfig.GetWorkspaceFolder(path)
	}
	resolved, err := launchconfig.ResolveConfiguration(cfg, &launchconfig.ResolutionContext{
		WorkspaceFolder: workspace,
	})
	if err != nil {
		return nil, errors.ConfigInvalid(configName, err.Error())
	}
	return resolved, nil
}
