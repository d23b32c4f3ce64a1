package launchconfig

import (
	"os"
	"path/filepath"
	"testing"

	"browserdap/pkg/types"
)

// TestLoadFromPath verifies that launch.json files can be loaded and parsed correctly.
func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	vscodeDir := filepath.Join(tmpDir, ".vscode")
	if err := os.MkdirAll(vscodeDir, 0755); err != nil {
		t.Fatalf("failed to create .vscode dir: %v", err)
	}

	launchJSON := `{
		"version": "0.2.0",
		"configurations": [
			{
				"type": "chrome",
				"request": "launch",
				"name": "Launch index.html",
				"file": "${workspaceFolder}/index.html",
				"webRoot": "${workspaceFolder}"
			},
			{
				"type": "msedge",
				"request": "attach",
				"name": "Attach to Edge",
				"port": 9222,
				"webRoot": "${workspaceFolder}/src"
			}
		]
	}`

	launchPath := filepath.Join(vscodeDir, "launch.json")
	if err := os.WriteFile(launchPath, []byte(launchJSON), 0644); err != nil {
		t.Fatalf("failed to write launch.json: %v", err)
	}

	lj, err := LoadFromPath(launchPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if lj.Version != "0.2.0" {
		t.Errorf("expected version 0.2.0, got %s", lj.Version)
	}

	if len(lj.Configurations) != 2 {
		t.Fatalf("expected 2 configurations, got %d", len(lj.Configurations))
	}

	if lj.Configurations[0].File != "${workspaceFolder}/index.html" {
		t.Errorf("unexpected file: %s", lj.Configurations[0].File)
	}

	if lj.Configurations[1].Port != 9222 {
		t.Errorf("expected port 9222, got %d", lj.Configurations[1].Port)
	}
}

// TestLoadFromPath_InvalidJSON verifies error handling for malformed JSON.
func TestLoadFromPath_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	launchPath := filepath.Join(tmpDir, "launch.json")

	if err := os.WriteFile(launchPath, []byte(`{invalid json`), 0644); err != nil {
		t.Fatalf("failed to write launch.json: %v", err)
	}

	_, err := LoadFromPath(launchPath)
	if err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

// TestLoadFromPath_NonExistent verifies error handling for missing files.
func TestLoadFromPath_NonExistent(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/launch.json")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

// TestDiscover verifies that launch.json files can be discovered in parent directories.
func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()
	vscodeDir := filepath.Join(tmpDir, ".vscode")
	nestedDir := filepath.Join(tmpDir, "src", "components")

	if err := os.MkdirAll(vscodeDir, 0755); err != nil {
		t.Fatalf("failed to create .vscode dir: %v", err)
	}
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	launchJSON := `{"version": "0.2.0", "configurations": []}`
	launchPath := filepath.Join(vscodeDir, "launch.json")
	if err := os.WriteFile(launchPath, []byte(launchJSON), 0644); err != nil {
		t.Fatalf("failed to write launch.json: %v", err)
	}

	foundPath, err := Discover(nestedDir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if foundPath != launchPath {
		t.Errorf("expected %s, got %s", launchPath, foundPath)
	}
}

// TestDiscover_NotFound verifies error handling when no launch.json exists.
func TestDiscover_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Discover(tmpDir)
	if err == nil {
		t.Error("expected error when launch.json not found, got nil")
	}
}

// TestFindConfiguration verifies configuration lookup by name.
func TestFindConfiguration(t *testing.T) {
	lj := &LaunchJSON{
		Version: "0.2.0",
		Configurations: []BrowserConfiguration{
			{Type: "chrome", Request: "launch", Name: "Launch Chrome"},
			{Type: "msedge", Request: "attach", Name: "Attach to Edge"},
		},
	}

	cfg, err := FindConfiguration(lj, "Launch Chrome")
	if err != nil {
		t.Fatalf("FindConfiguration failed: %v", err)
	}
	if cfg.Type != "chrome" {
		t.Errorf("expected type chrome, got %s", cfg.Type)
	}

	_, err = FindConfiguration(lj, "Not Found")
	if err == nil {
		t.Error("expected error for non-existent config")
	}
}

// TestResolveVariables verifies VS Code variable expansion.
func TestResolveVariables(t *testing.T) {
	ctx := &ResolutionContext{
		WorkspaceFolder: "/home/user/project",
		CurrentFile:     "/home/user/project/src/index.html",
		EnvOverrides: map[string]string{
			"MY_VAR": "test_value",
		},
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"workspaceFolder", "${workspaceFolder}", "/home/user/project"},
		{"workspaceFolderBasename", "${workspaceFolderBasename}", "project"},
		{"file", "${file}", "/home/user/project/src/index.html"},
		{"fileBasename", "${fileBasename}", "index.html"},
		{"fileDirname", "${fileDirname}", "/home/user/project/src"},
		{"fileBasenameNoExtension", "${fileBasenameNoExtension}", "index"},
		{"relativeFile", "${relativeFile}", "src/index.html"},
		{"env variable", "${env:MY_VAR}", "test_value"},
		{"pathSeparator", "${pathSeparator}", string(os.PathSeparator)},
		{"mixed text", "File: ${fileBasename} in ${workspaceFolder}", "File: index.html in /home/user/project"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ResolveVariables(tc.input, ctx)
			if err != nil {
				t.Errorf("ResolveVariables(%q) error: %v", tc.input, err)
				return
			}
			if result != tc.expected {
				t.Errorf("ResolveVariables(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

// TestResolveVariables_WebRootPreserved verifies that ${webRoot} survives
// generic variable expansion untouched. It is substituted later, during
// path-override resolution, and only as a string prefix.
func TestResolveVariables_WebRootPreserved(t *testing.T) {
	ctx := &ResolutionContext{
		WorkspaceFolder: "/home/user/project",
	}

	result, err := ResolveVariables("${webRoot}/src/*", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "${webRoot}/src/*" {
		t.Errorf("expected ${webRoot} preserved, got %q", result)
	}

	// Mixed with a resolvable variable, only the other one expands.
	result, err = ResolveVariables("${workspaceFolder}:${webRoot}", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "/home/user/project:${webRoot}" {
		t.Errorf("unexpected result: %q", result)
	}
}

// TestResolveVariables_Unknown verifies error handling for unknown variables.
func TestResolveVariables_Unknown(t *testing.T) {
	ctx := &ResolutionContext{WorkspaceFolder: "/home/user/project"}

	_, err := ResolveVariables("${noSuchVariable}", ctx)
	if err == nil {
		t.Error("expected error for unknown variable")
	}
}

// TestResolveVariables_EmptyEnv verifies behavior with undefined environment variables.
func TestResolveVariables_EmptyEnv(t *testing.T) {
	ctx := &ResolutionContext{
		WorkspaceFolder: "/home/user/project",
	}

	result, err := ResolveVariables("${env:UNDEFINED_VAR_BROWSERDAP}", ctx)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "" {
		t.Errorf("expected empty string for undefined env var, got %q", result)
	}
}

// TestResolveConfiguration verifies full configuration resolution with variables.
func TestResolveConfiguration(t *testing.T) {
	cfg := &BrowserConfiguration{
		Type:        "chrome",
		Request:     "launch",
		Name:        "Launch",
		File:        "${workspaceFolder}/index.html",
		WebRoot:     "${workspaceFolder}/src",
		Cwd:         "${workspaceFolder}",
		RuntimeArgs: []string{"--lang=${env:MY_LANG}"},
		Env: map[string]string{
			"NODE_PATH": "${workspaceFolder}/lib",
		},
		PathMapping: map[string]string{
			"webpack:///./*": "${webRoot}/*",
		},
	}

	ctx := &ResolutionContext{
		WorkspaceFolder: "/home/user/project",
		EnvOverrides: map[string]string{
			"MY_LANG": "en-US",
		},
	}

	resolved, err := ResolveConfiguration(cfg, ctx)
	if err != nil {
		t.Fatalf("ResolveConfiguration failed: %v", err)
	}

	if resolved.File != "/home/user/project/index.html" {
		t.Errorf("expected file /home/user/project/index.html, got %s", resolved.File)
	}

	if resolved.WebRoot != "/home/user/project/src" {
		t.Errorf("expected webRoot /home/user/project/src, got %s", resolved.WebRoot)
	}

	if resolved.Cwd != "/home/user/project" {
		t.Errorf("expected cwd /home/user/project, got %s", resolved.Cwd)
	}

	if len(resolved.RuntimeArgs) != 1 || resolved.RuntimeArgs[0] != "--lang=en-US" {
		t.Errorf("expected runtimeArgs [--lang=en-US], got %v", resolved.RuntimeArgs)
	}

	if resolved.Env["NODE_PATH"] != "/home/user/project/lib" {
		t.Errorf("expected NODE_PATH /home/user/project/lib, got %s", resolved.Env["NODE_PATH"])
	}

	// ${webRoot} in path mappings must stay put for the override resolver.
	if resolved.PathMapping["webpack:///./*"] != "${webRoot}/*" {
		t.Errorf("expected pathMapping value preserved, got %v", resolved.PathMapping)
	}

	// Original should be unchanged
	if cfg.File != "${workspaceFolder}/index.html" {
		t.Error("original configuration was modified")
	}
}

// TestConfigurationHelpers verifies IsLaunchRequest, IsAttachRequest and IsBrowserType.
func TestConfigurationHelpers(t *testing.T) {
	launchCfg := &BrowserConfiguration{
		Type:    "chrome",
		Request: "launch",
	}
	if !launchCfg.IsLaunchRequest() {
		t.Error("expected IsLaunchRequest to be true")
	}
	if launchCfg.IsAttachRequest() {
		t.Error("expected IsAttachRequest to be false")
	}
	if !launchCfg.IsBrowserType() {
		t.Error("expected IsBrowserType to be true")
	}

	attachCfg := &BrowserConfiguration{
		Type:    "msedge",
		Request: "attach",
	}
	if attachCfg.IsLaunchRequest() {
		t.Error("expected IsLaunchRequest to be false")
	}
	if !attachCfg.IsAttachRequest() {
		t.Error("expected IsAttachRequest to be true")
	}

	nonBrowser := &BrowserConfiguration{Type: "node", Request: "launch"}
	if nonBrowser.IsBrowserType() {
		t.Error("expected IsBrowserType to be false for node")
	}
}

// TestOverridesPrecedence verifies pathMapping wins over sourceMapPathOverrides.
func TestOverridesPrecedence(t *testing.T) {
	cfg := &BrowserConfiguration{
		PathMapping:            map[string]string{"/app/*": "${webRoot}/*"},
		SourceMapPathOverrides: map[string]string{"webpack:///*": "*"},
	}

	got := cfg.Overrides()
	if _, ok := got["/app/*"]; !ok {
		t.Errorf("expected pathMapping to take precedence, got %v", got)
	}

	cfg.PathMapping = nil
	got = cfg.Overrides()
	if _, ok := got["webpack:///*"]; !ok {
		t.Errorf("expected fallback to sourceMapPathOverrides, got %v", got)
	}
}

// TestExtraFieldCapture verifies unknown launch.json properties land in Extra
// and survive a marshal round trip.
func TestExtraFieldCapture(t *testing.T) {
	raw := `{
		"type": "chrome",
		"request": "launch",
		"name": "Launch",
		"url": "http://localhost:3000",
		"trace": true,
		"skipFiles": ["<node_internals>/**"]
	}`

	var cfg BrowserConfiguration
	if err := cfg.UnmarshalJSON([]byte(raw)); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}

	if cfg.URL != "http://localhost:3000" {
		t.Errorf("expected url field decoded, got %s", cfg.URL)
	}

	if cfg.Extra["trace"] != true {
		t.Errorf("expected trace captured in Extra, got %v", cfg.Extra)
	}

	if _, ok := cfg.Extra["skipFiles"]; !ok {
		t.Errorf("expected skipFiles captured in Extra, got %v", cfg.Extra)
	}

	if _, ok := cfg.Extra["url"]; ok {
		t.Error("known field url should not appear in Extra")
	}

	data, err := cfg.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	var round BrowserConfiguration
	if err := round.UnmarshalJSON(data); err != nil {
		t.Fatalf("round-trip unmarshal failed: %v", err)
	}
	if round.Extra["trace"] != true {
		t.Errorf("expected trace to survive round trip, got %v", round.Extra)
	}
}

// TestMergeOverrides verifies tool-argument overrides without mutating the original.
func TestMergeOverrides(t *testing.T) {
	cfg := &BrowserConfiguration{
		Type:    "chrome",
		Request: "launch",
		Name:    "Launch",
		URL:     "http://localhost:3000",
		Port:    9222,
	}

	overrides := map[string]interface{}{
		"url":      "http://localhost:8080",
		"port":     float64(9333), // JSON numbers decode as float64
		"headless": true,
		"newField": "value",
	}

	merged := MergeOverrides(cfg, overrides)

	if merged.URL != "http://localhost:8080" {
		t.Errorf("expected overridden url, got %s", merged.URL)
	}

	if merged.Port != 9333 {
		t.Errorf("expected overridden port 9333, got %d", merged.Port)
	}

	if !merged.Headless {
		t.Error("expected headless override applied")
	}

	if merged.Extra["newField"] != "value" {
		t.Errorf("expected extra field, got %v", merged.Extra)
	}

	// Original should be unchanged
	if cfg.URL != "http://localhost:3000" || cfg.Port != 9222 {
		t.Error("original cfg was modified")
	}
}

// TestToLaunchRequest verifies conversion to the orchestrator launch shape.
func TestToLaunchRequest(t *testing.T) {
	cfg := &BrowserConfiguration{
		Type:     "chrome",
		Request:  "launch",
		Name:     "Launch",
		File:     "/app/index.html",
		Port:     9333,
		WebRoot:  "/app",
		Headless: true,
		PathMapping: map[string]string{
			"/src/*": "${webRoot}/src/*",
		},
	}

	req := cfg.ToLaunchRequest()

	if req.Kind != types.BrowserChrome {
		t.Errorf("expected chrome kind, got %s", req.Kind)
	}
	if req.File != "/app/index.html" {
		t.Errorf("expected file /app/index.html, got %s", req.File)
	}
	if req.Port != 9333 {
		t.Errorf("expected port 9333, got %d", req.Port)
	}
	if !req.Headless {
		t.Error("expected headless true")
	}
	if req.PathMapping["/src/*"] != "${webRoot}/src/*" {
		t.Errorf("expected pathMapping carried over, got %v", req.PathMapping)
	}

	cfg.Type = "msedge"
	if req := cfg.ToLaunchRequest(); req.Kind != types.BrowserEdge {
		t.Errorf("expected edge kind for msedge configuration, got %s", req.Kind)
	}
}

// TestToAttachRequest verifies conversion to the orchestrator attach shape.
func TestToAttachRequest(t *testing.T) {
	cfg := &BrowserConfiguration{
		Type:    "msedge",
		Request: "attach",
		Name:    "Attach",
		Host:    "localhost",
		Port:    9222,
		Timeout: 5000,
		WebRoot: "/app",
	}

	req := cfg.ToAttachRequest()

	if req.Host != "localhost" {
		t.Errorf("expected host localhost, got %s", req.Host)
	}
	if req.Port != 9222 {
		t.Errorf("expected port 9222, got %d", req.Port)
	}
	if req.TimeoutMs != 5000 {
		t.Errorf("expected timeout 5000, got %d", req.TimeoutMs)
	}
}

// TestValidateConfiguration verifies configuration validation rules.
func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *BrowserConfiguration
		wantErr bool
	}{
		{
			name: "valid launch config",
			cfg: &BrowserConfiguration{
				Type:    "chrome",
				Request: "launch",
				Name:    "Launch",
				File:    "index.html",
			},
			wantErr: false,
		},
		{
			name: "valid attach config",
			cfg: &BrowserConfiguration{
				Type:    "msedge",
				Request: "attach",
				Name:    "Attach",
				Port:    9222,
			},
			wantErr: false,
		},
		{
			name: "missing type",
			cfg: &BrowserConfiguration{
				Request: "launch",
				Name:    "No Type",
			},
			wantErr: true,
		},
		{
			name: "non-browser type",
			cfg: &BrowserConfiguration{
				Type:    "python",
				Request: "launch",
				Name:    "Python",
			},
			wantErr: true,
		},
		{
			name: "missing name",
			cfg: &BrowserConfiguration{
				Type:    "chrome",
				Request: "launch",
			},
			wantErr: true,
		},
		{
			name: "bad request",
			cfg: &BrowserConfiguration{
				Type:    "chrome",
				Request: "start",
				Name:    "Bad",
			},
			wantErr: true,
		},
		{
			name: "file and url together",
			cfg: &BrowserConfiguration{
				Type:    "chrome",
				Request: "launch",
				Name:    "Both",
				File:    "index.html",
				URL:     "http://localhost:3000",
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfiguration(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateConfiguration() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

// TestGetWorkspaceFolder verifies workspace folder extraction from launch.json path.
func TestGetWorkspaceFolder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/home/user/project/.vscode/launch.json", "/home/user/project"},
		{"/project/.vscode/launch.json", "/project"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			workspace := GetWorkspaceFolder(tc.input)
			if workspace != tc.expected {
				t.Errorf("GetWorkspaceFolder(%q) = %q, want %q", tc.input, workspace, tc.expected)
			}
		})
	}
}
