// Package launchconfig provides support for VS Code launch.json debug
// configurations targeting browsers.
package launchconfig

import (
	"encoding/json"

	"browserdap/pkg/types"
)

// LaunchJSON represents a VS Code launch.json file structure.
type LaunchJSON struct {
	Version        string                 `json:"version"`
	Configurations []BrowserConfiguration `json:"configurations"`
}

// BrowserConfiguration represents a single browser debug configuration in
// launch.json. Unknown properties are captured into Extra so that
// forward-compatible settings survive a load/resolve round trip.
type BrowserConfiguration struct {
	// Required fields
	Type    string `json:"type"`    // e.g., "chrome", "pwa-chrome", "msedge"
	Request string `json:"request"` // "launch" or "attach"
	Name    string `json:"name"`    // Human-readable name

	// Launch target: a local file or a served URL
	File string `json:"file,omitempty"`
	URL  string `json:"url,omitempty"`

	// Browser process settings
	RuntimeExecutable string            `json:"runtimeExecutable,omitempty"`
	RuntimeArgs       []string          `json:"runtimeArgs,omitempty"`
	Cwd               string            `json:"cwd,omitempty"`
	Env               map[string]string `json:"env,omitempty"`
	UserDataDir       string            `json:"userDataDir,omitempty"`
	Headless          bool              `json:"headless,omitempty"`

	// Remote debugging connection
	Port    int    `json:"port,omitempty"`
	Host    string `json:"host,omitempty"`
	Timeout int    `json:"timeout,omitempty"` // milliseconds

	// Source map configuration
	WebRoot                string            `json:"webRoot,omitempty"`
	SourceMaps             *bool             `json:"sourceMaps,omitempty"`
	PathMapping            map[string]string `json:"pathMapping,omitempty"`
	SourceMapPathOverrides map[string]string `json:"sourceMapPathOverrides,omitempty"`

	// All other properties not explicitly defined
	Extra map[string]interface{} `json:"-"`
}

// ResolutionContext provides context for variable resolution.
type ResolutionContext struct {
	WorkspaceFolder string            // Root folder of the workspace
	CurrentFile     string            // Currently active file (for ${file} variables)
	EnvOverrides    map[string]string // Override environment variables
}

// knownFields lists the explicitly modeled launch.json properties; anything
// else lands in Extra.
var knownFields = map[string]bool{
	"type": true, "request": true, "name": true,
	"file": true, "url": true,
	"runtimeExecutable": true, "runtimeArgs": true,
	"cwd": true, "env": true, "userDataDir": true, "headless": true,
	"port": true, "host": true, "timeout": true,
	"webRoot": true, "sourceMaps": true,
	"pathMapping": true, "sourceMapPathOverrides": true,
}

// UnmarshalJSON implements custom unmarshaling to capture unknown fields.
func (c *BrowserConfiguration) UnmarshalJSON(data []byte) error {
	// First unmarshal into a map to capture all fields
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Type aliasing trick to reuse the default decoding for known fields
	type Alias BrowserConfiguration
	var alias Alias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*c = BrowserConfiguration(alias)

	// Capture unknown fields into Extra
	c.Extra = make(map[string]interface{})
	for key, value := range raw {
		if !knownFields[key] {
			var v interface{}
			if err := json.Unmarshal(value, &v); err != nil {
				return err
			}
			c.Extra[key] = v
		}
	}

	return nil
}

// MarshalJSON implements custom marshaling to include Extra fields.
func (c BrowserConfiguration) MarshalJSON() ([]byte, error) {
	type Alias BrowserConfiguration
	alias := Alias(c)

	data, err := json.Marshal(alias)
	if err != nil {
		return nil, err
	}

	if len(c.Extra) == 0 {
		return data, nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		m[k] = v
	}
	return json.Marshal(m)
}

// browserTypes maps launch.json debug types to the browser family.
var browserTypes = map[string]types.BrowserKind{
	"chrome":     types.BrowserChrome,
	"pwa-chrome": types.BrowserChrome,
	"chromium":   types.BrowserChromium,
	"msedge":     types.BrowserEdge,
	"pwa-msedge": types.BrowserEdge,
}

// IsLaunchRequest returns true if this is a launch configuration (not attach).
func (c *BrowserConfiguration) IsLaunchRequest() bool {
	return c.Request == "launch"
}

// IsAttachRequest returns true if this is an attach configuration.
func (c *BrowserConfiguration) IsAttachRequest() bool {
	return c.Request == "attach"
}

// IsBrowserType returns true if this configuration targets a supported browser.
func (c *BrowserConfiguration) IsBrowserType() bool {
	_, ok := browserTypes[c.Type]
	return ok
}

// BrowserKind returns the browser family for this configuration.
func (c *BrowserConfiguration) BrowserKind() types.BrowserKind {
	if k, ok := browserTypes[c.Type]; ok {
		return k
	}
	return types.BrowserChrome
}

// Overrides returns whichever path-override mapping the configuration
// carries: pathMapping takes precedence over the older
// sourceMapPathOverrides spelling.
func (c *BrowserConfiguration) Overrides() map[string]string {
	if len(c.PathMapping) > 0 {
		return c.PathMapping
	}
	return c.SourceMapPathOverrides
}
