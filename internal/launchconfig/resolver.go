package launchconfig

import (
	"encoding/json"
	"fmt"

	"browserdap/pkg/types"
)

// ResolveConfiguration resolves all variables in a configuration and
// returns a fresh copy; the input configuration is never modified.
func ResolveConfiguration(cfg *BrowserConfiguration, ctx *ResolutionContext) (*BrowserConfiguration, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is nil")
	}
	if ctx == nil {
		ctx = &ResolutionContext{}
	}

	resolved := &BrowserConfiguration{
		Type:       cfg.Type,
		Request:    cfg.Request,
		Name:       cfg.Name,
		Headless:   cfg.Headless,
		Port:       cfg.Port,
		Timeout:    cfg.Timeout,
		SourceMaps: cfg.SourceMaps,
	}

	var err error

	resolved.File, err = ResolveStringField(cfg.File, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}

	resolved.URL, err = ResolveStringField(cfg.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve url: %w", err)
	}

	resolved.WebRoot, err = ResolveStringField(cfg.WebRoot, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve webRoot: %w", err)
	}

	resolved.Cwd, err = ResolveStringField(cfg.Cwd, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cwd: %w", err)
	}

	resolved.Host, err = ResolveStringField(cfg.Host, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve host: %w", err)
	}

	resolved.RuntimeExecutable, err = ResolveStringField(cfg.RuntimeExecutable, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve runtimeExecutable: %w", err)
	}

	resolved.UserDataDir, err = ResolveStringField(cfg.UserDataDir, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve userDataDir: %w", err)
	}

	resolved.RuntimeArgs, err = ResolveStringSlice(cfg.RuntimeArgs, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve runtimeArgs: %w", err)
	}

	resolved.Env, err = ResolveStringMap(cfg.Env, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve env: %w", err)
	}

	resolved.PathMapping, err = ResolveStringMap(cfg.PathMapping, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pathMapping: %w", err)
	}

	resolved.SourceMapPathOverrides, err = ResolveStringMap(cfg.SourceMapPathOverrides, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sourceMapPathOverrides: %w", err)
	}

	if cfg.Extra != nil {
		resolved.Extra, err = resolveExtraFields(cfg.Extra, ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve extra fields: %w", err)
		}
	}

	return resolved, nil
}

// resolveExtraFields recursively resolves variables in extra fields.
func resolveExtraFields(extra map[string]interface{}, ctx *ResolutionContext) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(extra))
	for k, v := range extra {
		resolved, err := resolveValue(v, ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve extra[%s]: %w", k, err)
		}
		result[k] = resolved
	}
	return result, nil
}

// resolveValue resolves variables in a value of any type.
func resolveValue(v interface{}, ctx *ResolutionContext) (interface{}, error) {
	switch val := v.(type) {
	case string:
		return ResolveVariables(val, ctx)
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			resolved, err := resolveValue(item, ctx)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil
	case map[string]interface{}:
		result := make(map[string]interface{}, len(val))
		for k, item := range val {
			resolved, err := resolveValue(item, ctx)
			if err != nil {
				return nil, err
			}
			result[k] = resolved
		}
		return result, nil
	default:
		// Non-string types pass through unchanged (numbers, bools, nil)
		return v, nil
	}
}

// ToLaunchRequest converts a resolved configuration into the boundary
// launch shape consumed by the orchestrator.
func (c *BrowserConfiguration) ToLaunchRequest() *types.LaunchRequest {
	return &types.LaunchRequest{
		Kind:              c.BrowserKind(),
		File:              c.File,
		URL:               c.URL,
		RuntimeExecutable: c.RuntimeExecutable,
		RuntimeArgs:       c.RuntimeArgs,
		Port:              c.Port,
		Cwd:               c.Cwd,
		Env:               c.Env,
		UserDataDir:       c.UserDataDir,
		Headless:          c.Headless,
		WebRoot:           c.WebRoot,
		PathMapping:       c.Overrides(),
	}
}

// ToAttachRequest converts a resolved configuration into the boundary
// attach shape consumed by the orchestrator.
func (c *BrowserConfiguration) ToAttachRequest() *types.AttachRequest {
	return &types.AttachRequest{
		Host:        c.Host,
		Port:        c.Port,
		URL:         c.URL,
		TimeoutMs:   c.Timeout,
		WebRoot:     c.WebRoot,
		PathMapping: c.Overrides(),
	}
}

// Clone creates a deep copy of the configuration.
func (c *BrowserConfiguration) Clone() *BrowserConfiguration {
	// Use JSON round-trip for deep copy
	data, _ := json.Marshal(c)
	var clone BrowserConfiguration
	_ = json.Unmarshal(data, &clone) // Error ignored: unmarshal of our own marshaled data should not fail
	return &clone
}

// MergeOverrides applies override values to a configuration. This allows
// tool arguments to override values from launch.json.
func MergeOverrides(cfg *BrowserConfiguration, overrides map[string]interface{}) *BrowserConfiguration {
	if len(overrides) == 0 {
		return cfg
	}

	result := cfg.Clone()

	for k, v := range overrides {
		switch k {
		case "file":
			if s, ok := v.(string); ok {
				result.File = s
			}
		case "url":
			if s, ok := v.(string); ok {
				result.URL = s
			}
		case "webRoot":
			if s, ok := v.(string); ok {
				result.WebRoot = s
			}
		case "runtimeExecutable":
			if s, ok := v.(string); ok {
				result.RuntimeExecutable = s
			}
		case "cwd":
			if s, ok := v.(string); ok {
				result.Cwd = s
			}
		case "userDataDir":
			if s, ok := v.(string); ok {
				result.UserDataDir = s
			}
		case "host":
			if s, ok := v.(string); ok {
				result.Host = s
			}
		case "port":
			switch n := v.(type) {
			case int:
				result.Port = n
			case float64:
				result.Port = int(n)
			}
		case "headless":
			if b, ok := v.(bool); ok {
				result.Headless = b
			}
		default:
			if result.Extra == nil {
				result.Extra = make(map[string]interface{})
			}
			result.Extra[k] = v
		}
	}

	return result
}
