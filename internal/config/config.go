// Package config provides configuration management for the browserdap bridge.
//
// Configuration controls:
//   - Browser settings: executable override, extra search paths, default
//     remote-debugging port, spawn helper
//   - Connection settings: attach retry policy and timeout
//   - Logging: level and writers (console, rotating file)
//   - Safety limits: maximum concurrent sessions
//
// Configuration can be loaded from a JSON file or use sensible defaults.
package config

import (
	"encoding/json"
	"os"
	"time"
)

// Config holds the bridge configuration
type Config struct {
	Browser    BrowserConfig    `json:"browser"`
	Connection ConnectionConfig `json:"connection"`
	Log        LogConfig        `json:"log"`

	// Limits for safety
	MaxSessions int `json:"maxSessions"`
}

// BrowserConfig holds browser launch settings
type BrowserConfig struct {
	// ExecutablePath overrides browser discovery entirely when set
	ExecutablePath string `json:"executablePath"`

	// ExtraSearchPaths are probed before the built-in well-known locations
	ExtraSearchPaths []string `json:"extraSearchPaths"`

	// DefaultPort is used when the launch configuration carries no port
	DefaultPort int `json:"defaultPort"`

	// SpawnHelper, when set, is executed with [browserPath, args...] and
	// performs the actual process creation. Decouples the browser's
	// lifecycle from the bridge host.
	SpawnHelper string `json:"spawnHelper"`

	// LandingPage is the file name of the page opened when the launch
	// configuration names no target, resolved relative to the bridge's
	// own install directory.
	LandingPage string `json:"landingPage"`
}

// ConnectionConfig holds attach retry settings for the remote-debugging
// endpoint.
type ConnectionConfig struct {
	Host          string        `json:"host"`
	AttachRetries int           `json:"attachRetries"`
	RetryInterval time.Duration `json:"retryInterval"`
	AttachTimeout time.Duration `json:"attachTimeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level   string   `json:"level"`
	Writers []string `json:"writer"`
	File    string   `json:"file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			DefaultPort: 9222,
			LandingPage: "landingPage.html",
		},
		Connection: ConnectionConfig{
			Host:          "127.0.0.1",
			AttachRetries: 20,
			RetryInterval: 200 * time.Millisecond,
			AttachTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:   "info",
			Writers: []string{"console"},
		},
		MaxSessions: 4,
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
