// Package errors provides structured error types for the browserdap bridge.
// These errors carry a machine-distinguishable code plus a human-readable
// message and hint, so callers (IDE front ends, tool surfaces) can react
// programmatically while users still get actionable text.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for programmatic handling
type ErrorCode string

const (
	// Launch/attach orchestration errors
	CodeTargetNotFound  ErrorCode = "TARGET_NOT_FOUND"
	CodeBrowserNotFound ErrorCode = "BROWSER_NOT_FOUND"
	CodeAttachFailed    ErrorCode = "ATTACH_FAILED"
	CodeAlreadyAttached ErrorCode = "ALREADY_ATTACHED"
	CodeSessionClosed   ErrorCode = "SESSION_CLOSED"
	CodeSpawnFailed     ErrorCode = "SPAWN_FAILED"

	// Session errors
	CodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionLimitReached ErrorCode = "SESSION_LIMIT_REACHED"

	// Parameter errors
	CodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// Configuration errors
	CodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	CodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
)

// BridgeError is a structured error type that includes helpful information
// about what went wrong and how to fix it.
type BridgeError struct {
	// Code is a machine-readable error category
	Code ErrorCode `json:"code"`

	// Message is a human-readable description of what went wrong
	Message string `json:"message"`

	// Hint provides actionable guidance on how to fix the error
	Hint string `json:"hint,omitempty"`

	// Details contains additional context (e.g., the invalid value, probed paths)
	Details map[string]interface{} `json:"details,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Hint != "" {
		sb.WriteString(" | Hint: ")
		sb.WriteString(e.Hint)
	}

	return sb.String()
}

// Unwrap returns the underlying error for error chaining
func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// WithDetails adds details to the error
func (e *BridgeError) WithDetails(key string, value interface{}) *BridgeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *BridgeError) WithCause(err error) *BridgeError {
	e.Cause = err
	return e
}

// HasCode reports whether err is a BridgeError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var be *BridgeError
	if stderrors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// --- Orchestration Errors ---

// TargetNotFound creates an error for a launch target file that does not
// exist on disk. It is reported before any process is spawned.
func TargetNotFound(path string) *BridgeError {
	return &BridgeError{
		Code:    CodeTargetNotFound,
		Message: fmt.Sprintf("target file not found: %s", path),
		Hint:    "Check that the 'file' path in the launch configuration exists. Use 'url' instead to open a served page.",
		Details: map[string]interface{}{
			"path": path,
		},
	}
}

// BrowserNotFound creates an error when no browser executable could be
// located at the override path or any well-known install location.
func BrowserNotFound(probed []string) *BridgeError {
	return &BridgeError{
		Code:    CodeBrowserNotFound,
		Message: "no browser executable found",
		Hint:    "Install Chrome/Chromium, or set 'runtimeExecutable' in the launch configuration to the browser binary path.",
		Details: map[string]interface{}{
			"probedPaths": probed,
		},
	}
}

// AttachFailed creates an error for a failed or timed-out connection
// attempt against the browser's remote-debugging endpoint.
func AttachFailed(host string, port int, err error) *BridgeError {
	return &BridgeError{
		Code:    CodeAttachFailed,
		Message: fmt.Sprintf("failed to attach to browser at %s:%d: %v", host, port, err),
		Hint:    "Ensure the browser is running with --remote-debugging-port and that the port is reachable. The browser may also have exited early.",
		Cause:   err,
		Details: map[string]interface{}{
			"host": host,
			"port": port,
		},
	}
}

// AlreadyAttached creates an error for a re-entrant launch/attach while a
// connection is being established or is already live.
func AlreadyAttached(state string) *BridgeError {
	return &BridgeError{
		Code:    CodeAlreadyAttached,
		Message: fmt.Sprintf("a debug connection is already active (state: %s)", state),
		Hint:    "Disconnect the current session before launching or attaching again.",
		Details: map[string]interface{}{
			"state": state,
		},
	}
}

// SessionClosed creates an error for a launch/attach on a session whose
// connection has already ended. Closed is terminal.
func SessionClosed() *BridgeError {
	return &BridgeError{
		Code:    CodeSessionClosed,
		Message: "the debug connection for this session has ended",
		Hint:    "Create a new session to launch or attach again.",
	}
}

// SpawnFailed creates an error when the browser process could not be started.
func SpawnFailed(executable string, err error) *BridgeError {
	return &BridgeError{
		Code:    CodeSpawnFailed,
		Message: fmt.Sprintf("failed to spawn browser process %s: %v", executable, err),
		Hint:    "Check that the executable is runnable and that the spawn helper (if configured) exists.",
		Cause:   err,
		Details: map[string]interface{}{
			"executable": executable,
		},
	}
}

// --- Session Errors ---

// SessionNotFound creates an error for when a session ID doesn't exist
func SessionNotFound(sessionID string) *BridgeError {
	return &BridgeError{
		Code:    CodeSessionNotFound,
		Message: fmt.Sprintf("session '%s' not found", sessionID),
		Hint:    "Use browser_status to see active sessions, or browser_launch to create a new one.",
		Details: map[string]interface{}{
			"sessionId": sessionID,
		},
	}
}

// SessionLimitReached creates an error when max sessions is reached
func SessionLimitReached(maxSessions int) *BridgeError {
	return &BridgeError{
		Code:    CodeSessionLimitReached,
		Message: fmt.Sprintf("maximum number of sessions (%d) reached", maxSessions),
		Hint:    "Use browser_disconnect to terminate an existing session before creating a new one.",
		Details: map[string]interface{}{
			"maxSessions": maxSessions,
		},
	}
}

// --- Parameter Errors ---

// MissingParameter creates an error for missing required parameters
func MissingParameter(paramName, description string) *BridgeError {
	return &BridgeError{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("required parameter '%s' is missing", paramName),
		Hint:    description,
		Details: map[string]interface{}{
			"parameter": paramName,
		},
	}
}

// InvalidParameter creates an error for invalid parameter values
func InvalidParameter(paramName string, value interface{}, expected string) *BridgeError {
	return &BridgeError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid value for parameter '%s': %v", paramName, value),
		Hint:    fmt.Sprintf("Expected: %s", expected),
		Details: map[string]interface{}{
			"parameter": paramName,
			"value":     value,
			"expected":  expected,
		},
	}
}

// --- Configuration Errors ---

// ConfigNotFound creates an error for missing launch.json configurations
func ConfigNotFound(configName string, availableConfigs []string) *BridgeError {
	var hint string
	if len(availableConfigs) > 0 {
		hint = fmt.Sprintf("Available configurations: %s", strings.Join(availableConfigs, ", "))
	} else {
		hint = "No configurations found in launch.json. Create a launch configuration first."
	}

	return &BridgeError{
		Code:    CodeConfigNotFound,
		Message: fmt.Sprintf("configuration '%s' not found in launch.json", configName),
		Hint:    hint,
		Details: map[string]interface{}{
			"configName":       configName,
			"availableConfigs": availableConfigs,
		},
	}
}

// ConfigInvalid creates an error for invalid configuration
func ConfigInvalid(configName, reason string) *BridgeError {
	return &BridgeError{
		Code:    CodeConfigInvalid,
		Message: fmt.Sprintf("configuration '%s' is invalid: %s", configName, reason),
		Hint:    "Check the launch.json file for syntax errors and ensure all required fields are present.",
		Details: map[string]interface{}{
			"configName": configName,
			"reason":     reason,
		},
	}
}

// --- Helper for wrapping generic errors ---

// Wrap wraps a generic error with context
func Wrap(code ErrorCode, message string, hint string, err error) *BridgeError {
	return &BridgeError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   err,
	}
}

// FromError creates a BridgeError from a generic error, preserving any
// existing structure.
func FromError(err error) *BridgeError {
	var be *BridgeError
	if stderrors.As(err, &be) {
		return be
	}
	return &BridgeError{
		Code:    "UNKNOWN_ERROR",
		Message: err.Error(),
		Cause:   err,
	}
}
