// Package sandbox runs each session's app workspace.
//
// The Sandbox interface is what the toolbox and session manager program
// against; Local is the only implementation here, backed by a directory
// per session and os/exec for commands. Remote providers would satisfy
// the same interface.
package sandbox

import (
	"context"
	"errors"
)

// ErrNotReady is returned when an operation needs a ready sandbox.
var ErrNotReady = errors.New("sandbox: not ready")

// CommandResult carries the outcome of one shell command. A non-zero
// exit code is a result, not an error.
type CommandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Sandbox is a per-session workspace.
type Sandbox interface {
	// Create provisions the workspace. Valid once, from idle.
	Create(ctx context.Context) error
	// WriteFile stores content at a workspace-relative path.
	WriteFile(ctx context.Context, path, content string) error
	// ReadFile returns the content at a workspace-relative path.
	ReadFile(ctx context.Context, path string) (string, error)
	// RunCommand executes a shell command inside the workspace.
	RunCommand(ctx context.Context, command string) (CommandResult, error)
	// PreviewURL is where the running app can be reached.
	PreviewURL() string
	// State reports the current lifecycle phase.
	State() State
	// Close tears the workspace down. The store keeps the durable copy.
	Close() error
}

// Factory builds a sandbox for a session ID.
type Factory func(sessionID string) Sandbox
