package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// RunCommandTool handles the vibe_run_command MCP tool.
type RunCommandTool struct {
	mgr *session.Manager
}

// NewRunCommandTool creates a RunCommandTool.
func NewRunCommandTool(mgr *session.Manager) *RunCommandTool {
	return &RunCommandTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_run_command.
func (t *RunCommandTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_run_command",
		mcp.WithDescription(
			"Run a shell command inside the session's sandbox workspace. "+
				"Returns stdout, or the exit code with stderr on failure.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session whose sandbox runs the command"),
		),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Shell command, e.g. 'ls app'"),
		),
	)
}

// Handle processes the vibe_run_command tool call.
func (t *RunCommandTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	command := strArg(req, "command", "")
	if command == "" {
		return mcp.NewToolResultError("'command' is required"), nil
	}
	out, err := tb.RunCommand(ctx, command)
	if err != nil {
		return commandError(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

// InstallPackagesTool handles the vibe_install_packages MCP tool.
type InstallPackagesTool struct {
	mgr *session.Manager
}

// NewInstallPackagesTool creates an InstallPackagesTool.
func NewInstallPackagesTool(mgr *session.Manager) *InstallPackagesTool {
	return &InstallPackagesTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_install_packages.
func (t *InstallPackagesTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_install_packages",
		mcp.WithDescription(
			"Install npm packages in the session's sandbox, all in one "+
				"call. Only install packages the architecture plan lists.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session whose sandbox gets the packages"),
		),
		mcp.WithString("packages",
			mcp.Required(),
			mcp.Description("Space-separated names, e.g. 'phaser zustand'"),
		),
	)
}

// Handle processes the vibe_install_packages tool call.
func (t *InstallPackagesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	out, err := tb.InstallPackages(ctx, strArg(req, "packages", ""))
	if err != nil {
		return commandError(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

// commandError maps sandbox failures to model-facing error results.
func commandError(err error) *mcp.CallToolResult {
	if errors.Is(err, sandbox.ErrNotReady) {
		return mcp.NewToolResultError(
			"sandbox not ready: create the session with vibe_new_session first")
	}
	return mcp.NewToolResultError(fmt.Sprintf("command failed: %v", err))
}
