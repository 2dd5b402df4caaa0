package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// NewSessionTool handles the vibe_new_session MCP tool.
type NewSessionTool struct {
	mgr *session.Manager
}

// NewNewSessionTool creates a NewSessionTool.
func NewNewSessionTool(mgr *session.Manager) *NewSessionTool {
	return &NewSessionTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_new_session.
func (t *NewSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_new_session",
		mcp.WithDescription(
			"Create a new app-building session with a live sandbox. "+
				"Returns the session ID to pass to every other vibe_* tool, "+
				"plus the preview URL where the app will be served.",
		),
		mcp.WithString("app_name",
			mcp.Description("Kebab-case app name (default: untitled-app)"),
		),
	)
}

// Handle processes the vibe_new_session tool call.
func (t *NewSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.mgr.Create(strArg(req, "app_name", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create session: %v", err)), nil
	}
	sb, err := t.mgr.EnsureSandbox(ctx, sess.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("provision sandbox: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Session created.\nID: %s\nApp: %s\nPreview: %s\n\n"+
			"Write architecture.md first, then generate files with vibe_write_file.",
		sess.ID, sess.AppName, sb.PreviewURL(),
	)), nil
}

// SessionsTool handles the vibe_sessions MCP tool.
type SessionsTool struct {
	mgr *session.Manager
}

// NewSessionsTool creates a SessionsTool.
func NewSessionsTool(mgr *session.Manager) *SessionsTool {
	return &SessionsTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_sessions.
func (t *SessionsTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_sessions",
		mcp.WithDescription(
			"List all sessions with their file and message counts, newest first.",
		),
	)
}

// Handle processes the vibe_sessions tool call.
func (t *SessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := t.mgr.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list sessions: %v", err)), nil
	}
	if len(infos) == 0 {
		return mcp.NewToolResultText("No sessions yet. Create one with vibe_new_session."), nil
	}

	var b strings.Builder
	b.WriteString("Sessions:\n")
	for _, info := range infos {
		fmt.Fprintf(&b, "- %s  %s  (files: %d, messages: %d, updated: %s)\n",
			info.ID, info.AppName, info.FileCount, info.MessageCount, info.UpdatedAt)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// DeleteSessionTool handles the vibe_delete_session MCP tool.
type DeleteSessionTool struct {
	mgr *session.Manager
}

// NewDeleteSessionTool creates a DeleteSessionTool.
func NewDeleteSessionTool(mgr *session.Manager) *DeleteSessionTool {
	return &DeleteSessionTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_delete_session.
func (t *DeleteSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_delete_session",
		mcp.WithDescription(
			"Delete a session: closes its sandbox and removes all stored "+
				"files and messages. This cannot be undone.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to delete"),
		),
	)
}

// Handle processes the vibe_delete_session tool call.
func (t *DeleteSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(strArg(req, "session_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	if err := t.mgr.Delete(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete session %s: %v", id, err)), nil
	}
	return mcp.NewToolResultText("Deleted session " + id), nil
}
