package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// WriteFileTool handles the vibe_write_file MCP tool.
type WriteFileTool struct {
	mgr *session.Manager
}

// NewWriteFileTool creates a WriteFileTool.
func NewWriteFileTool(mgr *session.Manager) *WriteFileTool {
	return &WriteFileTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_write_file.
func (t *WriteFileTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_write_file",
		mcp.WithDescription(
			"Create or overwrite a project file. The file is stored durably "+
				"and mirrored into the live sandbox, where the dev server "+
				"hot-reloads it. Writing architecture.md records the plan on "+
				"the session.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to write into"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Project-relative path, e.g. app/page.tsx"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full file content"),
		),
	)
}

// Handle processes the vibe_write_file tool call.
func (t *WriteFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	out, err := tb.WriteFile(ctx, strArg(req, "path", ""), strArg(req, "content", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// ReadFileTool handles the vibe_read_file MCP tool.
type ReadFileTool struct {
	mgr *session.Manager
}

// NewReadFileTool creates a ReadFileTool.
func NewReadFileTool(mgr *session.Manager) *ReadFileTool {
	return &ReadFileTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_read_file.
func (t *ReadFileTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_read_file",
		mcp.WithDescription(
			"Read one project file. Files already pre-loaded by vibe_context "+
				"do not need this.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to read from"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Project-relative path"),
		),
	)
}

// Handle processes the vibe_read_file tool call.
func (t *ReadFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	out, err := tb.ReadFile(ctx, strArg(req, "path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// UpdateFileTool handles the vibe_update_file MCP tool.
type UpdateFileTool struct {
	mgr *session.Manager
}

// NewUpdateFileTool creates an UpdateFileTool.
func NewUpdateFileTool(mgr *session.Manager) *UpdateFileTool {
	return &UpdateFileTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_update_file.
func (t *UpdateFileTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_update_file",
		mcp.WithDescription(
			"Overwrite a file that already exists in the session. Fails on "+
				"unknown paths; use vibe_write_file to create new files.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to write into"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Project-relative path of an existing file"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full replacement content"),
		),
	)
}

// Handle processes the vibe_update_file tool call.
func (t *UpdateFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	out, err := tb.UpdateFile(ctx, strArg(req, "path", ""), strArg(req, "content", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
