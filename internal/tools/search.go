package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// GrepTool handles the vibe_grep MCP tool.
type GrepTool struct {
	mgr *session.Manager
}

// NewGrepTool creates a GrepTool.
func NewGrepTool(mgr *session.Manager) *GrepTool {
	return &GrepTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_grep.
func (t *GrepTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_grep",
		mcp.WithDescription(
			"Search the session's files with a case-insensitive pattern. "+
				"Returns path:line matches, capped at 20.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to search"),
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Regular expression, e.g. 'Header' or 'useState'"),
		),
		mcp.WithString("extension",
			mcp.Description("Restrict to a file extension, e.g. tsx"),
		),
	)
}

// Handle processes the vibe_grep tool call.
func (t *GrepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	pattern := strArg(req, "pattern", "")
	if pattern == "" {
		return mcp.NewToolResultError("'pattern' is required"), nil
	}
	out, err := tb.GrepCode(pattern, strArg(req, "extension", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// ListFilesTool handles the vibe_list_files MCP tool.
type ListFilesTool struct {
	mgr *session.Manager
}

// NewListFilesTool creates a ListFilesTool.
func NewListFilesTool(mgr *session.Manager) *ListFilesTool {
	return &ListFilesTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_list_files.
func (t *ListFilesTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_list_files",
		mcp.WithDescription(
			"List every file generated in the session, sorted by path.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to list"),
		),
	)
}

// Handle processes the vibe_list_files tool call.
func (t *ListFilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	out, err := tb.ListProjectFiles()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
