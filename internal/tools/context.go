package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// ContextTool handles the vibe_context MCP tool.
type ContextTool struct {
	mgr *session.Manager
}

// NewContextTool creates a ContextTool.
func NewContextTool(mgr *session.Manager) *ContextTool {
	return &ContextTool{mgr: mgr}
}

// Definition returns the MCP tool definition for vibe_context.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_context",
		mcp.WithDescription(
			"Build a token-budgeted context block for a request: the files "+
				"most relevant to the query included in full, the rest as "+
				"one-line summaries. Call this before modifying an existing "+
				"app; pre-loaded files never need vibe_read_file.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to build context for"),
		),
		mcp.WithString("query",
			mcp.Description("The user's request, used for relevance ranking"),
		),
		mcp.WithNumber("max_tokens",
			mcp.Description("Token budget override for full-content files"),
		),
	)
}

// Handle processes the vibe_context tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tb, errRes := sessionToolbox(t.mgr, req)
	if errRes != nil {
		return errRes, nil
	}
	out, err := tb.BuildContext(strArg(req, "query", ""), intArg(req, "max_tokens", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
