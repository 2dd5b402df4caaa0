package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/archive"
	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// ExportTool handles the vibe_export MCP tool.
type ExportTool struct {
	mgr *session.Manager
	svc *archive.Service
}

// NewExportTool creates an ExportTool.
func NewExportTool(mgr *session.Manager, svc *archive.Service) *ExportTool {
	return &ExportTool{mgr: mgr, svc: svc}
}

// Definition returns the MCP tool definition for vibe_export.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("vibe_export",
		mcp.WithDescription(
			"Export all project files of a session as a zstd-compressed tar "+
				"archive. Returns the archive key for later retrieval.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The session to export"),
		),
	)
}

// Handle processes the vibe_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(strArg(req, "session_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	sess, err := t.mgr.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session %s: %v", id, err)), nil
	}
	files, err := t.mgr.Files(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading files for %s: %v", id, err)), nil
	}

	key, err := t.svc.Export(ctx, sess.AppName, sess.ID, files)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Exported %d files.\nArchive: %s", len(files), key,
	)), nil
}
