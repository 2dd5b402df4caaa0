package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// strArg extracts a string argument from a tool request, returning
// defaultVal if the key is missing or not a string.
func strArg(req mcp.CallToolRequest, key, defaultVal string) string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return defaultVal
	}
	return v
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// sessionToolbox resolves the session_id argument into a Toolbox bound
// to an existing session. The second return value is non-nil when the
// request cannot proceed.
func sessionToolbox(mgr *session.Manager, req mcp.CallToolRequest) (*Toolbox, *mcp.CallToolResult) {
	id := strings.TrimSpace(strArg(req, "session_id", ""))
	if id == "" {
		return nil, mcp.NewToolResultError("'session_id' is required")
	}
	if _, err := mgr.Get(id); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("session %s: %v", id, err))
	}
	return NewToolbox(mgr, id), nil
}
