// Package resources implements MCP resource handlers for session data.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (vibecraft://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// Handler manages session resource endpoints.
type Handler struct {
	mgr *session.Manager
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(mgr *session.Manager) *Handler {
	return &Handler{mgr: mgr}
}

// SessionsResource returns the MCP resource definition for the session
// index.
func (h *Handler) SessionsResource() mcp.Resource {
	return mcp.NewResource(
		"vibecraft://sessions",
		"Session Index",
		mcp.WithResourceDescription("All app-building sessions with file and message counts"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSessions returns the session index as JSON.
func (h *Handler) HandleSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	infos, err := h.mgr.List()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling sessions: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// SessionTemplate returns the MCP resource template for one session.
func (h *Handler) SessionTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"vibecraft://sessions/{id}",
		"Session Detail",
		mcp.WithTemplateDescription("One session: app name, preview URL, architecture plan, and file listing"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// sessionDetail is the JSON shape served for a single session.
type sessionDetail struct {
	ID           string   `json:"id"`
	AppName      string   `json:"app_name"`
	PreviewURL   string   `json:"preview_url,omitempty"`
	Architecture string   `json:"architecture,omitempty"`
	Files        []string `json:"files"`
}

// HandleSession returns one session's detail as JSON.
func (h *Handler) HandleSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, "vibecraft://sessions/")
	sess, err := h.mgr.Get(id)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	paths, err := h.mgr.ListFiles(id)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if paths == nil {
		paths = []string{}
	}

	data, err := json.MarshalIndent(sessionDetail{
		ID:           sess.ID,
		AppName:      sess.AppName,
		PreviewURL:   sess.PreviewURL,
		Architecture: sess.Architecture,
		Files:        paths,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling session %s: %w", id, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
