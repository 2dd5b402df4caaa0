package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the vibecraft-status MCP prompt.
// It instructs the AI to inspect sessions and report project state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("vibecraft-status",
		mcp.WithPromptDescription(
			"Check the state of your vibecraft sessions: generated files, "+
				"recent conversation, preview URL, and what to do next.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Session to inspect. Omit to list all sessions"),
		),
	)
}

// Handle processes the vibecraft-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := ""
	if args := req.Params.Arguments; args != nil {
		sessionID = args["session_id"]
	}

	if sessionID == "" {
		return &mcp.GetPromptResult{
			Description: "Session overview",
			Messages: []mcp.PromptMessage{
				{
					Role: mcp.RoleUser,
					Content: mcp.NewTextContent(
						"Please run `vibe_sessions` to list my sessions.\n\n" +
							"Then:\n" +
							"1. Show each session with its app name, file count, and last activity\n" +
							"2. Point out which sessions look abandoned\n" +
							"3. Tell me how to resume work on one (vibe_context with its session_id)",
					),
				},
			},
		}, nil
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Status of session %s", sessionID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `vibe_context` with session_id='%s' and an empty query "+
						"to load the project overview.\n\n"+
						"Then:\n"+
						"1. Summarize what has been built so far (files, architecture)\n"+
						"2. Show the preview URL if the sandbox is running\n"+
						"3. Suggest what I could build or improve next",
					sessionID,
				)),
			},
		},
	}, nil
}
