package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewAppPrompt handles the vibecraft-new-app MCP prompt.
// It walks the AI through creating a session, planning a minimal
// architecture, and generating the project files.
type NewAppPrompt struct{}

// NewNewAppPrompt creates a NewAppPrompt.
func NewNewAppPrompt() *NewAppPrompt {
	return &NewAppPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *NewAppPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("vibecraft-new-app",
		mcp.WithPromptDescription(
			"Build a new Next.js app from a description. "+
				"Creates a session with a live sandbox, plans a minimal "+
				"architecture, and generates the project files.",
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What the app should do, in plain language"),
		),
		mcp.WithArgument("app_name",
			mcp.ArgumentDescription("Optional kebab-case app name. Default: untitled-app"),
		),
	)
}

// Handle processes the vibecraft-new-app prompt request.
func (p *NewAppPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	description := "a simple landing page"
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["description"]; ok && d != "" {
			description = d
		}
	}

	appName := "untitled-app"
	if args := req.Params.Arguments; args != nil {
		if n, ok := args["app_name"]; ok && n != "" {
			appName = n
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build app: %s", appName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to build this app: %s\n\n"+
						"Please:\n"+
						"1. Run `vibe_new_session` with app_name='%s' to create a session with a live sandbox\n"+
						"2. Plan a MINIMAL architecture (app name, description, design style, routes, components, "+
						"and packages only if the default Next.js + Tailwind + shadcn/ui stack is not enough)\n"+
						"3. Save the plan with `vibe_write_file` as architecture.md\n"+
						"4. If the plan lists packages, install them all in one `vibe_install_packages` call\n"+
						"5. Generate the files with `vibe_write_file` in this order: app/layout.tsx first, "+
						"then types, lib helpers, components, pages\n"+
						"6. Give me the preview URL from the session\n\n"+
						"Keep the scope tight: core functionality only, nothing speculative.",
					description, appName,
				)),
			},
		},
	}, nil
}
