package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/vibecraft-ai/vibecraft/internal/prompts"
	"github.com/vibecraft-ai/vibecraft/internal/tools"
)

// Tool access per agent. The architect only plans; the coder builds
// but never searches; the chat agent gets the full editing surface.
var (
	architectTools = []string{"write_file"}
	coderTools     = []string{"read_file", "write_file", "update_file", "install_packages"}
	chatTools      = []string{"read_file", "write_file", "update_file", "grep_code", "list_project_files", "install_packages"}
)

// runNewProject executes the two-phase generation workflow: the
// architect writes architecture.md, then the coder implements it file
// by file with the preview hot-reloading.
func (s *Service) runNewProject(ctx context.Context, sessionID, message string) (string, error) {
	s.notify(sessionID, PhaseSandbox, "provisioning workspace")
	sb, err := s.mgr.EnsureSandbox(ctx, sessionID)
	if err != nil {
		return "", err
	}
	tb := tools.NewToolbox(s.mgr, sessionID)

	s.notify(sessionID, PhaseArchitecture, "planning structure")
	archMessage := "Design the architecture for: " + message
	if _, err := s.runAgent(ctx, tb, sessionID, PhaseArchitecture,
		prompts.ArchitectSystem(), archMessage, architectTools); err != nil {
		return "", err
	}

	sess, err := s.mgr.Get(sessionID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(sess.Architecture) == "" {
		return "", fmt.Errorf("agent: architect did not write architecture.md")
	}

	s.notify(sessionID, PhaseCoding, "generating files")
	coderMessage := fmt.Sprintf(
		"Implement the Next.js application described by the architecture plan.\n\n"+
			"The sandbox is ready with Next.js 16, Tailwind CSS v4, and shadcn/ui.\n"+
			"Preview URL: %s\n\n"+
			"Create all the files needed for a working application.",
		sb.PreviewURL(),
	)
	if _, err := s.runAgent(ctx, tb, sessionID, PhaseCoding,
		prompts.CoderSystem(sess.Architecture), coderMessage, coderTools); err != nil {
		return "", err
	}

	paths, err := s.mgr.ListFiles(sessionID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Project %q created successfully!\n\n"+
			"Preview: %s\n"+
			"Files created: %d\n\n"+
			"You can now ask me to make changes like:\n"+
			"- \"Make the header background blue\"\n"+
			"- \"Add a contact form to the homepage\"\n"+
			"- \"Change the title to Welcome\"",
		sess.AppName, sb.PreviewURL(), len(paths),
	), nil
}

// runModification executes the chat agent over a smart-context block
// built for this specific request.
func (s *Service) runModification(ctx context.Context, sessionID, message string) (string, error) {
	if _, err := s.mgr.EnsureSandbox(ctx, sessionID); err != nil {
		return "", err
	}

	s.notify(sessionID, PhaseChat, "building context")
	contextBlock, err := s.mgr.SmartContext(sessionID, message, 0)
	if err != nil {
		return "", err
	}

	tb := tools.NewToolbox(s.mgr, sessionID)
	response, err := s.runAgent(ctx, tb, sessionID, PhaseChat,
		prompts.ChatSystem(contextBlock), message, chatTools)
	if err != nil {
		return "", err
	}

	sess, err := s.mgr.Get(sessionID)
	if err != nil {
		return "", err
	}
	if sess.PreviewURL != "" {
		response += "\n\nPreview: " + sess.PreviewURL
	}
	return response, nil
}

// runAgent drives one agent to completion: the model is called with
// the declared functions, every requested call is executed through the
// toolbox, and the results are fed back until the model answers with
// plain text.
func (s *Service) runAgent(ctx context.Context, tb *tools.Toolbox, sessionID, phase, system, userMessage string, allowed []string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Tools: []*genai.Tool{
			{FunctionDeclarations: filterDeclarations(allowed)},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(userMessage, genai.RoleUser)}

	for turn := 0; turn < s.cfg.MaxTurns; turn++ {
		resp, err := s.llm.generate(ctx, contents, config)
		if err != nil {
			return "", err
		}
		contents = append(contents, resp.Candidates[0].Content)

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := strings.TrimSpace(resp.Text())
			if text == "" {
				text = "Done!"
			}
			return text, nil
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			s.notify(sessionID, PhaseTool, callDetail(call))
			out, err := tb.Dispatch(ctx, call.Name, call.Args)
			if err != nil {
				return "", fmt.Errorf("agent: %s during %s: %w", call.Name, phase, err)
			}
			parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: map[string]any{"result": out},
			}})
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}
	return "", fmt.Errorf("agent: %s exceeded %d turns without a final reply", phase, s.cfg.MaxTurns)
}

// filterDeclarations returns the toolbox declarations whose names are
// in the allowed set, preserving declaration order.
func filterDeclarations(names []string) []*genai.FunctionDeclaration {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	var out []*genai.FunctionDeclaration
	for _, decl := range tools.Declarations() {
		if allowed[decl.Name] {
			out = append(out, decl)
		}
	}
	return out
}

// callDetail renders a one-line description of a function call for
// progress events.
func callDetail(call *genai.FunctionCall) string {
	for _, key := range []string{"path", "command", "packages", "pattern", "query"} {
		if v, ok := call.Args[key].(string); ok && v != "" {
			return call.Name + " " + v
		}
	}
	return call.Name
}
