package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// promptText extracts the text of the first user message in a result.
func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	if res == nil || len(res.Messages) == 0 {
		t.Fatal("prompt result has no messages")
	}
	tc, ok := res.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("message content is %T, want mcp.TextContent", res.Messages[0].Content)
	}
	return tc.Text
}

// --- system prompts ---

func TestArchitectSystem_RendersCodeFences(t *testing.T) {
	got := ArchitectSystem()

	if strings.Contains(got, "~~~") {
		t.Error("ArchitectSystem still contains ~~~ fence markers")
	}
	if !strings.Contains(got, "```") {
		t.Error("ArchitectSystem has no rendered code fences")
	}
}

func TestArchitectSystem_DescribesPlanFormat(t *testing.T) {
	got := ArchitectSystem()

	for _, want := range []string{
		"APP_NAME:",
		"DESIGN_STYLE:",
		"ROUTES:",
		"COMPONENTS:",
		"write_file to save architecture.md",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ArchitectSystem missing %q", want)
		}
	}
}

func TestCoderSystem_AppendsArchitecturePlan(t *testing.T) {
	plan := "APP_NAME: todo-app\nROUTES:\n- / (home)"
	got := CoderSystem(plan)

	if !strings.Contains(got, "## ARCHITECTURE PLAN") {
		t.Error("CoderSystem missing the architecture plan section")
	}
	if !strings.Contains(got, plan) {
		t.Error("CoderSystem does not embed the plan text")
	}
	idx := strings.Index(got, "APP_NAME: todo-app")
	if idx < len(got)/2 {
		t.Error("architecture plan should come after the coding rules")
	}
}

func TestCoderSystem_KeepsCriticalRules(t *testing.T) {
	got := CoderSystem("APP_NAME: x")

	for _, want := range []string{
		"NEVER leave empty states",
		"'use client'",
		"@import \"tailwindcss\"",
		"app/layout.tsx",
		"slate-",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CoderSystem missing %q", want)
		}
	}
}

func TestChatSystem_InjectsContextBeforeRules(t *testing.T) {
	ctxBlock := "## Current Project Context\n\nApp Name: demo"
	got := ChatSystem(ctxBlock)

	ctxIdx := strings.Index(got, "App Name: demo")
	roleIdx := strings.Index(got, "## Your Role")
	if ctxIdx < 0 {
		t.Fatal("ChatSystem does not embed the context block")
	}
	if roleIdx < 0 {
		t.Fatal("ChatSystem missing the role section")
	}
	if ctxIdx > roleIdx {
		t.Error("context block should come before the role section")
	}
	if !strings.Contains(got, "DO NOT call read_file") {
		t.Error("ChatSystem missing the pre-loaded files instruction")
	}
}

// --- MCP prompts ---

func TestNewAppPrompt_Definition(t *testing.T) {
	def := NewNewAppPrompt().Definition()
	if def.Name != "vibecraft-new-app" {
		t.Errorf("Name = %q, want vibecraft-new-app", def.Name)
	}
}

func TestNewAppPrompt_Handle_UsesArguments(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{
		"description": "a pomodoro timer",
		"app_name":    "pomo",
	}

	res, err := NewNewAppPrompt().Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := promptText(t, res)
	if !strings.Contains(text, "a pomodoro timer") {
		t.Error("prompt text missing the description")
	}
	if !strings.Contains(text, "app_name='pomo'") {
		t.Error("prompt text missing the app name")
	}
	if !strings.Contains(text, "vibe_new_session") {
		t.Error("prompt text missing the session tool")
	}
}

func TestNewAppPrompt_Handle_Defaults(t *testing.T) {
	res, err := NewNewAppPrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := promptText(t, res)
	if !strings.Contains(text, "untitled-app") {
		t.Error("prompt text missing the default app name")
	}
	if !strings.Contains(text, "app/layout.tsx first") {
		t.Error("prompt text missing the file ordering instruction")
	}
}

func TestStatusPrompt_Handle_WithoutSession(t *testing.T) {
	res, err := NewStatusPrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := promptText(t, res)
	if !strings.Contains(text, "vibe_sessions") {
		t.Error("overview prompt should list sessions")
	}
}

func TestStatusPrompt_Handle_WithSession(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"session_id": "ab12cd34"}

	res, err := NewStatusPrompt().Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := promptText(t, res)
	if !strings.Contains(text, "session_id='ab12cd34'") {
		t.Error("status prompt missing the session id")
	}
	if !strings.Contains(text, "vibe_context") {
		t.Error("status prompt should load the project overview")
	}
}
