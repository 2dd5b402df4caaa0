package tools

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Declarations returns the Gemini function declarations for the
// toolbox operations, named exactly as the system prompts reference
// them.
func Declarations() []*genai.FunctionDeclaration {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	num := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeInteger, Description: desc}
	}
	obj := func(props map[string]*genai.Schema, required ...string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
	}

	return []*genai.FunctionDeclaration{
		{
			Name:        "write_file",
			Description: "Create or overwrite a project file. The preview hot-reloads it.",
			Parameters: obj(map[string]*genai.Schema{
				"path":    str("Project-relative path, e.g. app/page.tsx"),
				"content": str("Full file content"),
			}, "path", "content"),
		},
		{
			Name:        "read_file",
			Description: "Read one project file. Pre-loaded files never need this.",
			Parameters: obj(map[string]*genai.Schema{
				"path": str("Project-relative path"),
			}, "path"),
		},
		{
			Name:        "update_file",
			Description: "Overwrite a file that already exists. Fails on unknown paths.",
			Parameters: obj(map[string]*genai.Schema{
				"path":    str("Project-relative path of an existing file"),
				"content": str("Full replacement content"),
			}, "path", "content"),
		},
		{
			Name:        "run_command",
			Description: "Run a shell command in the project workspace.",
			Parameters: obj(map[string]*genai.Schema{
				"command": str("Shell command, e.g. 'ls app'"),
			}, "command"),
		},
		{
			Name:        "install_packages",
			Description: "Install npm packages, all in one call.",
			Parameters: obj(map[string]*genai.Schema{
				"packages": str("Space-separated names, e.g. 'phaser zustand'"),
			}, "packages"),
		},
		{
			Name:        "grep_code",
			Description: "Search project files with a case-insensitive pattern.",
			Parameters: obj(map[string]*genai.Schema{
				"pattern":   str("Regular expression, e.g. 'Header' or 'useState'"),
				"extension": str("Optional file extension filter, e.g. tsx"),
			}, "pattern"),
		},
		{
			Name:        "list_project_files",
			Description: "List every file in the project, sorted by path.",
			Parameters:  obj(map[string]*genai.Schema{}),
		},
		{
			Name:        "build_context",
			Description: "Build a budgeted context block: relevant files in full, the rest summarized.",
			Parameters: obj(map[string]*genai.Schema{
				"query":      str("The request to rank files against"),
				"max_tokens": num("Token budget override"),
			}, "query"),
		},
	}
}

// Dispatch routes one Gemini function call to the bound operation.
// Argument values arrive as JSON-decoded any values.
func (t *Toolbox) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	str := func(key string) string {
		v, _ := args[key].(string)
		return v
	}
	num := func(key string) int {
		v, _ := args[key].(float64)
		return int(v)
	}

	switch name {
	case "write_file":
		return t.WriteFile(ctx, str("path"), str("content"))
	case "read_file":
		return t.ReadFile(ctx, str("path"))
	case "update_file":
		return t.UpdateFile(ctx, str("path"), str("content"))
	case "run_command":
		return t.RunCommand(ctx, str("command"))
	case "install_packages":
		return t.InstallPackages(ctx, str("packages"))
	case "grep_code":
		return t.GrepCode(str("pattern"), str("extension"))
	case "list_project_files":
		return t.ListProjectFiles()
	case "build_context":
		return t.BuildContext(str("query"), num("max_tokens"))
	default:
		return "", fmt.Errorf("tools: unknown function %q", name)
	}
}
