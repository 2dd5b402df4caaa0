// Package tools exposes the file, command, and context operations an
// agent uses to build an app inside one session.
//
// The operations live on Toolbox and are surfaced twice: as MCP tools
// for external AI clients (each call carries a session_id argument) and
// as Gemini function declarations for the built-in agent loop (the
// Toolbox is bound to its session up front). Soft failures the model
// should react to, like a missing file, come back as result text;
// returned errors mean the infrastructure itself failed.
package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/session"
	"github.com/vibecraft-ai/vibecraft/internal/store"
)

// maxFileBytes caps file content moving through the toolbox, both ways.
const maxFileBytes = 50_000

// architectureFile is stored like any other file and additionally kept
// on the session record, where the chat context renderer picks it up.
const architectureFile = "architecture.md"

// grepMatchCap bounds grep output before it eats the model's context.
const grepMatchCap = 20

// Toolbox is the set of operations bound to one session.
type Toolbox struct {
	mgr       *session.Manager
	sessionID string
}

// NewToolbox binds the operations to a session.
func NewToolbox(mgr *session.Manager, sessionID string) *Toolbox {
	return &Toolbox{mgr: mgr, sessionID: sessionID}
}

// checkPath returns a model-facing message for paths the agent must not
// touch, or "" when the path is usable.
func checkPath(path string) string {
	clean := filepath.Clean(strings.TrimSpace(path))
	switch {
	case clean == "." || clean == "":
		return "Error: empty file path"
	case filepath.IsAbs(clean) || !filepath.IsLocal(clean):
		return fmt.Sprintf("Error: path escapes the project: %s", path)
	case strings.Contains(clean, "node_modules"):
		return "Error: node_modules is off limits"
	}
	return ""
}

// WriteFile persists a generated file and mirrors it into the live
// sandbox for hot reload. Writing architecture.md also records the
// plan on the session.
func (t *Toolbox) WriteFile(ctx context.Context, path, content string) (string, error) {
	if msg := checkPath(path); msg != "" {
		return msg, nil
	}
	if len(content) > maxFileBytes {
		return fmt.Sprintf("Error: content too large (%d bytes), max %d", len(content), maxFileBytes), nil
	}

	if err := t.mgr.SaveFile(ctx, t.sessionID, path, content); err != nil {
		return "", err
	}
	if filepath.Clean(path) == architectureFile {
		if err := t.mgr.SetArchitecture(t.sessionID, content); err != nil {
			return "", err
		}
	}

	if sb := t.mgr.Sandbox(t.sessionID); sb != nil && sb.State() == sandbox.StateReady {
		return "Hot reload: " + path, nil
	}
	return "Saved: " + path, nil
}

// ReadFile returns a stored file, falling back to the sandbox for
// files that exist in the workspace but were never generated.
func (t *Toolbox) ReadFile(ctx context.Context, path string) (string, error) {
	if msg := checkPath(path); msg != "" {
		return msg, nil
	}

	content, err := t.mgr.FileContent(t.sessionID, path)
	switch {
	case err == nil:
		if len(content) > maxFileBytes {
			return fmt.Sprintf("Error: file too large (%d bytes), max %d", len(content), maxFileBytes), nil
		}
		return content, nil
	case errors.Is(err, store.ErrNotFound):
		if sb := t.mgr.Sandbox(t.sessionID); sb != nil && sb.State() == sandbox.StateReady {
			if out, rerr := sb.ReadFile(ctx, path); rerr == nil {
				return out, nil
			}
		}
		return "File not found: " + path, nil
	default:
		return "", err
	}
}

// UpdateFile overwrites a file that already exists in the session.
func (t *Toolbox) UpdateFile(ctx context.Context, path, content string) (string, error) {
	if msg := checkPath(path); msg != "" {
		return msg, nil
	}

	if _, err := t.mgr.FileContent(t.sessionID, path); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "File does not exist: " + path, nil
		}
		return "", err
	}

	out, err := t.WriteFile(ctx, path, content)
	if err != nil || strings.HasPrefix(out, "Error") {
		return out, err
	}
	return "Updated: " + path, nil
}

// RunCommand executes a shell command in the session's sandbox.
func (t *Toolbox) RunCommand(ctx context.Context, command string) (string, error) {
	sb := t.mgr.Sandbox(t.sessionID)
	if sb == nil || sb.State() != sandbox.StateReady {
		return "", sandbox.ErrNotReady
	}
	res, err := sb.RunCommand(ctx, command)
	if err != nil {
		return "", err
	}
	return formatCommandResult(res), nil
}

func formatCommandResult(res sandbox.CommandResult) string {
	if res.ExitCode != 0 {
		return fmt.Sprintf("Error (exit code %d):\n%s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	out := strings.TrimSpace(res.Stdout)
	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		out += "\nStderr: " + stderr
	}
	if out == "" {
		return "Command completed successfully"
	}
	return out
}

// InstallPackages runs one npm install for all requested packages.
// Peer-dependency conflicts get a single retry with --legacy-peer-deps.
func (t *Toolbox) InstallPackages(ctx context.Context, packages string) (string, error) {
	pkgs := strings.Fields(packages)
	if len(pkgs) == 0 {
		return "Error: no packages specified", nil
	}

	sb := t.mgr.Sandbox(t.sessionID)
	if sb == nil || sb.State() != sandbox.StateReady {
		return "", sandbox.ErrNotReady
	}

	joined := strings.Join(pkgs, " ")
	res, err := sb.RunCommand(ctx, "npm install "+joined)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 && strings.Contains(res.Stderr, "ERESOLVE") {
		res, err = sb.RunCommand(ctx, "npm install --legacy-peer-deps "+joined)
		if err != nil {
			return "", err
		}
	}
	if res.ExitCode != 0 {
		stderr := strings.TrimSpace(res.Stderr)
		if len(stderr) > 500 {
			stderr = stderr[:500]
		}
		return "Failed to install packages: " + stderr, nil
	}
	return "Installed: " + strings.Join(pkgs, ", "), nil
}

// GrepCode searches the session's files line by line with a
// case-insensitive pattern. extension, when non-empty, restricts the
// search to matching file suffixes.
func (t *Toolbox) GrepCode(pattern, extension string) (string, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Sprintf("Error: invalid pattern %q: %v", pattern, err), nil
	}
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	files, err := t.mgr.Files(t.sessionID)
	if err != nil {
		return "", err
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		if extension != "" && !strings.HasSuffix(p, extension) {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var matches []string
	for _, p := range paths {
		for i, line := range strings.Split(files[p], "\n") {
			if re.MatchString(line) {
				matches = append(matches, fmt.Sprintf("%s:%d: %s", p, i+1, strings.TrimSpace(line)))
			}
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for pattern %q", pattern), nil
	}
	if len(matches) > grepMatchCap {
		return strings.Join(matches[:grepMatchCap], "\n") +
			fmt.Sprintf("\n... and %d more matches", len(matches)-grepMatchCap), nil
	}
	return strings.Join(matches, "\n"), nil
}

// ListProjectFiles lists every stored path, sorted.
func (t *Toolbox) ListProjectFiles() (string, error) {
	paths, err := t.mgr.ListFiles(t.sessionID)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "No files generated yet", nil
	}
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = "  - " + p
	}
	return "Project files:\n" + strings.Join(lines, "\n"), nil
}

// BuildContext renders the smart-context block for a query. maxTokens
// overrides the configured budget when positive.
func (t *Toolbox) BuildContext(query string, maxTokens int) (string, error) {
	return t.mgr.SmartContext(t.sessionID, query, maxTokens)
}
