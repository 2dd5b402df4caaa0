package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Local is a sandbox backed by a directory under a shared root.
type Local struct {
	id         string
	dir        string
	previewURL string

	mu    sync.Mutex
	state State
}

// NewLocal returns an unprovisioned local sandbox for the session.
func NewLocal(root, sessionID, previewURL string) *Local {
	return &Local{
		id:         sessionID,
		dir:        filepath.Join(root, sessionID),
		previewURL: previewURL,
		state:      StateIdle,
	}
}

// LocalFactory returns a Factory producing Local sandboxes under root.
func LocalFactory(root, previewURL string) Factory {
	return func(sessionID string) Sandbox {
		return NewLocal(root, sessionID, previewURL)
	}
}

// Dir returns the workspace directory.
func (l *Local) Dir() string { return l.dir }

// State reports the current lifecycle phase.
func (l *Local) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Local) transition(to State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := checkTransition(l.id, l.state, to); err != nil {
		return err
	}
	l.state = to
	return nil
}

// Create provisions the workspace directory.
func (l *Local) Create(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.transition(StateCreating); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		// The transition to error cannot fail from creating.
		_ = l.transition(StateError)
		return fmt.Errorf("sandbox %q: create workspace: %w", l.id, err)
	}
	return l.transition(StateReady)
}

// WriteFile stores content at a workspace-relative path, creating
// parent directories as needed.
func (l *Local) WriteFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(full); dir != l.dir {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("sandbox %q: create parent dirs: %w", l.id, err)
		}
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("sandbox %q: write %s: %w", l.id, path, err)
	}
	return nil
}

// ReadFile returns the content at a workspace-relative path.
func (l *Local) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := l.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("sandbox %q: read %s: %w", l.id, path, err)
	}
	return string(data), nil
}

// RunCommand executes a shell command in the workspace. The command's
// exit code lands in the result; only start or context failures are
// errors.
func (l *Local) RunCommand(ctx context.Context, command string) (CommandResult, error) {
	if l.State() != StateReady {
		return CommandResult{}, ErrNotReady
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = l.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("sandbox %q: command interrupted: %w", l.id, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("sandbox %q: run command: %w", l.id, err)
	}
	return res, nil
}

// PreviewURL is where the running app can be reached.
func (l *Local) PreviewURL() string { return l.previewURL }

// Close removes the workspace directory.
func (l *Local) Close() error {
	if err := l.transition(StateClosed); err != nil {
		return err
	}
	if err := os.RemoveAll(l.dir); err != nil {
		return fmt.Errorf("sandbox %q: remove workspace: %w", l.id, err)
	}
	return nil
}

// resolve maps a workspace-relative path to an absolute one, rejecting
// absolute paths and traversal outside the workspace.
func (l *Local) resolve(path string) (string, error) {
	if l.State() != StateReady {
		return "", ErrNotReady
	}
	clean := filepath.Clean(strings.TrimSpace(path))
	if clean == "" || clean == "." || filepath.IsAbs(clean) || !filepath.IsLocal(clean) {
		return "", fmt.Errorf("sandbox %q: invalid path %q", l.id, path)
	}
	return filepath.Join(l.dir, clean), nil
}
