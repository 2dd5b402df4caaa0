package sandbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newReadySandbox(t *testing.T) *Local {
	t.Helper()
	l := NewLocal(t.TempDir(), "sess-1", "http://localhost:3000")
	if err := l.Create(context.Background()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return l
}

// --- lifecycle ---

func TestCreate_ProvisionsWorkspace(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root, "sess-1", "http://localhost:3000")

	if l.State() != StateIdle {
		t.Errorf("initial state = %s, want idle", l.State())
	}
	if err := l.Create(context.Background()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if l.State() != StateReady {
		t.Errorf("state after Create = %s, want ready", l.State())
	}

	info, err := os.Stat(filepath.Join(root, "sess-1"))
	if err != nil {
		t.Fatalf("workspace dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("workspace path is not a directory")
	}
}

func TestCreate_TwiceFails(t *testing.T) {
	l := newReadySandbox(t)

	if err := l.Create(context.Background()); err == nil {
		t.Error("second Create should fail from ready")
	}
}

func TestCreate_CanceledContext(t *testing.T) {
	l := NewLocal(t.TempDir(), "sess-1", "http://x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Create(ctx); err == nil {
		t.Error("Create with canceled context should fail")
	}
	if l.State() != StateIdle {
		t.Errorf("state = %s, want idle after refused Create", l.State())
	}
}

func TestClose_RemovesWorkspace(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root, "sess-1", "http://x")
	if err := l.Create(context.Background()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if l.State() != StateClosed {
		t.Errorf("state = %s, want closed", l.State())
	}
	if _, err := os.Stat(filepath.Join(root, "sess-1")); !os.IsNotExist(err) {
		t.Error("workspace dir survived Close")
	}
}

func TestClose_TwiceFails(t *testing.T) {
	l := newReadySandbox(t)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := l.Close(); err == nil {
		t.Error("second Close should fail")
	}
}

func TestOperationsAfterClose_NotReady(t *testing.T) {
	l := newReadySandbox(t)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := l.WriteFile(context.Background(), "a.ts", "x"); !errors.Is(err, ErrNotReady) {
		t.Errorf("WriteFile err = %v, want ErrNotReady", err)
	}
	if _, err := l.ReadFile(context.Background(), "a.ts"); !errors.Is(err, ErrNotReady) {
		t.Errorf("ReadFile err = %v, want ErrNotReady", err)
	}
	if _, err := l.RunCommand(context.Background(), "true"); !errors.Is(err, ErrNotReady) {
		t.Errorf("RunCommand err = %v, want ErrNotReady", err)
	}
}

// --- files ---

func TestWriteAndReadFile(t *testing.T) {
	l := newReadySandbox(t)

	content := "export default function Page() {}\n"
	if err := l.WriteFile(context.Background(), "app/dashboard/page.tsx", content); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := l.ReadFile(context.Background(), "app/dashboard/page.tsx")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != content {
		t.Errorf("content = %q, want %q", got, content)
	}
}

func TestWriteFile_BeforeCreate(t *testing.T) {
	l := NewLocal(t.TempDir(), "sess-1", "http://x")

	err := l.WriteFile(context.Background(), "a.ts", "x")
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
}

func TestWriteFile_RejectsEscapingPaths(t *testing.T) {
	l := newReadySandbox(t)

	bad := []string{
		"../escape.ts",
		"a/../../escape.ts",
		"/etc/passwd",
		"",
		".",
	}
	for _, path := range bad {
		if err := l.WriteFile(context.Background(), path, "x"); err == nil {
			t.Errorf("WriteFile(%q) succeeded, want rejection", path)
		}
	}
}

func TestWriteFile_AllowsDotSegmentsThatStayInside(t *testing.T) {
	l := newReadySandbox(t)

	if err := l.WriteFile(context.Background(), "./app/page.tsx", "x"); err != nil {
		t.Errorf("WriteFile(./app/page.tsx) failed: %v", err)
	}
	if err := l.WriteFile(context.Background(), "app/../lib/utils.ts", "x"); err != nil {
		t.Errorf("WriteFile(app/../lib/utils.ts) failed: %v", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	l := newReadySandbox(t)

	if _, err := l.ReadFile(context.Background(), "missing.ts"); err == nil {
		t.Error("ReadFile of a missing file should fail")
	}
}

// --- commands ---

func TestRunCommand_CapturesOutput(t *testing.T) {
	l := newReadySandbox(t)

	res, err := l.RunCommand(context.Background(), "echo hello")
	if err != nil {
		t.Fatalf("RunCommand failed: %v", err)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want hello\\n", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestRunCommand_NonZeroExitIsResult(t *testing.T) {
	l := newReadySandbox(t)

	res, err := l.RunCommand(context.Background(), "exit 3")
	if err != nil {
		t.Fatalf("RunCommand returned error for non-zero exit: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRunCommand_RunsInWorkspace(t *testing.T) {
	l := newReadySandbox(t)
	if err := l.WriteFile(context.Background(), "marker.txt", "here"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	res, err := l.RunCommand(context.Background(), "cat marker.txt")
	if err != nil {
		t.Fatalf("RunCommand failed: %v", err)
	}
	if res.Stdout != "here" {
		t.Errorf("Stdout = %q, want here", res.Stdout)
	}
}

func TestRunCommand_CanceledContext(t *testing.T) {
	l := newReadySandbox(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.RunCommand(ctx, "echo hi"); err == nil {
		t.Error("RunCommand with canceled context should fail")
	}
}

// --- wiring ---

func TestPreviewURL(t *testing.T) {
	l := NewLocal(t.TempDir(), "sess-1", "http://localhost:3999")
	if got := l.PreviewURL(); got != "http://localhost:3999" {
		t.Errorf("PreviewURL = %s, want http://localhost:3999", got)
	}
}

func TestLocalFactory_SeparatesSessions(t *testing.T) {
	root := t.TempDir()
	factory := LocalFactory(root, "http://x")

	a := factory("sess-a").(*Local)
	b := factory("sess-b").(*Local)

	if a.Dir() == b.Dir() {
		t.Error("factory gave two sessions the same workspace")
	}
	if filepath.Dir(a.Dir()) != root {
		t.Errorf("workspace %s not under root %s", a.Dir(), root)
	}
}
