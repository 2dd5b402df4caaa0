package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vibecraft-ai/vibecraft/internal/config"
)

// --- command wiring ---

func TestCommands_Registered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "mcp", "chat", "bench", "version", "update"} {
		if !names[want] {
			t.Errorf("command %q not registered on root", want)
		}
	}
}

func TestCommandFlags_Defined(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{serveCmd, []string{"listen", "model", "store", "sandbox-dir", "archive-backend", "archive-dir"}},
		{mcpCmd, []string{"store", "sandbox-dir", "archive-backend", "archive-dir"}},
		{chatCmd, []string{"session", "model", "store", "sandbox-dir"}},
		{benchCmd, []string{"max-tokens", "max-full-files", "min-score"}},
	}
	for _, tt := range tests {
		for _, name := range tt.flags {
			if tt.cmd.Flags().Lookup(name) == nil {
				t.Errorf("%s: flag --%s not defined", tt.cmd.Name(), name)
			}
		}
	}
}

// --- applyFlags ---

// flagCmd builds a bare command carrying the override flags a test
// wants to exercise.
func flagCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("model", "", "")
	cmd.Flags().String("listen", "", "")
	cmd.Flags().String("store", "", "")
	cmd.Flags().String("sandbox-dir", "", "")
	cmd.Flags().Int("max-tokens", 0, "")
	cmd.Flags().Float64("min-score", 0, "")
	return cmd
}

func TestApplyFlags_OverridesConfig(t *testing.T) {
	cmd := flagCmd(t)
	for flag, value := range map[string]string{
		"model":       "gemini-2.5-pro",
		"listen":      ":9999",
		"store":       "other.db",
		"sandbox-dir": "workspaces",
		"max-tokens":  "8000",
		"min-score":   "0.25",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("setting --%s: %v", flag, err)
		}
	}

	cfg := config.Default()
	if err := applyFlags(cfg, cmd); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}

	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gemini-2.5-pro")
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("Listen = %q, want %q", cfg.Server.Listen, ":9999")
	}
	if cfg.Store.Path != "other.db" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "other.db")
	}
	if cfg.Sandbox.Dir != "workspaces" {
		t.Errorf("Sandbox.Dir = %q, want %q", cfg.Sandbox.Dir, "workspaces")
	}
	if cfg.Context.MaxTokens != 8000 {
		t.Errorf("MaxTokens = %d, want 8000", cfg.Context.MaxTokens)
	}
	if cfg.Context.MinScore != 0.25 {
		t.Errorf("MinScore = %g, want 0.25", cfg.Context.MinScore)
	}
}

func TestApplyFlags_UnsetFlagsLeaveConfigAlone(t *testing.T) {
	cmd := flagCmd(t)

	cfg := config.Default()
	if err := applyFlags(cfg, cmd); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}

	want := config.Default()
	if cfg.Model != want.Model {
		t.Errorf("Model = %q, want default %q", cfg.Model, want.Model)
	}
	if cfg.Server.Listen != want.Server.Listen {
		t.Errorf("Listen = %q, want default %q", cfg.Server.Listen, want.Server.Listen)
	}
	if cfg.Context.MaxTokens != want.Context.MaxTokens {
		t.Errorf("MaxTokens = %d, want default %d", cfg.Context.MaxTokens, want.Context.MaxTokens)
	}
}

func TestApplyFlags_RevalidatesOverrides(t *testing.T) {
	cmd := flagCmd(t)
	if err := cmd.Flags().Set("max-tokens", "-5"); err != nil {
		t.Fatalf("setting --max-tokens: %v", err)
	}

	err := applyFlags(config.Default(), cmd)
	if err == nil {
		t.Fatal("expected validation error for --max-tokens -5")
	}
	if !strings.Contains(err.Error(), "max tokens") {
		t.Errorf("error = %v, want it to mention max tokens", err)
	}
}

func TestApplyFlags_SkipsFlagsTheCommandLacks(t *testing.T) {
	// A command with no flags at all must pass through untouched.
	cmd := &cobra.Command{Use: "bare"}

	cfg := config.Default()
	if err := applyFlags(cfg, cmd); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}
	if cfg.Server.Listen != config.Default().Server.Listen {
		t.Errorf("Listen changed to %q with no flags set", cfg.Server.Listen)
	}
}
