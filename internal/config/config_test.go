package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

// --- Defaults ---

func TestDefault_Values(t *testing.T) {
	cfg := Default()

	if cfg.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %s, want gemini-2.0-flash", cfg.Model)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %s, want :8080", cfg.Server.Listen)
	}
	if cfg.Server.SessionMaxIdle.Std() != 2*time.Hour {
		t.Errorf("SessionMaxIdle = %v, want 2h", cfg.Server.SessionMaxIdle.Std())
	}
	if cfg.Context.MaxTokens != 4000 {
		t.Errorf("MaxTokens = %d, want 4000", cfg.Context.MaxTokens)
	}
	if cfg.Context.MaxFullFiles != 5 {
		t.Errorf("MaxFullFiles = %d, want 5", cfg.Context.MaxFullFiles)
	}
	if cfg.Context.MinScore != 0.1 {
		t.Errorf("MinScore = %v, want 0.1", cfg.Context.MinScore)
	}
	if cfg.Archive.Backend != "local" {
		t.Errorf("Archive.Backend = %s, want local", cfg.Archive.Backend)
	}
}

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

// --- Load ---

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %s, want default :8080", cfg.Server.Listen)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Load should fail for an explicit missing file")
	}
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vibecraft.toml")
	writeFile(t, path, `
model = "gemini-2.5-pro"

[server]
listen = ":9090"
session_max_idle = "45m"

[context]
max_tokens = 8000

[sandbox]
preview_port = 4000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %s, want gemini-2.5-pro", cfg.Model)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %s, want :9090", cfg.Server.Listen)
	}
	if cfg.Server.SessionMaxIdle.Std() != 45*time.Minute {
		t.Errorf("SessionMaxIdle = %v, want 45m", cfg.Server.SessionMaxIdle.Std())
	}
	if cfg.Context.MaxTokens != 8000 {
		t.Errorf("MaxTokens = %d, want 8000", cfg.Context.MaxTokens)
	}
	if cfg.Sandbox.PreviewPort != 4000 {
		t.Errorf("PreviewPort = %d, want 4000", cfg.Sandbox.PreviewPort)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.Path != "vibecraft.db" {
		t.Errorf("Store.Path = %s, want default", cfg.Store.Path)
	}
}

func TestLoad_MalformedTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibecraft.toml")
	writeFile(t, path, "model = [broken")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load should fail on malformed TOML")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibecraft.toml")
	writeFile(t, path, `
[server]
listen = ":9090"
`)
	t.Setenv("VIBECRAFT_LISTEN", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Listen != ":7070" {
		t.Errorf("Listen = %s, want env value :7070", cfg.Server.Listen)
	}
}

func TestLoad_DotEnvFileApplies(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ".env"), "VIBECRAFT_MODEL=gemini-from-dotenv\n")
	// godotenv sets process env for real; undo after the test.
	t.Cleanup(func() { os.Unsetenv("VIBECRAFT_MODEL") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gemini-from-dotenv" {
		t.Errorf("Model = %s, want gemini-from-dotenv", cfg.Model)
	}
}

func TestLoad_RealEnvBeatsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ".env"), "VIBECRAFT_MODEL=from-dotenv\n")
	t.Setenv("VIBECRAFT_MODEL", "from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "from-env" {
		t.Errorf("Model = %s, want from-env", cfg.Model)
	}
}

func TestLoad_InvalidEnvNumberFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIBECRAFT_MAX_TOKENS", "lots")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load should fail on a non-numeric budget")
	}
	if !strings.Contains(err.Error(), "VIBECRAFT_MAX_TOKENS") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_BadBudgetFailsAtLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIBECRAFT_MAX_TOKENS", "0")

	if _, err := Load(""); err == nil {
		t.Fatal("Load should reject a zero token budget")
	}
}

// --- Validate ---

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty listen", func(c *Config) { c.Server.Listen = "" }},
		{"preview port too low", func(c *Config) { c.Sandbox.PreviewPort = 0 }},
		{"preview port too high", func(c *Config) { c.Sandbox.PreviewPort = 70000 }},
		{"zero idle", func(c *Config) { c.Server.SessionMaxIdle = 0 }},
		{"zero max tokens", func(c *Config) { c.Context.MaxTokens = 0 }},
		{"negative min score", func(c *Config) { c.Context.MinScore = -1 }},
		{"unknown backend", func(c *Config) { c.Archive.Backend = "ftp" }},
		{"local without dir", func(c *Config) { c.Archive.Dir = "" }},
		{"s3 without endpoint", func(c *Config) { c.Archive.Backend = "s3" }},
		{"s3 without bucket", func(c *Config) {
			c.Archive.Backend = "s3"
			c.Archive.S3.Endpoint = "minio:9000"
			c.Archive.S3.Bucket = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

// --- Helpers ---

func TestContextConfig_Mirror(t *testing.T) {
	cfg := Default()
	cfg.Context.MaxTokens = 1234
	cfg.Context.MaxFullFiles = 3
	cfg.Context.MinScore = 0.25

	rc := cfg.ContextConfig()
	if rc.MaxTokens != 1234 || rc.MaxFullFiles != 3 || rc.MinScore != 0.25 {
		t.Errorf("ContextConfig = %+v, want mirror of the context section", rc)
	}
}

func TestPreviewURL(t *testing.T) {
	cfg := Default()
	cfg.Sandbox.PreviewHost = "127.0.0.1"
	cfg.Sandbox.PreviewPort = 3999

	if got := cfg.PreviewURL(); got != "http://127.0.0.1:3999" {
		t.Errorf("PreviewURL = %s, want http://127.0.0.1:3999", got)
	}
}
