package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vibecraft-ai/vibecraft/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "vibecraft.db")
	cfg.Sandbox.Dir = t.TempDir()
	cfg.Archive.Dir = t.TempDir()
	return cfg
}

func TestNew_BuildsServer(t *testing.T) {
	cfg := testConfig(t)

	s, cleanup, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer cleanup()

	if s == nil {
		t.Fatal("New returned a nil server")
	}
	if _, err := os.Stat(cfg.Store.Path); err != nil {
		t.Errorf("store database was not created: %v", err)
	}
}

func TestNew_BadContextConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Context.MaxTokens = -1

	_, cleanup, err := New(cfg)
	if err == nil {
		t.Fatal("New accepted a negative token budget")
	}
	// Cleanup must be callable even on failure.
	cleanup()
}

func TestNew_S3BackendMisconfigured(t *testing.T) {
	// A bad s3 section disables export but must not break the server.
	cfg := testConfig(t)
	cfg.Archive.Backend = "s3"
	cfg.Archive.S3.Endpoint = ""

	s, cleanup, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer cleanup()
	if s == nil {
		t.Fatal("New returned a nil server")
	}
}
