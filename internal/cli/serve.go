package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vibecraft-ai/vibecraft/internal/agent"
	"github.com/vibecraft-ai/vibecraft/internal/api"
	"github.com/vibecraft-ai/vibecraft/internal/archive"
	"github.com/vibecraft-ai/vibecraft/internal/relevance"
	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/session"
	"github.com/vibecraft-ai/vibecraft/internal/store"
)

// shutdownTimeout bounds how long serve waits for in-flight requests
// on SIGTERM before giving up.
const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the JSON API with the chat agent, websocket event streams,
session export, and the idle-session reaper. Requires a Gemini API key
(GEMINI_API_KEY or api_key in vibecraft.toml).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "override the configured listen address")
	serveCmd.Flags().String("model", "", "override the configured model")
	serveCmd.Flags().String("store", "", "override the configured store path")
	serveCmd.Flags().String("sandbox-dir", "", "override the configured sandbox directory")
	serveCmd.Flags().String("archive-backend", "", `override the export backend ("local" or "s3")`)
	serveCmd.Flags().String("archive-dir", "", "override the local export directory")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	builder, err := relevance.NewBuilder(cfg.ContextConfig())
	if err != nil {
		return fmt.Errorf("creating context builder: %w", err)
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	factory := sandbox.LocalFactory(cfg.Sandbox.Dir, cfg.PreviewURL())
	mgr := session.NewManager(st, builder, factory)
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Printf("WARNING: closing sandboxes: %v", err)
		}
		if err := st.Close(); err != nil {
			log.Printf("WARNING: closing store: %v", err)
		}
	}()

	client, err := agent.NewClient(cmd.Context(), cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("connecting to Gemini: %w", err)
	}

	hub := api.NewHub()
	svc := agent.NewService(client, mgr, agent.Config{}, hub)

	// Export is an independent subsystem: a misconfigured backend
	// disables the export endpoint but not the rest of the API.
	var exports *archive.Service
	if backend, err := archive.ForConfig(cfg.Archive); err != nil {
		log.Printf("WARNING: export subsystem disabled: %v", err)
	} else {
		exports = archive.NewService(backend)
	}

	srv, err := api.New(cfg, mgr, svc, exports, hub)
	if err != nil {
		return err
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	fmt.Fprintf(os.Stderr, "🚀 vibecraft API on %s (model %s)\n", cfg.Server.Listen, cfg.Model)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}
