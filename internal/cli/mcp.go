package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	vibeserver "github.com/vibecraft-ai/vibecraft/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Exposes vibecraft's tools, prompts, and session resources to an MCP
host over stdio. Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "vibecraft": {
        "command": "vibecraft",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("store", "", "override the configured store path")
	mcpCmd.Flags().String("sandbox-dir", "", "override the configured sandbox directory")
	mcpCmd.Flags().String("archive-backend", "", `override the export backend ("local" or "s3")`)
	mcpCmd.Flags().String("archive-dir", "", "override the local export directory")
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, cleanup, err := vibeserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Version notices go to stderr so they never mix with the MCP
	// transport on stdout.
	go checkForUpdates()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n👋 Shutting down vibecraft...")
		cleanup()
		os.Exit(0)
	}()

	fmt.Fprintln(os.Stderr, "🎨 vibecraft MCP server ready (stdio)")
	return server.ServeStdio(s)
}
