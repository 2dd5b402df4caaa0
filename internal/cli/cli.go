// Package cli implements the vibecraft command-line interface: the
// HTTP API server, the stdio MCP server, an interactive chat, the
// context benchmark, and self-update.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/vibecraft-ai/vibecraft/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "vibecraft",
	Short: "VibeCraft - chat-driven app builder",
	Long: `VibeCraft turns chat messages into working Next.js apps. Sessions,
their files, and conversation history live in a local store; each
session runs in a sandbox with a live preview. The smart context
engine keeps model calls small by sending only the files relevant
to a request.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to vibecraft.toml (default ./vibecraft.toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig layers defaults, the TOML file, .env, and the environment,
// then applies any flags explicitly set on cmd. Flags rank above
// everything else.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly-set flags over the loaded configuration
// and re-validates. Flags a command does not define are skipped, so
// every command shares this one override table.
func applyFlags(cfg *config.Config, cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Model, _ = f.GetString("model")
	}
	if f.Changed("listen") {
		cfg.Server.Listen, _ = f.GetString("listen")
	}
	if f.Changed("store") {
		cfg.Store.Path, _ = f.GetString("store")
	}
	if f.Changed("sandbox-dir") {
		cfg.Sandbox.Dir, _ = f.GetString("sandbox-dir")
	}
	if f.Changed("archive-backend") {
		cfg.Archive.Backend, _ = f.GetString("archive-backend")
	}
	if f.Changed("archive-dir") {
		cfg.Archive.Dir, _ = f.GetString("archive-dir")
	}
	if f.Changed("max-tokens") {
		cfg.Context.MaxTokens, _ = f.GetInt("max-tokens")
	}
	if f.Changed("max-full-files") {
		cfg.Context.MaxFullFiles, _ = f.GetInt("max-full-files")
	}
	if f.Changed("min-score") {
		cfg.Context.MinScore, _ = f.GetFloat64("min-score")
	}
	return cfg.Validate()
}
