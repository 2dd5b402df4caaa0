package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vibeserver "github.com/vibecraft-ai/vibecraft/internal/server"
	"github.com/vibecraft-ai/vibecraft/internal/updater"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		fmt.Printf("vibecraft v%s\n", vibeserver.Version)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update vibecraft to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func runUpdate(*cobra.Command, []string) error {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(vibeserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return nil
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(vibeserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart vibecraft to use the new version.\n")
	return nil
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr when an update exists. Best effort: network failures stay
// silent.
func checkForUpdates() {
	result := updater.CheckVersion(vibeserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: vibecraft update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}
