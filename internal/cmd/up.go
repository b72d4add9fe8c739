package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// upCmd is a stub: SDK/NDK installation is handled by an external
// downloader collaborator.
var upCmd = &cobra.Command{
	Use:       "up [sdk|ndk]",
	Short:     "Install the Android SDK or NDK (not handled by this core)",
	ValidArgs: []string{"sdk", "ndk"},
	Args:      cobra.ExactValidArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		log.Note("spawn up %s is handled by the SDK/NDK downloader, not this build core", args[0])
		os.Exit(0)
		return nil
	},
}
