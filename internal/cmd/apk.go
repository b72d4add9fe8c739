package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solarmoff-afk/spawn/internal/emitter"
)

var apkCmd = &cobra.Command{
	Use:   "apk <toml> [<toml> ...]",
	Short: "Build an APK",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runBuild(args, emitter.ModeAPK)
	},
}
