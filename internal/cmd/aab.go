package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solarmoff-afk/spawn/internal/emitter"
)

var aabCmd = &cobra.Command{
	Use:   "aab <toml> [<toml> ...]",
	Short: "Build an Android App Bundle",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runBuild(args, emitter.ModeAAB)
	},
}
