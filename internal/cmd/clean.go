package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// cleanCmd is a stub: build-output removal is a downstream executor
// concern.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build output (not handled by this core)",
	RunE: func(c *cobra.Command, args []string) error {
		log.Note("spawn clean is handled by the build executor, not this core")
		os.Exit(0)
		return nil
	},
}
