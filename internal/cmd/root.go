// Package cmd wires spawn's cobra command tree: apk/aab build
// invocation, the out-of-scope up/clean stubs, and the usage/help path.
// Config loading, resolution, manifest transform and
// build-graph emission are all performed here, since the downstream
// compiler/dexer/signer tools themselves are external collaborators
// this core only describes, never invokes.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solarmoff-afk/spawn/internal/logging"
)

var log = logging.New()

var logLevel string
var logFormat string

var rootCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Dependency resolver and build-graph generator for Android apps",
	Long: `spawn resolves Maven-style transitive dependencies, caches and unpacks
AAR/JAR artifacts, merges per-module TOML configuration, transforms the
application manifest, and emits a build graph for the incremental build
executor to run.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree. An unknown action prints usage and
// exits 0; a build/config/emit failure exits non-zero.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		_ = rootCmd.Usage()
		os.Exit(0)
	}
	log.Error("%v", err)
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "diagnostic log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "diagnostic log format: text or json")
	rootCmd.AddCommand(apkCmd, aabCmd, upCmd, cleanCmd)
	rootCmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		c.Root().UsageFunc()(c)
	})
	rootCmd.RunE = func(c *cobra.Command, args []string) error {
		return c.Help()
	}
}
