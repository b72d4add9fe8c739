package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise rootCmd.Execute() directly rather than the
// Execute() wrapper, since the wrapper terminates the process via
// os.Exit and cannot run inside a test binary.

func TestRootCmd_UnknownActionReturnsUnknownCommandError(t *testing.T) {
	rootCmd.SetArgs([]string{"frobnicate"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "unknown command"))
}

func TestRootCmd_NoArgsInvokesHelpWithoutError(t *testing.T) {
	rootCmd.SetArgs([]string{})
	err := rootCmd.Execute()
	assert.NoError(t, err)
}

func TestRootCmd_RegistersAllSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["apk"])
	assert.True(t, names["aab"])
	assert.True(t, names["up"])
	assert.True(t, names["clean"])
}
