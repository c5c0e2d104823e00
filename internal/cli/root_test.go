package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pixelgrid", cmd.Use)
	assert.Contains(t, cmd.Long, "quadrants")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"show", "add", "remove", "rename", "resize", "cell", "password", "export", "import", "link", "open", "serve", "scenario"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestPasswordSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"set", "clear"} {
		sub, _, err := cmd.Find([]string{"password", name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "db", "backend", "redis-url", "record", "password"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRemoveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	removeCmd, _, err := cmd.Find([]string{"remove"})
	require.NoError(t, err)

	yesFlag := removeCmd.Flags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)
}

func TestCellCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	cellCmd, _, err := cmd.Find([]string{"cell"})
	require.NoError(t, err)

	for _, name := range []string{"image", "sticker-tl", "sticker-tr", "sticker-bl", "sticker-br", "link", "icon", "color", "crossed", "clear"} {
		assert.NotNil(t, cellCmd.Flags().Lookup(name), name)
	}
}

func TestScenarioCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	scenarioCmd, _, err := cmd.Find([]string{"scenario"})
	require.NoError(t, err)

	for _, name := range []string{"update", "filter", "golden-dir"} {
		assert.NotNil(t, scenarioCmd.Flags().Lookup(name), name)
	}
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "show"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
