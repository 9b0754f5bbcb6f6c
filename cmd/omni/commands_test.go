package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, path ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := rootCmd.Find(path)
	require.NoError(t, err)
	require.Equal(t, path[len(path)-1], cmd.Name())
	return cmd
}

func TestCommandTree(t *testing.T) {
	findCommand(t, "setup")
	findCommand(t, "bitwarden", "list")
	findCommand(t, "bitwarden", "get")
	findCommand(t, "epicor", "case", "complete-task")
	findCommand(t, "epicor", "case", "get-status")
	findCommand(t, "epicor", "case", "add-comment")
	findCommand(t, "epicor", "case", "last-comment")
	findCommand(t, "epicor", "case", "update-quote")
}

func TestSetupFlags(t *testing.T) {
	cmd := findCommand(t, "setup")

	shorts := map[string]string{
		"client-id":       "i",
		"client-secret":   "s",
		"master-password": "p",
		"base-url":        "u",
		"api-key":         "k",
		"username":        "n",
		"password":        "w",
	}
	for name, short := range shorts {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, short, f.Shorthand, name)
		assert.Equal(t, "true", f.Annotations[cobra.BashCompOneRequiredFlag][0], "%s should be required", name)
	}
}

func TestCompleteTaskFlags(t *testing.T) {
	cmd := findCommand(t, "epicor", "case", "complete-task")

	for _, name := range []string{"case-number", "assign-to"} {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "true", f.Annotations[cobra.BashCompOneRequiredFlag][0], "%s should be required", name)
	}

	comment := cmd.Flags().Lookup("comment")
	require.NotNil(t, comment)
	assert.Nil(t, comment.Annotations[cobra.BashCompOneRequiredFlag], "comment is optional")
}

func TestLoadSettings_ExplicitConfigMustExist(t *testing.T) {
	old := configPath
	t.Cleanup(func() { configPath = old })

	configPath = filepath.Join(t.TempDir(), "missing.toml")
	_, err := loadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.toml")
}

func TestLoadSettings_ExplicitConfigLoads(t *testing.T) {
	old := configPath
	t.Cleanup(func() { configPath = old })

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\ncolor = false\n"), 0o644))

	configPath = path
	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.False(t, cfg.Output.Color)
}

func TestGetFlags(t *testing.T) {
	cmd := findCommand(t, "bitwarden", "get")

	assert.NotNil(t, cmd.Flags().Lookup("type"))
	assert.NotNil(t, cmd.Flags().Lookup("name"))
}
