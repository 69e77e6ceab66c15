package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lighthouseYAML = `format_version: v1.0.0
title: The Lighthouse Keeper
theme: lighthouse
root: start
nodes:
  - id: start
    content: The lamp has gone dark and a ship is close.
    options:
      - text: Climb the tower
        next: tower
      - text: Row out to the ship
        next: boat
  - id: tower
    content: You relight the lamp just in time.
    is_ending: true
    is_winning_ending: true
  - id: boat
    content: The waves overturn your boat.
    is_ending: true
`

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStoryCommands_ImportExportListStats(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	db := filepath.Join(dir, "storyforge.db")

	file := filepath.Join(dir, "lighthouse.yaml")
	require.NoError(t, os.WriteFile(file, []byte(lighthouseYAML), 0o644))

	out, err := execute(t, "story", "import", file, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported story 1: The Lighthouse Keeper")

	out, err = execute(t, "story", "export", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "format_version: v1.0.0")
	assert.Contains(t, out, "title: The Lighthouse Keeper")

	out, err = execute(t, "story", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "The Lighthouse Keeper")

	out, err = execute(t, "story", "show", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "3 scenes, 2 endings (1 winning), 2 levels deep")
	assert.Contains(t, out, "storyforge --at /play/1")

	out, err = execute(t, "story", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Stories:          1")
}

func TestStoryCommands_ImportRejectsInvalidStory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	db := filepath.Join(dir, "storyforge.db")

	noWin := filepath.Join(dir, "nowin.yaml")
	doc := "title: Gloom\nroot: a\nnodes:\n  - id: a\n    content: It rains forever.\n    is_ending: true\n"
	require.NoError(t, os.WriteFile(noWin, []byte(doc), 0o644))

	_, err := execute(t, "story", "import", noWin, "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no winning ending")
}

func TestStoryCommands_ImportRejectsNewerFormat(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	file := filepath.Join(dir, "future.yaml")
	require.NoError(t, os.WriteFile(file, []byte("format_version: v2.0.0\n"+lighthouseYAML[len("format_version: v1.0.0\n"):]), 0o644))

	_, err := execute(t, "story", "import", file, "--db", filepath.Join(dir, "storyforge.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incompatible draft format")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "storyforge")
}

func TestStoryGenerate_OfflineDemo(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("STORYFORGE_LLM_PROVIDER", "mock")
	t.Setenv("STORYFORGE_GENERATION_POLL_INTERVAL", "10ms")
	db := filepath.Join(dir, "storyforge.db")

	out, err := execute(t, "story", "generate", "lighthouses", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Story 1 created")

	out, err = execute(t, "story", "show", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "The Lantern Keeper")
}
