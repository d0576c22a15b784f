package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"ainotebook/internal/config"
	"ainotebook/internal/note"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	c := config.Default()
	c.Database.Path = filepath.Join(dir, "notebook.db")
	c.Log.File = ""
	c.Preview.Style = "notty"
	c.Pomodoro.Bell = false
	require.NoError(t, config.Save(cfgPath, c))
	return cfgPath
}

func runCLI(t *testing.T, cfgPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	addTags, addNotebook, addStdin = nil, "", false
	sessionsLimit = 20

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := execute()
	return out.String(), err
}

func TestCLINotesFlow(t *testing.T) {
	cfgPath := setupCLI(t)

	out, err := runCLI(t, cfgPath, "", "notebook", "add", "Work")
	require.NoError(t, err)
	notebookID := strings.TrimSpace(out)
	require.NotEmpty(t, notebookID)

	out, err = runCLI(t, cfgPath, "", "add", "Groceries", "milk and eggs", "--tag", "home", "--notebook", "Work")
	require.NoError(t, err)
	groceriesID := strings.TrimSpace(out)

	_, err = runCLI(t, cfgPath, "chapter 3\n", "add", "Reading", "--stdin")
	require.NoError(t, err)

	out, err = runCLI(t, cfgPath, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Reading")

	out, err = runCLI(t, cfgPath, "", "list", "MILK")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Reading")

	out, err = runCLI(t, cfgPath, "", "show", groceriesID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "milk and eggs")

	out, err = runCLI(t, cfgPath, "", "notebook", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "1 notes")

	out, err = runCLI(t, cfgPath, "", "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "home")

	_, err = runCLI(t, cfgPath, "", "notebook", "rm", notebookID)
	require.NoError(t, err)
	out, err = runCLI(t, cfgPath, "", "notebook", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Work")

	out, err = runCLI(t, cfgPath, "", "list", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries", "notes survive their notebook")
}

func TestCLIShowMissingNote(t *testing.T) {
	cfgPath := setupCLI(t)

	_, err := runCLI(t, cfgPath, "", "show", "does-not-exist")
	assert.ErrorIs(t, err, note.ErrNotFound)
	assert.Nil(t, db, "database closed after a failed command")
	assert.Nil(t, logger)
}

func TestCLISessionsEmpty(t *testing.T) {
	cfgPath := setupCLI(t)

	out, err := runCLI(t, cfgPath, "", "sessions", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "focused today:")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "01234567", shortID("0123456789"))
}
