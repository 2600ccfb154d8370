package commands

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvista-dev/finvista/internal/activity"
	"github.com/finvista-dev/finvista/internal/budget"
	"github.com/finvista-dev/finvista/internal/config"
)

func TestInit_CreatesStructure(t *testing.T) {
	clearEnv(t)
	setNow(t, time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))
	dir := filepath.Join(t.TempDir(), "books")

	out, err := runFinvista(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized FinVista project")

	for _, d := range []string{"data", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	budgets, err := budget.Load(filepath.Join(dir, "budgets.yaml"))
	require.NoError(t, err)
	assert.Empty(t, budgets)
	for _, f := range []string{"bills.yaml", "portfolio.yaml"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), ".env")

	entries, err := activity.Read(dir, activity.Query{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionInit, entries[0].Action)
	assert.Equal(t, "books", entries[0].Subject)
}

func TestInit_Twice(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	_, err := runFinvista(t, "init", dir)
	require.NoError(t, err)

	_, err = runFinvista(t, "init", dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestInit_Git(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	clearEnv(t)
	setNow(t, time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))
	gitDir := t.TempDir()
	_, err := runFinvista(t, "init", "--git", gitDir)
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(gitDir, config.FileName))
	require.NoError(t, err)
	assert.True(t, cfg.Git.AutoCommit)

	writeFile(t, filepath.Join(gitDir, "budgets.yaml"), dueBudgets)
	_, err = runFinvista(t, "budget", "renew", "--dir", gitDir)
	require.NoError(t, err)

	log := exec.Command("git", "log", "--format=%s")
	log.Dir = gitDir
	out, err := log.Output()
	require.NoError(t, err)
	subjects := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, []string{"budget: renew 1 budget(s)", "init: FinVista project"}, subjects)
}

func TestVersion(t *testing.T) {
	out, err := runFinvista(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}
