package commands

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, "bills.yaml"), someBills)

	setNow(t, time.Date(2024, 2, 11, 8, 0, 0, 0, time.UTC))
	_, err := runFinvista(t, "bills", "pay", "Electricity", "--dir", dir)
	require.NoError(t, err)
	setNow(t, time.Date(2024, 2, 12, 8, 0, 0, 0, time.UTC))
	_, err = runFinvista(t, "budget", "add", "--dir", dir, "--title", "Food", "--category", "Food", "--amount", "200")
	require.NoError(t, err)

	out, err := runFinvista(t, "log", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ACTION")
	assert.Contains(t, out, "init")
	assert.Contains(t, out, "bill_paid")
	assert.Contains(t, out, "budget_added")

	out, err = runFinvista(t, "log", "--dir", dir, "--action", "bill_paid")
	require.NoError(t, err)
	assert.Contains(t, out, "Electricity")
	assert.NotContains(t, out, "budget_added")

	out, err = runFinvista(t, "log", "--dir", dir, "-n", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, "header and one entry")
	assert.Contains(t, lines[1], "budget_added")

	out, err = runFinvista(t, "log", "--dir", dir, "--since", "2024-02-13")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity.")

	out, err = runFinvista(t, "log", "--dir", dir, "--subject", "elec", "-a", "BILL_PAID,init")
	require.NoError(t, err)
	assert.Contains(t, out, "Electricity")
	assert.NotContains(t, out, "init ")

	_, err = runFinvista(t, "log", "--dir", dir, "--action", "deleted")
	assert.ErrorContains(t, err, "unknown action")
}
