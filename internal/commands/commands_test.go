package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const ledger = `id,date,type,amount,category,title,description
t1,2024-01-05,income,100,Salary,January pay,
t2,2024-01-20,expense,40,Food,Groceries,
t3,2024-02-10,expense,90,Rent,February rent,
t4,2024-04-02,income,200,Salary,April pay,
t5,2024-04-15,expense,30,food,Market,"fruit, veg"
`

// runFinvista executes the CLI in-process and returns everything it wrote.
func runFinvista(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// clearEnv hides FINVISTA_* variables from the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FINVISTA_API_URL", "FINVISTA_API_TOKEN", "FINVISTA_LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func setNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

// newProject initializes a project holding the sample ledger.
func newProject(t *testing.T) string {
	t.Helper()
	clearEnv(t)
	setNow(t, time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))

	dir := t.TempDir()
	_, err := runFinvista(t, "init", dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "transactions.csv"), []byte(ledger), 0o644))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
