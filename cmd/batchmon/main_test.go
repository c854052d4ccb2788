package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchmon/internal/ledger"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestJobPath(t *testing.T) {
	assert.Equal(t, "~/batch/jobs/dots.cpp", jobPath("~/batch/jobs", "dots.cpp"))
	assert.Equal(t, "/tmp/x.cpp", jobPath("~/batch/jobs", "/tmp/x.cpp"))
	assert.Equal(t, "~/x.cpp", jobPath("/jobs", "~/x.cpp"))
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.cpp", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	out, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--jobs-dir", dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Listing jobs in directory: "+dir)
	assert.Contains(t, out, "a.cpp")
	assert.NotContains(t, out, "b.txt")
}

func TestConsoleFromPipedInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cpp"), nil, 0o644))

	out, err := execute(t, "1\n5\n", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--jobs-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Batch Monitor Options:")
	assert.Contains(t, out, "a.cpp")
	assert.Contains(t, out, "Shutting down...")
}

func TestHistoryCommands(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "batchmon.yaml")
	history := filepath.Join(tmp, "history.jsonl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history: "+history+"\n"), 0o644))

	out, err := execute(t, "", "--config", cfgPath, "history", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Ledger verification OK")

	_, err = execute(t, "", "--config", filepath.Join(tmp, "none.yaml"), "history", "inspect")
	assert.ErrorIs(t, err, errNoHistory)
}

func TestHistoryShowsHead(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "batchmon.yaml")
	history := filepath.Join(tmp, "history.jsonl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history: "+history+"\n"), 0o644))

	l, err := ledger.Open(history)
	require.NoError(t, err)
	require.NoError(t, l.Append(ledger.NewRecord("/jobs/a.cpp", "", "a.cpp.out", ledger.OutcomeCompiled, true)))
	require.NoError(t, l.Append(ledger.NewRecord("/jobs/b.cpp", "", "b.cpp.out", ledger.OutcomeFailed, false)))
	head := l.LastHash()[:16]

	out, err := execute(t, "", "--config", cfgPath, "history", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Ledger verification OK (records=2 head="+head+")")

	out, err = execute(t, "", "--config", cfgPath, "history", "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "Source=/jobs/b.cpp Outcome=failed Launched=false")
	assert.Contains(t, out, "Next=2 Head="+head)
}

func TestUnknownLogFormat(t *testing.T) {
	_, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-format", "xml", "list")
	assert.Error(t, err)
}
