package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendRuns(t *testing.T, l *Ledger, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		r := NewRecord("/jobs/dots.cpp", "abc", "dots.cpp.out", OutcomeCompiled, true)
		require.NoError(t, l.Append(r))
	}
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.jsonl")

	l, err := Open(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Empty(t, l.Records())
	assert.Equal(t, "", l.LastHash())
	assert.Equal(t, 0, l.NextIndex())
}

func TestAppendChainsRecords(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	appendRuns(t, l, 3)

	recs := l.Records()
	require.Len(t, recs, 3)
	for i, r := range recs {
		assert.Equal(t, i, r.Index)
		if i > 0 {
			assert.Equal(t, recs[i-1].Hash, r.PrevHash)
		}
	}
	assert.Equal(t, recs[2].Hash, l.LastHash())
	assert.Equal(t, 3, l.NextIndex())
	assert.NoError(t, l.Verify())
}

func TestLedgerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := Open(path)
	require.NoError(t, err)
	appendRuns(t, l, 2)

	l2, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, l.Records(), l2.Records())
	assert.NoError(t, l2.Verify())

	appendRuns(t, l2, 1)
	assert.Equal(t, 2, l2.Records()[2].Index)
	assert.NoError(t, l2.Verify())
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := Open(path)
	require.NoError(t, err)
	appendRuns(t, l, 2)

	// rewrite the file with a modified outcome on the first record
	recs := l.Records()
	recs[0].Outcome = OutcomeFailed
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	for _, r := range recs {
		require.NoError(t, enc.Encode(r))
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	tampered, err := Open(path)
	require.NoError(t, err)
	assert.ErrorContains(t, tampered.Verify(), "hash mismatch at index 0")
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json\n"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestHashSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cpp")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	h, err := HashSource(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", h)

	_, err = HashSource(filepath.Join(t.TempDir(), "missing.cpp"))
	assert.Error(t, err)
}
