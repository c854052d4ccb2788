package core

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJobsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("int main(){}\n"), 0o644))
	}
	return dir
}

func collect(t *testing.T, s *Scheduler, dir string) []string {
	t.Helper()
	var names []string
	for job, err := range s.Jobs(dir) {
		require.NoError(t, err)
		names = append(names, job.Name)
	}
	sort.Strings(names)
	return names
}

func TestJobsFiltersByExactExtension(t *testing.T) {
	dir := makeJobsDir(t, "a.cpp", "b.txt", "c.cpp", "d.CPP", "e.cpp.bak", ".cpp")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "f.cpp"), nil, 0o644))

	assert.Equal(t, []string{"a.cpp", "c.cpp"}, collect(t, NewScheduler(".cpp"), dir))
}

func TestJobsPathsAreInsideDir(t *testing.T) {
	dir := makeJobsDir(t, "a.cpp")
	for job, err := range NewScheduler(".cpp").Jobs(dir) {
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "a.cpp"), job.Path)
	}
}

func TestJobsIsRestartable(t *testing.T) {
	dir := makeJobsDir(t, "a.cpp")
	s := NewScheduler(".cpp")

	assert.Equal(t, []string{"a.cpp"}, collect(t, s, dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cpp"), nil, 0o644))
	assert.Equal(t, []string{"a.cpp", "b.cpp"}, collect(t, s, dir))
}

func TestJobsExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.Mkdir(filepath.Join(home, "jobs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "jobs", "x.cpp"), nil, 0o644))

	assert.Equal(t, []string{"x.cpp"}, collect(t, NewScheduler(".cpp"), "~/jobs"))
}

func TestJobsMissingDirYieldsDirectoryError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	var got []error
	for _, err := range NewScheduler(".cpp").Jobs(missing) {
		got = append(got, err)
	}
	require.Len(t, got, 1)

	var dirErr *DirectoryError
	require.True(t, errors.As(got[0], &dirErr))
	assert.Equal(t, missing, dirErr.Dir)
	assert.True(t, errors.Is(got[0], os.ErrNotExist))
}

func TestJobsOnRegularFileYieldsDirectoryError(t *testing.T) {
	dir := makeJobsDir(t, "a.cpp")

	var dirErr *DirectoryError
	for _, err := range NewScheduler(".cpp").Jobs(filepath.Join(dir, "a.cpp")) {
		require.Error(t, err)
		assert.True(t, errors.As(err, &dirErr))
	}
	assert.NotNil(t, dirErr)
}

func TestJobsEarlyBreak(t *testing.T) {
	dir := makeJobsDir(t, "a.cpp", "b.cpp", "c.cpp")

	n := 0
	for range NewScheduler(".cpp").Jobs(dir) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
