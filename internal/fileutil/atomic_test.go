package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "results", "basic_results.json")

	require.NoError(t, WriteFileAtomic(path, []byte("[]"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte(`[{"profit":10}]`), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"profit":10}]`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "basic_results.json", entries[0].Name())
}

func TestWriteFileAtomicBadDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	assert.Error(t, WriteFileAtomic(filepath.Join(blocker, "out.json"), []byte("x"), 0644))
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.json")
	in := map[string]float64{"total_profit": -120.5, "win_rate": 0.43}
	require.NoError(t, WriteJSON(path, in))

	var out map[string]float64
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, in, out)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	assert.Error(t, ReadJSON(path, &out))
	assert.ErrorIs(t, ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &out), os.ErrNotExist)
}
