package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	store := NewFileStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	want := map[string]float64{
		"Front Door": 81.25,
		"Garage":     15,
		"Backyard":   99.999,
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for name, pct := range want {
		assert.InDelta(t, pct, got[name], 1e-9, name)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileStore(filepath.Join(dir, "missing.json")).Load()
	require.ErrorIs(t, err, ErrLoadStatus)

	malformed := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"cam": "eighty"}`), 0o600))

	_, err = NewFileStore(malformed).Load()
	require.ErrorIs(t, err, ErrLoadStatus)

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte(`null`), 0o600))

	_, err = NewFileStore(null).Load()
	require.ErrorIs(t, err, ErrLoadStatus)
}

func TestFileStoreSaveCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(nil))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreSaveMissingDir(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "gone", "status.json"))
	require.ErrorIs(t, store.Save(map[string]float64{"a": 1}), ErrSaveStatus)
}
