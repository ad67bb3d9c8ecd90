package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestFingerprint_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.png", []byte("page one"))
	b := writeFile(t, dir, "b.png", []byte("page one"))

	da, err := Fingerprint(a)
	require.NoError(t, err)
	db, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.Len(t, string(da), 32)
	assert.True(t, IsDuplicate(da, db))
}

func TestFingerprint_SingleByteDiffers(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.png", []byte("page one"))
	b := writeFile(t, dir, "b.png", []byte("page onf"))

	da, err := Fingerprint(a)
	require.NoError(t, err)
	db, err := Fingerprint(b)
	require.NoError(t, err)

	assert.False(t, IsDuplicate(da, db))
}

func TestFingerprint_KnownValue(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.png", nil)
	d, err := Fingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, Digest("d41d8cd98f00b204e9800998ecf8427e"), d)
}

func TestIsDuplicate_EmptyPrevious(t *testing.T) {
	assert.False(t, IsDuplicate("", ""))
	assert.False(t, IsDuplicate("", "abc"))
}

func TestFingerprint_MissingFile(t *testing.T) {
	_, err := Fingerprint(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
