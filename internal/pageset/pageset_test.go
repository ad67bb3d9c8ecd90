package pageset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "0001.png", FileName(1))
	assert.Equal(t, "0042.png", FileName(42))
	assert.Equal(t, "9999.png", FileName(MaxOrderedPages))
}

func TestPaths(t *testing.T) {
	paths := Paths("out", 3)
	assert.Equal(t, []string{
		filepath.Join("out", "0001.png"),
		filepath.Join("out", "0002.png"),
		filepath.Join("out", "0003.png"),
	}, paths)
	assert.Empty(t, Paths("out", 0))
}

func TestList_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0003.png", "0001.png", "0002.png", "cover.png", "output.pdf", "12.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0004.png"), 0755))

	paths, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "0001.png"),
		filepath.Join(dir, "0002.png"),
		filepath.Join(dir, "0003.png"),
	}, paths)
}

func TestList_OrderingBreaksPastLimit(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []int{1001, 10000} {
		require.NoError(t, os.WriteFile(Path(dir, n), []byte("x"), 0644))
	}

	paths, err := List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "10000.png", filepath.Base(paths[0]))
}

func TestList_MissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
