package pdf

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdougie/pagecap/internal/pageset"
)

func writePages(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 40+i, 30))
		for y := 0; y < 30; y++ {
			for x := 0; x < 40+i; x++ {
				img.Set(x, y, color.RGBA{R: uint8(i * 20), G: 100, B: 50, A: 255})
			}
		}
		f, err := os.Create(pageset.Path(dir, i))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
}

func TestAssemble_PageCount(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, 3)
	out := filepath.Join(dir, OutputName)

	require.NoError(t, NewAssembler(nil).Assemble(dir, 3, out))

	count, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// page widths grow with the page number, so they reveal the order
	dims, err := api.PageDimsFile(out)
	require.NoError(t, err)
	require.Len(t, dims, 3)
	assert.Less(t, dims[0].Width, dims[1].Width)
	assert.Less(t, dims[1].Width, dims[2].Width)
}

func TestAssemble_SubsetOfPages(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, 4)
	out := filepath.Join(t.TempDir(), "book.pdf")

	require.NoError(t, NewAssembler(nil).Assemble(dir, 2, out))

	count, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAssemble_MissingPage(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, 1)
	out := filepath.Join(dir, OutputName)

	err := NewAssembler(nil).Assemble(dir, 2, out)
	assert.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestAssemble_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, 2)
	out := filepath.Join(dir, OutputName)
	a := NewAssembler(nil)

	require.NoError(t, a.Assemble(dir, 2, out))
	require.NoError(t, a.Assemble(dir, 2, out))

	count, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAssembleFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	out, err := NewAssembler(nil).AssembleFromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, OutputName), out)

	count, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAssembleFromDirectory_Empty(t *testing.T) {
	dir := t.TempDir()

	_, err := NewAssembler(nil).AssembleFromDirectory(dir)
	assert.ErrorIs(t, err, ErrNoImagesFound)
	assert.NoFileExists(t, filepath.Join(dir, OutputName))
}

func TestAssemble_ZeroPages(t *testing.T) {
	dir := t.TempDir()
	err := NewAssembler(nil).Assemble(dir, 0, filepath.Join(dir, OutputName))
	assert.ErrorIs(t, err, ErrNoImagesFound)
}
