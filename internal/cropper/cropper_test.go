package cropper

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdougie/pagecap/internal/models"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "0001.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestCrop_Dimensions(t *testing.T) {
	cases := []struct {
		name  string
		trim  models.TrimSpec
		wantW int
		wantH int
	}{
		{"top only", models.TrimSpec{Top: 55}, 80, 5},
		{"all edges", models.TrimSpec{Top: 10, Bottom: 5, Left: 3, Right: 7}, 70, 45},
		{"one pixel left", models.TrimSpec{Left: 79}, 1, 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writePNG(t, 80, 60)
			require.NoError(t, Crop(path, tc.trim))

			b := decode(t, path).Bounds()
			assert.Equal(t, tc.wantW, b.Dx())
			assert.Equal(t, tc.wantH, b.Dy())
		})
	}
}

func TestCrop_KeepsPixelsAtOffset(t *testing.T) {
	path := writePNG(t, 20, 20)
	require.NoError(t, Crop(path, models.TrimSpec{Top: 2, Left: 3}))

	r, g, _, _ := decode(t, path).At(0, 0).RGBA()
	assert.Equal(t, uint32(3), r>>8)
	assert.Equal(t, uint32(2), g>>8)
}

func TestCrop_InvalidRangeLeavesFile(t *testing.T) {
	cases := []models.TrimSpec{
		{Top: 60},
		{Top: 30, Bottom: 30},
		{Left: 40, Right: 40},
		{Right: 100},
	}

	for _, trim := range cases {
		path := writePNG(t, 80, 60)
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		err = Crop(path, trim)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTrimRange))

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after, "trim %s", trim)
	}
}

func TestCrop_SecondPassUsesNewSize(t *testing.T) {
	path := writePNG(t, 80, 60)
	trim := models.TrimSpec{Top: 25, Bottom: 10}

	require.NoError(t, Crop(path, trim))
	assert.Equal(t, 25, decode(t, path).Bounds().Dy())

	err := Crop(path, trim)
	assert.ErrorIs(t, err, ErrInvalidTrimRange)
}

func TestCrop_ZeroTrimIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0001.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	assert.NoError(t, Crop(path, models.TrimSpec{}))
}

func TestCrop_UndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0001.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	err := Crop(path, models.TrimSpec{Top: 1})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidTrimRange))
}
