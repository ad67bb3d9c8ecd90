package cropper

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	_ "image/jpeg"

	"github.com/bdougie/pagecap/internal/models"
)

// ErrInvalidTrimRange is returned when the trim would leave no pixels.
// The file is left untouched in that case.
var ErrInvalidTrimRange = errors.New("invalid trim range")

// Crop trims the margins in trim from the image at path and rewrites it as PNG in place
func Crop(path string, trim models.TrimSpec) error {
	if trim.IsZero() {
		return nil
	}

	img, err := loadImage(path)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	left := bounds.Min.X + trim.Left
	top := bounds.Min.Y + trim.Top
	right := bounds.Max.X - trim.Right
	bottom := bounds.Max.Y - trim.Bottom

	if left >= right || top >= bottom {
		return fmt.Errorf("%w: %s (%dx%d, trim %s)", ErrInvalidTrimRange, filepath.Base(path), bounds.Dx(), bounds.Dy(), trim)
	}

	rect := image.Rect(left, top, right, bottom)
	cropped := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(cropped, cropped.Bounds(), img, rect.Min, draw.Src)

	return savePNG(path, cropped)
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image '%s': %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}
	return img, nil
}

// savePNG writes through a temp file so a failed encode never truncates the page
func savePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".crop-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file for '%s': %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode '%s': %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", path, err)
	}
	return nil
}
