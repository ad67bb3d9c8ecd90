package platform

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/bdougie/pagecap/internal/models"
)

// ErrUnsupportedPlatform is returned on systems with neither id-based nor region capture
var ErrUnsupportedPlatform = errors.New("unsupported platform: " + runtime.GOOS)

// Platform is the OS surface needed to find, drive and capture a window
type Platform interface {
	// Name returns the GOOS the implementation targets
	Name() string

	// ListWindows enumerates the visible application windows
	ListWindows(ctx context.Context) ([]models.WindowRef, error)

	// CaptureRegistry returns the live window registry used to resolve an
	// id-based capture handle. It returns nil on platforms that capture by region.
	CaptureRegistry(ctx context.Context) ([]models.WindowRef, error)

	// Activate brings the window to the foreground
	Activate(ctx context.Context, w models.WindowRef) error

	// Capture writes one PNG of the window to dest
	Capture(ctx context.Context, h models.CaptureHandle, dest string) error

	// PressKey sends a single key press to the foreground window
	PressKey(ctx context.Context, key string) error
}

// New returns the implementation for the running OS
func New(logger *slog.Logger) (Platform, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return newPlatform(logger)
}
