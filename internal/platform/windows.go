//go:build windows

package platform

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"unsafe"

	"github.com/kbinani/screenshot"
	"golang.org/x/sys/windows"

	"github.com/bdougie/pagecap/internal/models"
)

const (
	swRestore      = 9
	keyeventfKeyUp = 0x0002
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procShowWindow          = user32.NewProc("ShowWindow")
	procIsIconic            = user32.NewProc("IsIconic")
	procKeybdEvent          = user32.NewProc("keybd_event")
)

type windowsPlatform struct {
	logger *slog.Logger
}

func newPlatform(logger *slog.Logger) (Platform, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPlatform, err)
	}
	return &windowsPlatform{logger: logger}, nil
}

func (p *windowsPlatform) Name() string { return "windows" }

func (p *windowsPlatform) ListWindows(ctx context.Context) ([]models.WindowRef, error) {
	var refs []models.WindowRef
	cb := windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		if !windows.IsWindowVisible(hwnd) {
			return 1
		}
		buf := make([]uint16, 512)
		n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if n == 0 {
			return 1
		}
		var pid uint32
		windows.GetWindowThreadProcessId(hwnd, &pid)

		rect, _ := windowRect(hwnd)
		refs = append(refs, models.WindowRef{
			ID:     uint64(hwnd),
			Title:  windows.UTF16ToString(buf[:n]),
			PID:    int(pid),
			Bounds: [4]int{rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy()},
		})
		return 1
	})

	if err := windows.EnumWindows(cb, nil); err != nil {
		return nil, fmt.Errorf("EnumWindows failed: %w", err)
	}
	return refs, nil
}

// CaptureRegistry returns nil: windows are captured by their screen region
func (p *windowsPlatform) CaptureRegistry(ctx context.Context) ([]models.WindowRef, error) {
	return nil, nil
}

func (p *windowsPlatform) Activate(ctx context.Context, w models.WindowRef) error {
	hwnd := uintptr(w.ID)
	if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
		procShowWindow.Call(hwnd, swRestore)
	}
	// Windows may refuse focus changes; the key then goes to whatever has focus
	if ok, _, err := procSetForegroundWindow.Call(hwnd); ok == 0 {
		p.logger.Warn("SetForegroundWindow refused", "title", w.Title, "error", err)
	}
	return nil
}

// Capture grabs the window's current bounding box from the screen.
// The rectangle is read at capture time, so a moved window is captured where it is now.
func (p *windowsPlatform) Capture(ctx context.Context, h models.CaptureHandle, dest string) error {
	bounds, err := windowRect(windows.HWND(h.Window.ID))
	if err != nil {
		return err
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return fmt.Errorf("screen capture failed: %w", err)
	}

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", dest, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode '%s': %w", dest, err)
	}
	return file.Close()
}

func (p *windowsPlatform) PressKey(ctx context.Context, key string) error {
	codes, err := lookupKey(key)
	if err != nil {
		return err
	}
	vk := uintptr(codes.win)
	procKeybdEvent.Call(vk, 0, 0, 0)
	procKeybdEvent.Call(vk, 0, keyeventfKeyUp, 0)
	return nil
}

func windowRect(hwnd windows.HWND) (image.Rectangle, error) {
	var r windows.Rect
	if ok, _, err := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r))); ok == 0 {
		return image.Rectangle{}, fmt.Errorf("GetWindowRect failed: %v", err)
	}
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)), nil
}
