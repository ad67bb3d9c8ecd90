//go:build darwin

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/bdougie/pagecap/internal/models"
)

type darwinPlatform struct {
	logger *slog.Logger
}

func newPlatform(logger *slog.Logger) (Platform, error) {
	if _, err := exec.LookPath("screencapture"); err != nil {
		return nil, fmt.Errorf("%w: screencapture not found", ErrUnsupportedPlatform)
	}
	return &darwinPlatform{logger: logger}, nil
}

func (p *darwinPlatform) Name() string { return "darwin" }

func (p *darwinPlatform) ListWindows(ctx context.Context) ([]models.WindowRef, error) {
	out, err := runJXA(ctx, listWindowsScript)
	if err != nil {
		return nil, err
	}
	return parseWindowList(out)
}

func (p *darwinPlatform) CaptureRegistry(ctx context.Context) ([]models.WindowRef, error) {
	out, err := runJXA(ctx, captureRegistryScript)
	if err != nil {
		return nil, err
	}
	windows, err := parseWindowList(out)
	if err != nil {
		return nil, err
	}
	if windows == nil {
		windows = []models.WindowRef{}
	}
	return windows, nil
}

func (p *darwinPlatform) Activate(ctx context.Context, w models.WindowRef) error {
	out, err := runJXA(ctx, activateScript, strconv.Itoa(w.PID), w.Title)
	if err != nil {
		return fmt.Errorf("failed to activate '%s': %w", w.Title, err)
	}
	if windowMissing(out) {
		p.logger.Warn("window not found in its process, only the app was brought forward", "title", w.Title, "app", w.App)
	}
	return nil
}

// Capture grabs the window by id: -x no sound, -o no shadow, -l window id
func (p *darwinPlatform) Capture(ctx context.Context, h models.CaptureHandle, dest string) error {
	if !h.ByID {
		return fmt.Errorf("window '%s' has no capture id", h.Window.Title)
	}
	cmd := exec.CommandContext(ctx, "screencapture", "-x", "-o", "-l", strconv.FormatUint(h.WindowID, 10), dest)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("screencapture failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func (p *darwinPlatform) PressKey(ctx context.Context, key string) error {
	codes, err := lookupKey(key)
	if err != nil {
		return err
	}
	_, err = runJXA(ctx, keyCodeScript, strconv.Itoa(int(codes.mac)))
	return err
}

func runJXA(ctx context.Context, script string, args ...string) ([]byte, error) {
	cmdArgs := append([]string{"-l", "JavaScript", "-e", script}, args...)
	cmd := exec.CommandContext(ctx, "osascript", cmdArgs...)
	output, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("osascript failed: %w\nOutput: %s", err, string(ee.Stderr))
		}
		return nil, fmt.Errorf("osascript failed: %w", err)
	}
	return output, nil
}
