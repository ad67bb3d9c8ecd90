package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bdougie/pagecap/internal/models"
)

var (
	ErrNoWindowsFound          = errors.New("no windows found")
	ErrIndexOutOfRange         = errors.New("window index out of range")
	ErrNoMatchingCaptureHandle = errors.New("no matching capture window")
)

// Source is the part of the platform the locator reads from
type Source interface {
	ListWindows(ctx context.Context) ([]models.WindowRef, error)
	CaptureRegistry(ctx context.Context) ([]models.WindowRef, error)
}

// Locator finds the window to capture
type Locator struct {
	source Source
	logger *slog.Logger
}

// NewLocator creates a locator over source
func NewLocator(source Source, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{source: source, logger: logger}
}

// List returns the windows with a non-empty title
func (l *Locator) List(ctx context.Context) ([]models.WindowRef, error) {
	all, err := l.source.ListWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}

	var windows []models.WindowRef
	for _, w := range all {
		if strings.TrimSpace(w.Title) != "" {
			windows = append(windows, w)
		}
	}
	if len(windows) == 0 {
		return nil, ErrNoWindowsFound
	}

	l.logger.Debug("windows listed", "total", len(all), "titled", len(windows))
	return windows, nil
}

// Select returns list[index]
func Select(list []models.WindowRef, index int) (models.WindowRef, error) {
	if index < 0 || index >= len(list) {
		return models.WindowRef{}, fmt.Errorf("%w: %d (have %d windows)", ErrIndexOutOfRange, index, len(list))
	}
	return list[index], nil
}

// ResolveCaptureHandle turns the chosen window into a capture handle.
// When the platform captures by id, the title is matched against a fresh
// snapshot of the capture registry.
func (l *Locator) ResolveCaptureHandle(ctx context.Context, w models.WindowRef) (models.CaptureHandle, error) {
	registry, err := l.source.CaptureRegistry(ctx)
	if err != nil {
		return models.CaptureHandle{}, fmt.Errorf("failed to read capture registry: %w", err)
	}
	if registry == nil {
		return models.CaptureHandle{Window: w}, nil
	}

	match, ok := MatchTitle(w.Title, registry)
	if !ok {
		return models.CaptureHandle{}, fmt.Errorf("%w: %q", ErrNoMatchingCaptureHandle, strings.TrimSpace(w.Title))
	}

	l.logger.Debug("capture handle resolved", "title", w.Title, "window_id", match.ID, "matched", match.Title)
	return models.CaptureHandle{Window: w, WindowID: match.ID, ByID: true}, nil
}
