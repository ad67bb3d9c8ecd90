package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/bdougie/pagecap/internal/cropper"
	"github.com/bdougie/pagecap/internal/fingerprint"
	"github.com/bdougie/pagecap/internal/models"
	"github.com/bdougie/pagecap/internal/pageset"
)

// Default timings of the loop
const (
	DefaultActivateDelay = 1 * time.Second
	DefaultSettleDelay   = 300 * time.Millisecond
	DefaultInterval      = 1200 * time.Millisecond
)

// Driver activates, captures and advances the target window
type Driver interface {
	Activate(ctx context.Context, w models.WindowRef) error
	Capture(ctx context.Context, h models.CaptureHandle, dest string) error
	PressKey(ctx context.Context, key string) error
}

// Options configures a capture session. Pages <= 0 means auto mode.
type Options struct {
	Pages         int
	MaxPages      int
	Key           string
	OutputDir     string
	Trim          models.TrimSpec
	ActivateDelay time.Duration
	SettleDelay   time.Duration
	Interval      time.Duration
	Progress      io.Writer
	Logger        *slog.Logger
}

// Auto reports whether the session runs until a repeated frame
func (o Options) Auto() bool {
	return o.Pages <= 0
}

// Result describes a finished session
type Result struct {
	Pages    []models.Page
	Total    int
	Auto     bool
	Capped   bool
	Started  time.Time
	Finished time.Time
}

// Session runs the capture loop against one window
type Session struct {
	driver Driver
	opts   Options
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	crop   func(path string, trim models.TrimSpec) error
}

// NewSession creates a session; zero delays are kept as zero
func NewSession(driver Driver, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Session{
		driver: driver,
		opts:   opts,
		logger: logger,
		sleep:  sleepContext,
		crop:   cropper.Crop,
	}
}

// Run captures pages into the output directory until the page count is
// reached or, in auto mode, until a frame repeats.
func (s *Session) Run(ctx context.Context, h models.CaptureHandle) (*Result, error) {
	if err := os.MkdirAll(s.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s': %w", s.opts.OutputDir, err)
	}

	result := &Result{Auto: s.opts.Auto(), Started: time.Now()}

	if err := s.driver.Activate(ctx, h.Window); err != nil {
		return nil, err
	}
	if err := s.sleep(ctx, s.opts.ActivateDelay); err != nil {
		return nil, err
	}

	var err error
	if result.Auto {
		s.logger.Info("capturing until a page repeats", "window", h.Window.Title, "output", s.opts.OutputDir)
		err = s.runAuto(ctx, h, result)
	} else {
		s.logger.Info("capturing pages", "pages", s.opts.Pages, "window", h.Window.Title, "output", s.opts.OutputDir)
		err = s.runFixed(ctx, h, result)
	}
	if err != nil {
		return nil, err
	}

	result.Total = len(result.Pages)
	result.Finished = time.Now()
	return result, nil
}

func (s *Session) runFixed(ctx context.Context, h models.CaptureHandle, result *Result) error {
	bar := progressbar.NewOptions(s.opts.Pages,
		progressbar.OptionSetDescription("Capturing"),
		progressbar.OptionSetWriter(s.opts.Progress),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("page"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
	defer bar.Finish()

	for i := 1; i <= s.opts.Pages; i++ {
		path, err := s.captureAndCrop(ctx, h, i)
		if err != nil {
			return err
		}
		digest, err := fingerprint.Fingerprint(path)
		if err != nil {
			return err
		}
		result.Pages = append(result.Pages, models.Page{Number: i, Path: path, Digest: string(digest)})
		bar.Add(1)

		if i < s.opts.Pages {
			if err := s.advance(ctx, h.Window); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) runAuto(ctx context.Context, h models.CaptureHandle, result *Result) error {
	var prev fingerprint.Digest
	for page := 1; ; page++ {
		if s.opts.MaxPages > 0 && page > s.opts.MaxPages {
			s.logger.Warn("page cap reached before a repeated page", "max_pages", s.opts.MaxPages)
			result.Capped = true
			return nil
		}

		path, err := s.captureAndCrop(ctx, h, page)
		if err != nil {
			return err
		}

		digest, err := fingerprint.Fingerprint(path)
		if err != nil {
			return err
		}
		if fingerprint.IsDuplicate(prev, digest) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove repeated page '%s': %w", path, err)
			}
			s.logger.Info("page repeated, stopping", "pages", page-1)
			return nil
		}
		prev = digest

		result.Pages = append(result.Pages, models.Page{Number: page, Path: path, Digest: string(digest)})
		s.logger.Debug("page captured", "page", page, "digest", digest)

		if err := s.advance(ctx, h.Window); err != nil {
			return err
		}
	}
}

func (s *Session) captureAndCrop(ctx context.Context, h models.CaptureHandle, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := pageset.Path(s.opts.OutputDir, page)
	if err := s.driver.Capture(ctx, h, path); err != nil {
		return "", fmt.Errorf("failed to capture page %d: %w", page, err)
	}

	if err := s.crop(path, s.opts.Trim); err != nil {
		if !errors.Is(err, cropper.ErrInvalidTrimRange) {
			return "", fmt.Errorf("failed to crop page %d: %w", page, err)
		}
		s.logger.Warn("crop skipped", "page", page, "error", err)
	}
	return path, nil
}

// advance re-activates the window, lets it settle, sends the page key and
// waits for the next page to render
func (s *Session) advance(ctx context.Context, w models.WindowRef) error {
	if err := s.driver.Activate(ctx, w); err != nil {
		return err
	}
	if err := s.sleep(ctx, s.opts.SettleDelay); err != nil {
		return err
	}
	if err := s.driver.PressKey(ctx, s.opts.Key); err != nil {
		return fmt.Errorf("failed to send key %q: %w", s.opts.Key, err)
	}
	return s.sleep(ctx, s.opts.Interval)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
